package extraction

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/money"
	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
)

const (
	// DuplicateWindow is how far apart two otherwise identical charges may be
	// and still count as duplicates.
	DuplicateWindow = 3 * 24 * time.Hour

	reasonDuplicate       = "Possible duplicate transaction"
	reasonMissingVendor   = "Missing vendor name"
	reasonMissingDate     = "Missing transaction date"
	reasonMissingAmount   = "Missing amount"
	reasonDefault         = "Flagged for review"
	flagReasonSeparator   = "; "
	highMaintenancePrefix = "Unusually high maintenance cost: "
)

// HighMaintenanceThreshold is the absolute amount above which an upkeep
// expense is flagged.
var HighMaintenanceThreshold = decimal.NewFromInt(1000)

// ApplyFlagPolicy applies the local review rules on top of whatever the
// reasoning service decided. It never clears a flag the service set, and
// every flagged candidate leaves with a non-empty reason.
func ApplyFlagPolicy(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)

	dups := duplicateIndexes(out)

	for i := range out {
		c := &out[i]

		var reasons []string

		if dups[i] {
			reasons = append(reasons, reasonDuplicate)
		}

		if !c.AmountMissing &&
			taxcategory.IsMaintenanceLike(taxcategory.Normalize(c.Category)) &&
			c.Amount.Abs().GreaterThan(HighMaintenanceThreshold) {
			reasons = append(reasons, highMaintenancePrefix+money.Format(c.Amount.Abs()))
		}

		if c.Vendor == nil {
			reasons = append(reasons, reasonMissingVendor)
		}

		if c.Date == nil {
			reasons = append(reasons, reasonMissingDate)
		}

		if c.AmountMissing {
			reasons = append(reasons, reasonMissingAmount)
		}

		if c.Flagged && c.FlagReason != nil && !slices.Contains(reasons, *c.FlagReason) {
			reasons = append([]string{*c.FlagReason}, reasons...)
		}

		if c.Flagged && len(reasons) == 0 {
			reasons = append(reasons, reasonDefault)
		}

		if len(reasons) == 0 {
			c.Flagged = false
			c.FlagReason = nil

			continue
		}

		reason := strings.Join(reasons, flagReasonSeparator)
		c.Flagged = true
		c.FlagReason = &reason
	}

	return out
}

// duplicateIndexes marks every candidate that shares a vendor and amount with
// another candidate dated within DuplicateWindow.
func duplicateIndexes(cands []Candidate) map[int]bool {
	marked := make(map[int]bool)

	for i := range cands {
		for j := i + 1; j < len(cands); j++ {
			if isDuplicate(cands[i], cands[j]) {
				marked[i] = true
				marked[j] = true
			}
		}
	}

	return marked
}

func isDuplicate(a, b Candidate) bool {
	va, vb := vendorKey(a.vendor()), vendorKey(b.vendor())
	if va == "" || va != vb {
		return false
	}

	if a.AmountMissing || b.AmountMissing || !a.Amount.Equal(b.Amount) {
		return false
	}

	if a.Date == nil || b.Date == nil {
		return false
	}

	diff := a.Date.Sub(*b.Date)
	if diff < 0 {
		diff = -diff
	}

	return diff <= DuplicateWindow
}

func vendorKey(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
