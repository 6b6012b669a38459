package extraction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is one transaction read from a statement, not yet persisted.
// Nil pointers mean the service could not determine the value.
type Candidate struct {
	Date *time.Time
	// Amount is negative for expenses and positive for income.
	Amount decimal.Decimal
	// AmountMissing is set when the statement gave no amount; Amount is zero.
	AmountMissing bool
	Vendor        *string
	Category      *string
	Flagged       bool
	FlagReason    *string
}

func (c Candidate) vendor() string {
	if c.Vendor == nil {
		return ""
	}

	return *c.Vendor
}
