// Package money formats decimal amounts for people.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Format renders d as US dollars with thousands separators, e.g. -$2,500.00.
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	d = d.Round(2)
	_, cents, _ := strings.Cut(d.StringFixed(2), ".")

	return sign + "$" + humanize.Comma(d.IntPart()) + "." + cents
}
