// Package taxcategory maps free-text transaction categories onto the fixed
// Schedule E expense categories used for tax reporting.
package taxcategory

import "strings"

// Category is one of the fixed Schedule E expense buckets.
type Category string

const (
	Advertising         Category = "Advertising"
	AutoAndTravel       Category = "Auto and Travel"
	CleaningMaintenance Category = "Cleaning and Maintenance"
	Commissions         Category = "Commissions"
	Insurance           Category = "Insurance"
	LegalProfessional   Category = "Legal and Professional Fees"
	ManagementFees      Category = "Management Fees"
	MortgageInterest    Category = "Mortgage Interest"
	OtherExpenses       Category = "Other Expenses"
	Repairs             Category = "Repairs"
	Supplies            Category = "Supplies"
	Taxes               Category = "Taxes"
	Travel              Category = "Travel"
	Utilities           Category = "Utilities"
)

var all = []Category{
	Advertising,
	AutoAndTravel,
	CleaningMaintenance,
	Commissions,
	Insurance,
	LegalProfessional,
	ManagementFees,
	MortgageInterest,
	OtherExpenses,
	Repairs,
	Supplies,
	Taxes,
	Travel,
	Utilities,
}

// All returns the taxonomy in its canonical order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)

	return out
}

type rule struct {
	keywords []string
	category Category
}

// rules is evaluated top to bottom and the first hit wins. Keyword sets
// overlap ("gas" is both Travel and Utilities), so the order is part of the
// contract.
var rules = []rule{
	{keywords: []string{"cleaning", "maintenance", "landscaping", "lawn"}, category: CleaningMaintenance},
	{keywords: []string{"repair", "fix", "replacement"}, category: Repairs},
	{keywords: []string{"insurance"}, category: Insurance},
	{keywords: []string{"management", "property management"}, category: ManagementFees},
	{keywords: []string{"travel", "mileage", "gas"}, category: Travel},
	{keywords: []string{"auto", "vehicle", "car"}, category: AutoAndTravel},
	{keywords: []string{"utility", "electric", "water", "gas", "internet", "phone"}, category: Utilities},
	{keywords: []string{"tax"}, category: Taxes},
	{keywords: []string{"legal", "attorney", "lawyer"}, category: LegalProfessional},
	{keywords: []string{"advertising", "marketing", "ad"}, category: Advertising},
	{keywords: []string{"commission"}, category: Commissions},
	{keywords: []string{"supply", "material"}, category: Supplies},
	{keywords: []string{"mortgage", "interest", "loan"}, category: MortgageInterest},
}

// Normalize maps a raw category to a Schedule E category. It never fails:
// nil, empty or unrecognised input maps to OtherExpenses.
func Normalize(raw *string) Category {
	if raw == nil {
		return OtherExpenses
	}

	return NormalizeString(*raw)
}

// NormalizeString is Normalize for callers holding a plain string.
func NormalizeString(raw string) Category {
	lower := strings.ToLower(raw)
	if strings.TrimSpace(lower) == "" {
		return OtherExpenses
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}

	return OtherExpenses
}

// IsMaintenanceLike reports whether c is one of the upkeep categories that
// the large-expense flag applies to.
func IsMaintenanceLike(c Category) bool {
	return c == CleaningMaintenance || c == Repairs
}

// Valid reports whether c is part of the fixed taxonomy.
func Valid(c Category) bool {
	for _, known := range all {
		if known == c {
			return true
		}
	}

	return false
}
