// Package taxprep groups a year's expenses by tax category.
package taxprep

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

// Group is the expenses of one category. Total is the sum of the absolute
// amounts of its transactions.
type Group struct {
	Category     taxcategory.Category
	Total        decimal.Decimal
	Count        int
	Transactions []*transaction.Transaction
}

type Report struct {
	Year int
	// Groups holds only categories with expenses, largest total first.
	Groups          []Group
	TotalDeductions decimal.Decimal
}

// Group returns the group of c, if it has any expenses.
func (r *Report) Group(c taxcategory.Category) (Group, bool) {
	for _, g := range r.Groups {
		if g.Category == c {
			return g, true
		}
	}

	return Group{}, false
}

// Aggregate builds the report for year from txs. Income and transactions
// dated outside year are ignored. The result depends only on the input.
func Aggregate(txs []*transaction.Transaction, year int) Report {
	categories := taxcategory.All()

	groups := make(map[taxcategory.Category]*Group, len(categories))
	for _, c := range categories {
		groups[c] = &Group{Category: c, Total: decimal.Zero}
	}

	for _, tx := range txs {
		if !tx.IsExpense() || tx.Date.Year() != year {
			continue
		}

		g := groups[taxcategory.Normalize(tx.Category)]
		g.Total = g.Total.Add(tx.Amount.Abs())
		g.Count++
		g.Transactions = append(g.Transactions, tx)
	}

	report := Report{Year: year, TotalDeductions: decimal.Zero}

	for _, c := range categories {
		g := groups[c]
		if g.Total.IsZero() {
			continue
		}

		report.Groups = append(report.Groups, *g)
		report.TotalDeductions = report.TotalDeductions.Add(g.Total)
	}

	// Stable, so equal totals keep taxonomy order.
	slices.SortStableFunc(report.Groups, func(a, b Group) int {
		return b.Total.Cmp(a.Total)
	})

	return report
}

type Service struct {
	transactions *transaction.Service
}

func NewService(transactions *transaction.Service) *Service {
	return &Service{transactions: transactions}
}

// Report loads every transaction dated in year and aggregates it.
func (s *Service) Report(ctx context.Context, year int) (*Report, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	txs, err := s.transactions.List(ctx, transaction.ListFilter{
		StartDate: &start,
		EndDate:   &end,
		Newest:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("loading transactions for %d: %w", year, err)
	}

	report := Aggregate(txs, year)

	return &report, nil
}
