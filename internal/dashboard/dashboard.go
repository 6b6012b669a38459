// Package dashboard computes the income and expense overview.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

// RecentLimit is how many transactions the recent feed shows.
const RecentLimit = 20

type Summary struct {
	WindowStart  time.Time
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Net          decimal.Decimal
	// Recent is newest first and is not limited to the window.
	Recent []*transaction.Transaction
}

// Summarize totals the transactions of txs dated on or after windowStart.
// Expenses are totalled as absolute values.
func Summarize(txs []*transaction.Transaction, windowStart time.Time, recent []*transaction.Transaction) Summary {
	s := Summary{
		WindowStart:  windowStart,
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Recent:       recent,
	}

	for _, tx := range txs {
		if tx.Date.Before(windowStart) {
			continue
		}

		switch {
		case tx.IsIncome():
			s.IncomeTotal = s.IncomeTotal.Add(tx.Amount)
		case tx.IsExpense():
			s.ExpenseTotal = s.ExpenseTotal.Add(tx.Amount.Abs())
		}
	}

	s.Net = s.IncomeTotal.Sub(s.ExpenseTotal)

	if s.Recent == nil {
		s.Recent = []*transaction.Transaction{}
	}

	return s
}

// YearStart is the default window: January 1st of now's year.
func YearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

type Service struct {
	transactions *transaction.Service
}

func NewService(transactions *transaction.Service) *Service {
	return &Service{transactions: transactions}
}

// Summarize loads the window and the recent feed concurrently. Either query
// failing fails the whole summary.
func (s *Service) Summarize(ctx context.Context, windowStart time.Time) (*Summary, error) {
	var window, recent []*transaction.Transaction

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		window, err = s.transactions.List(ctx, transaction.ListFilter{StartDate: &windowStart})
		if err != nil {
			return fmt.Errorf("loading transactions since %s: %w", windowStart.Format(time.DateOnly), err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		recent, err = s.transactions.Recent(ctx, RecentLimit)
		if err != nil {
			return fmt.Errorf("loading recent transactions: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(window, windowStart, recent)

	return &summary, nil
}
