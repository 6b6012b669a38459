package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/money"
)

const dbTimeout = 5 * time.Second

// baseCtx is the parent of every context the views create. It carries the
// logger set up by main.
var baseCtx = context.Background()

// UseContext replaces the parent context of all views. Call it before the
// program starts.
func UseContext(ctx context.Context) {
	baseCtx = ctx
}

// FormatAmount formats a signed amount as dollars, e.g. -$1,250.00.
func FormatAmount(amount decimal.Decimal) string {
	return money.Format(amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(baseCtx, dbTimeout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
