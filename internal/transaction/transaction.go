package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrAlreadyExtracted is returned when a statement already owns
	// transactions and new ones would be inserted alongside them.
	ErrAlreadyExtracted = errors.New("statement already has transactions")
)

// Transaction is a single line read from a statement.
type Transaction struct {
	ID   uuid.UUID
	Date time.Time
	// Amount is negative for expenses and positive for income.
	Amount      decimal.Decimal
	Category    *string
	Vendor      *string
	IsFlagged   bool
	FlagReason  *string
	StatementID uuid.UUID
	// PropertyName is loaded via JOIN and is empty when the statement or
	// property link is missing.
	PropertyName string
	CreatedAt    time.Time
}

func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}
