package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

// Response is the API view of a transaction. It is shared by every endpoint
// that lists transactions.
type Response struct {
	ID           uuid.UUID            `json:"id"`
	Date         string               `json:"date"`
	Amount       decimal.Decimal      `json:"amount"`
	Category     *string              `json:"category"`
	TaxCategory  taxcategory.Category `json:"tax_category"`
	Vendor       *string              `json:"vendor"`
	IsFlagged    bool                 `json:"is_flagged"`
	FlagReason   *string              `json:"flag_reason"`
	StatementID  uuid.UUID            `json:"statement_id"`
	PropertyName string               `json:"property_name"`
	CreatedAt    time.Time            `json:"created_at"`
}

func ToResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:           tx.ID,
		Date:         tx.Date.Format(time.DateOnly),
		Amount:       tx.Amount,
		Category:     tx.Category,
		TaxCategory:  taxcategory.Normalize(tx.Category),
		Vendor:       tx.Vendor,
		IsFlagged:    tx.IsFlagged,
		FlagReason:   tx.FlagReason,
		StatementID:  tx.StatementID,
		PropertyName: tx.PropertyName,
		CreatedAt:    tx.CreatedAt,
	}
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
