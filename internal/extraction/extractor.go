// Package extraction turns statement text into candidate transactions with
// the help of a reasoning service, and applies the local review rules.
package extraction

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
)

const systemPrompt = "You are a financial data extraction assistant for a rental property " +
	"bookkeeping system. Answer with a single strict JSON object and nothing else: no " +
	"markdown, no commentary."

const instructions = `Extract every transaction from the statement below.

For each transaction return:
- date: the transaction date as YYYY-MM-DD, or null if it cannot be read
- amount: a number, negative for expenses and positive for income, or null if unclear
- vendor: the merchant or counterparty name, or null
- category: a short free-text category such as "Maintenance", "Utilities", "Rent Income", "Insurance", "Repairs", or null
- isFlagged: true when the transaction needs human review
- flagReason: a short explanation when isFlagged is true, otherwise null

Flag a transaction when any of these apply:
1. It looks like a duplicate of another transaction in this statement: same vendor, same amount, dates within 3 days.
2. It is maintenance or repair work costing more than $1,000.
3. The vendor, date or amount is missing.

Answer with exactly this shape:
{"transactions":[{"date":"2024-01-15","amount":-125.50,"vendor":"Home Depot","category":"Maintenance","isFlagged":false,"flagReason":null}]}

If the statement has no transactions answer {"transactions":[]}.

Statement text:
`

// Extractor reads statements through a reasoning.Client.
type Extractor struct {
	client reasoning.Client
}

func New(client reasoning.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the candidates found in statementText. An empty result is
// valid. A malformed answer fails the whole call with a validation error and
// nothing is returned.
func (e *Extractor) Extract(ctx context.Context, statementText string) ([]Candidate, error) {
	if strings.TrimSpace(statementText) == "" {
		return nil, apperr.Validation("statement text is empty")
	}

	log := logger.FromContext(ctx)

	raw, err := e.client.Complete(ctx, reasoning.Request{
		System:      systemPrompt,
		Prompt:      instructions + statementText,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	cands, err := decodeResponse(raw)
	if err != nil {
		log.Warn().Err(err).Int("response_bytes", len(raw)).Msg("rejected extraction response")
		return nil, err
	}

	cands = ApplyFlagPolicy(cands)

	log.Debug().Int("candidates", len(cands)).Msg("extracted transactions")

	return cands, nil
}
