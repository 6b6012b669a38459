package ingest

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
)

// Report summarises one run over a batch of documents. A run that returns a
// Report succeeded as a whole even when Errors is not empty.
type Report struct {
	Discovered          int             `json:"discovered"`
	StatementsCreated   int             `json:"statements_created"`
	TransactionsCreated int             `json:"transactions_created"`
	Flagged             int             `json:"flagged"`
	Skipped             int             `json:"skipped"`
	Errors              []DocumentError `json:"errors"`
}

// DocumentError is the failure of a single document. Error holds the
// original message verbatim.
type DocumentError struct {
	Document string `json:"document"`
	Error    string `json:"error"`
	Err      error  `json:"-"`
}

// Failed reports whether any document failed.
func (r *Report) Failed() bool {
	return len(r.Errors) > 0
}

// Analysis is the result of extracting one stored statement.
type Analysis struct {
	StatementID         uuid.UUID `json:"statement_id"`
	TransactionsCreated int       `json:"transactions_created"`
	Flagged             int       `json:"flagged"`
}

// outcome is what happened to one document of a batch.
type outcome struct {
	created      bool
	skipped      bool
	transactions int
	flagged      int
	err          error
}

func newReport(discovered int) *Report {
	return &Report{Discovered: discovered, Errors: []DocumentError{}}
}

func (r *Report) add(doc docstore.Document, o outcome) {
	if o.created {
		r.StatementsCreated++
	}

	if o.skipped {
		r.Skipped++
	}

	r.TransactionsCreated += o.transactions
	r.Flagged += o.flagged

	if o.err != nil {
		r.Errors = append(r.Errors, DocumentError{Document: doc.Name, Error: o.err.Error(), Err: o.err})
	}
}
