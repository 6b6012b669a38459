package ingest

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	"github.com/MrJamesThe3rd/rentbook/internal/extraction"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

// fakeDocs serves a fixed listing. A document's body is its ID.
type fakeDocs struct {
	mu        sync.Mutex
	docs      []docstore.Document
	failFetch map[string]error
	fetched   []string
}

func (f *fakeDocs) List(context.Context, string) ([]docstore.Document, error) {
	return f.docs, nil
}

func (f *fakeDocs) Fetch(_ context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetched = append(f.fetched, id)

	if err := f.failFetch[id]; err != nil {
		return nil, err
	}

	return []byte(id), nil
}

// echoText returns the document body as its text.
type echoText struct{}

func (echoText) Extract(_ context.Context, doc []byte) (string, error) {
	return "statement " + string(doc), nil
}

// scriptedExtractor answers by statement text.
type scriptedExtractor struct {
	results map[string][]extraction.Candidate
	errs    map[string]error
}

func (e *scriptedExtractor) Extract(_ context.Context, text string) ([]extraction.Candidate, error) {
	if err := e.errs[text]; err != nil {
		return nil, err
	}

	return e.results[text], nil
}

type fakeProperties struct {
	owner *property.Property
	err   error
	calls int
}

func (f *fakeProperties) Owner(context.Context) (*property.Property, error) {
	f.calls++
	return f.owner, f.err
}

// fakeStore keeps statements and transactions in memory with the same
// uniqueness rules as the database.
type fakeStore struct {
	mu         sync.Mutex
	statements map[uuid.UUID]*statement.Statement
	byRef      map[string]uuid.UUID
	txs        map[uuid.UUID][]*transaction.Transaction
	// hidden references collide on insert without being listed, like a
	// concurrent sync that won the race.
	hidden map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statements: map[uuid.UUID]*statement.Statement{},
		byRef:      map[string]uuid.UUID{},
		txs:        map[uuid.UUID][]*transaction.Transaction{},
		hidden:     map[string]bool{},
	}
}

func (f *fakeStore) References(context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	refs := make(map[string]struct{}, len(f.byRef))
	for r := range f.byRef {
		refs[r] = struct{}{}
	}

	return refs, nil
}

func (f *fakeStore) Create(_ context.Context, p statement.CreateParams) (*statement.Statement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byRef[p.ExternalReference]; ok || f.hidden[p.ExternalReference] {
		return nil, statement.ErrDuplicate
	}

	st := &statement.Statement{
		ID:                uuid.New(),
		Date:              p.Date,
		ExternalReference: p.ExternalReference,
		FileName:          p.FileName,
		PropertyID:        p.PropertyID,
	}
	f.statements[st.ID] = st
	f.byRef[st.ExternalReference] = st.ID

	cp := *st

	return &cp, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*statement.Statement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.statements[id]
	if !ok {
		return nil, statement.ErrNotFound
	}

	cp := *st

	return &cp, nil
}

func (f *fakeStore) AttachRawText(_ context.Context, id uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.statements[id]
	if !ok {
		return statement.ErrNotFound
	}

	st.RawText = &text

	return nil
}

func (f *fakeStore) List(context.Context) ([]*statement.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*statement.Summary
	for id, st := range f.statements {
		out = append(out, &statement.Summary{Statement: *st, TransactionCount: len(f.txs[id])})
	}

	slices.SortFunc(out, func(a, b *statement.Summary) int {
		return a.Date.Compare(b.Date)
	})

	return out, nil
}

func (f *fakeStore) CountForStatement(_ context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.txs[id]), nil
}

func (f *fakeStore) CreateForStatement(_ context.Context, id uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.statements[id]; !ok {
		return nil, statement.ErrNotFound
	}

	if len(f.txs[id]) > 0 {
		return nil, transaction.ErrAlreadyExtracted
	}

	txs := make([]*transaction.Transaction, len(params))
	for i, p := range params {
		txs[i] = &transaction.Transaction{
			ID:          uuid.New(),
			Date:        p.Date,
			Amount:      p.Amount,
			Category:    p.Category,
			Vendor:      p.Vendor,
			IsFlagged:   p.IsFlagged,
			FlagReason:  p.FlagReason,
			StatementID: id,
		}
	}

	f.txs[id] = txs

	return txs, nil
}

func (f *fakeStore) DeleteForStatement(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.txs[id])
	delete(f.txs, id)

	return int64(n), nil
}

func (f *fakeStore) statementByRef(ref string) *statement.Statement {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byRef[ref]
	if !ok {
		return nil
	}

	return f.statements[id]
}

func (f *fakeStore) transactionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, txs := range f.txs {
		n += len(txs)
	}

	return n
}
