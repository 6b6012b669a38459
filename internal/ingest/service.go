// Package ingest discovers new statement documents and turns them into
// stored statements and transactions.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	"github.com/MrJamesThe3rd/rentbook/internal/extraction"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=ingest

// TextExtractor turns a downloaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

// CandidateExtractor reads transactions out of statement text.
type CandidateExtractor interface {
	Extract(ctx context.Context, text string) ([]extraction.Candidate, error)
}

type Properties interface {
	Owner(ctx context.Context) (*property.Property, error)
}

type Statements interface {
	References(ctx context.Context) (map[string]struct{}, error)
	Create(ctx context.Context, params statement.CreateParams) (*statement.Statement, error)
	Get(ctx context.Context, id uuid.UUID) (*statement.Statement, error)
	AttachRawText(ctx context.Context, id uuid.UUID, text string) error
	List(ctx context.Context) ([]*statement.Summary, error)
}

type Transactions interface {
	CountForStatement(ctx context.Context, statementID uuid.UUID) (int, error)
	CreateForStatement(ctx context.Context, statementID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error)
	DeleteForStatement(ctx context.Context, statementID uuid.UUID) (int64, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Documents    docstore.Store
	Text         TextExtractor
	Extractor    CandidateExtractor
	Properties   Properties
	Statements   Statements
	Transactions Transactions
}

type Option func(*Service)

// WithWorkers sets how many documents are processed at once. Values below
// one mean one.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = max(n, 1)
	}
}

// WithClock replaces time.Now for statements whose document carries no date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	Deps

	workers int
	now     func() time.Time
}

func NewService(deps Deps, opts ...Option) *Service {
	s := &Service{Deps: deps, workers: 1, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sync imports every PDF in folderRef that has not been imported before.
// Documents are processed independently: a failing document is recorded in
// the report and the others carry on. Running Sync again over an unchanged
// folder adds nothing.
//
// A document is only recorded once its text has been read. One that cannot be
// fetched or read is downloaded again, and reported again, by every later
// Sync until it is fixed or removed from the folder.
func (s *Service) Sync(ctx context.Context, folderRef string) (*Report, error) {
	if strings.TrimSpace(folderRef) == "" {
		return nil, apperr.Configuration("source folder is not set (SOURCE_FOLDER_ID)")
	}

	log := logger.FromContext(ctx).With().Str("folder", folderRef).Logger()
	ctx = logger.WithContext(ctx, log)

	docs, err := s.Documents.List(ctx, folderRef)
	if err != nil {
		return nil, err
	}

	existing, err := s.Statements.References(ctx)
	if err != nil {
		return nil, err
	}

	fresh := newDocuments(docs, existing)
	report := newReport(len(docs))

	log.Info().Int("listed", len(docs)).Int("new", len(fresh)).Msg("listed source documents")

	if len(fresh) == 0 {
		return report, nil
	}

	owner, err := s.Properties.Owner(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := s.each(len(fresh), func(i int) outcome {
		return s.importDocument(ctx, owner.ID, fresh[i])
	})

	for i, o := range outcomes {
		report.add(fresh[i], o)
	}

	log.Info().
		Int("statements", report.StatementsCreated).
		Int("transactions", report.TransactionsCreated).
		Int("flagged", report.Flagged).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("sync finished")

	return report, nil
}

// AnalyzeStatement extracts the transactions of a stored statement from its
// raw text. It refuses statements that already own transactions; those need
// ResetStatement first.
func (s *Service) AnalyzeStatement(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	st, err := s.Statements.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if st.RawText == nil || strings.TrimSpace(*st.RawText) == "" {
		return nil, apperr.Validation("statement %s has no text to analyze", id)
	}

	count, err := s.Transactions.CountForStatement(ctx, id)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, fmt.Errorf("statement %s has %d transactions: %w", id, count, transaction.ErrAlreadyExtracted)
	}

	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With().Str("statement", id.String()).Logger())

	o := s.extract(ctx, st, *st.RawText)
	if o.err != nil {
		return nil, o.err
	}

	return &Analysis{StatementID: id, TransactionsCreated: o.transactions, Flagged: o.flagged}, nil
}

// AnalyzePending runs AnalyzeStatement over every statement that has text
// but no transactions, which is what a failed extraction leaves behind.
func (s *Service) AnalyzePending(ctx context.Context) (*Report, error) {
	summaries, err := s.Statements.List(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*statement.Summary

	for _, sum := range summaries {
		if sum.NeedsAnalysis() {
			pending = append(pending, sum)
		}
	}

	report := newReport(len(pending))

	outcomes := s.each(len(pending), func(i int) outcome {
		a, err := s.AnalyzeStatement(ctx, pending[i].ID)
		if err != nil {
			return outcome{err: err}
		}

		return outcome{transactions: a.TransactionsCreated, flagged: a.Flagged}
	})

	for i, o := range outcomes {
		report.add(docstore.Document{Name: pending[i].FileName}, o)
	}

	return report, nil
}

// ResetStatement deletes the transactions of a statement so it can be
// analyzed again. The statement and its text are kept.
func (s *Service) ResetStatement(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.Statements.Get(ctx, id); err != nil {
		return 0, err
	}

	n, err := s.Transactions.DeleteForStatement(ctx, id)
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("statement", id.String()).Int64("deleted", n).Msg("statement reset")

	return n, nil
}

// each runs fn for 0..n-1 on at most s.workers goroutines and returns the
// outcomes in index order. fn never fails the group, so one document cannot
// cancel another.
func (s *Service) each(n int, fn func(i int) outcome) []outcome {
	outcomes := make([]outcome, n)

	var g errgroup.Group

	g.SetLimit(s.workers)

	for i := range n {
		g.Go(func() error {
			outcomes[i] = fn(i)
			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

// importDocument downloads and reads doc before creating its statement, so a
// document that cannot be read leaves nothing behind and is retried by the
// next sync.
func (s *Service) importDocument(ctx context.Context, propertyID uuid.UUID, doc docstore.Document) outcome {
	log := logger.FromContext(ctx).With().Str("document", doc.Name).Logger()
	ctx = logger.WithContext(ctx, log)

	body, err := s.Documents.Fetch(ctx, doc.ID)
	if err != nil {
		log.Warn().Err(err).Bool("retry_next_sync", true).Msg("fetch failed")
		return outcome{err: err}
	}

	text, err := s.Text.Extract(ctx, body)
	if err != nil {
		log.Warn().Err(err).Bool("retry_next_sync", true).Msg("text extraction failed")
		return outcome{err: err}
	}

	st, err := s.Statements.Create(ctx, statement.CreateParams{
		Date:              doc.Date(s.now()),
		ExternalReference: doc.Reference(),
		FileName:          doc.Name,
		PropertyID:        propertyID,
	})
	if errors.Is(err, statement.ErrDuplicate) {
		log.Info().Str("reference", doc.Reference()).Msg("statement already imported, skipping")
		return outcome{skipped: true}
	}

	if err != nil {
		return outcome{err: fmt.Errorf("creating statement: %w", err)}
	}

	if err := s.Statements.AttachRawText(ctx, st.ID, text); err != nil {
		return outcome{created: true, err: fmt.Errorf("saving statement text: %w", err)}
	}

	st.RawText = &text

	o := s.extract(ctx, st, text)
	o.created = true

	return o
}

// extract runs the extractor over text and stores the result as the
// transactions of st in one database transaction.
func (s *Service) extract(ctx context.Context, st *statement.Statement, text string) outcome {
	log := logger.FromContext(ctx)

	cands, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return outcome{err: err}
	}

	if len(cands) == 0 {
		log.Info().Msg("no transactions found")
		return outcome{}
	}

	txs, err := s.Transactions.CreateForStatement(ctx, st.ID, toCreateParams(cands, st.Date))
	if err != nil {
		return outcome{err: fmt.Errorf("saving transactions: %w", err)}
	}

	o := outcome{transactions: len(txs)}

	for _, tx := range txs {
		if tx.IsFlagged {
			o.flagged++
		}
	}

	log.Info().Int("transactions", o.transactions).Int("flagged", o.flagged).Msg("statement extracted")

	return o
}

// newDocuments drops documents without a reference, documents already
// imported and repeats within the listing, keeping listing order.
func newDocuments(docs []docstore.Document, existing map[string]struct{}) []docstore.Document {
	seen := make(map[string]struct{}, len(docs))

	var fresh []docstore.Document

	for _, d := range docs {
		ref := d.Reference()
		if ref == "" {
			continue
		}

		if _, ok := existing[ref]; ok {
			continue
		}

		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}
		fresh = append(fresh, d)
	}

	return fresh
}

// toCreateParams maps candidates to stored transactions. Undated candidates
// take the statement's date and a missing amount is stored as zero; both are
// already flagged.
func toCreateParams(cands []extraction.Candidate, statementDate time.Time) []transaction.CreateParams {
	fallback := dateOnly(statementDate)

	params := make([]transaction.CreateParams, len(cands))
	for i, c := range cands {
		date := fallback
		if c.Date != nil {
			date = dateOnly(*c.Date)
		}

		params[i] = transaction.CreateParams{
			Date:       date,
			Amount:     c.Amount,
			Category:   c.Category,
			Vendor:     c.Vendor,
			IsFlagged:  c.Flagged,
			FlagReason: c.FlagReason,
		}
	}

	return params
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
