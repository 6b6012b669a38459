package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	CountByStatement(ctx context.Context, statementID uuid.UUID) (int, error)
	DeleteByStatement(ctx context.Context, statementID uuid.UUID) (int64, error)

	// BeginExtraction locks the statement for writing and fails with
	// ErrAlreadyExtracted if it already owns transactions.
	BeginExtraction(ctx context.Context, statementID uuid.UUID) (ExtractionTx, error)
}

type ExtractionTx interface {
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date       time.Time
	Amount     decimal.Decimal
	Category   *string
	Vendor     *string
	IsFlagged  bool
	FlagReason *string
}

type ListFilter struct {
	StatementID *uuid.UUID
	StartDate   *time.Time
	// EndDate is exclusive.
	EndDate     *time.Time
	FlaggedOnly bool
	// Newest orders by date descending; the default is ascending.
	Newest bool
	Limit  int
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Recent returns the n most recent transactions across all statements.
func (s *Service) Recent(ctx context.Context, n int) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{Newest: true, Limit: n})
}

func (s *Service) CountForStatement(ctx context.Context, statementID uuid.UUID) (int, error) {
	return s.repo.CountByStatement(ctx, statementID)
}

// DeleteForStatement removes every transaction of a statement so it can be
// extracted again.
func (s *Service) DeleteForStatement(ctx context.Context, statementID uuid.UUID) (int64, error) {
	return s.repo.DeleteByStatement(ctx, statementID)
}

// CreateForStatement stores all params as transactions of one statement in a
// single database transaction: either every row is written or none is.
func (s *Service) CreateForStatement(ctx context.Context, statementID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	etx, err := s.repo.BeginExtraction(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("begin extraction: %w", err)
	}
	defer etx.Rollback()

	txs := paramsToTransactions(statementID, params)
	if err := etx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := etx.Commit(); err != nil {
		return nil, fmt.Errorf("commit extraction: %w", err)
	}

	return txs, nil
}

func paramsToTransactions(statementID uuid.UUID, params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			Date:        p.Date,
			Amount:      p.Amount,
			Category:    p.Category,
			Vendor:      p.Vendor,
			IsFlagged:   p.IsFlagged,
			FlagReason:  p.FlagReason,
			StatementID: statementID,
		}
	}

	return txs
}
