package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=statement
type Repository interface {
	// CreateStatement inserts s and fills in its ID. It returns ErrDuplicate
	// when the external reference is already taken.
	CreateStatement(ctx context.Context, s *Statement) error
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	ListReferences(ctx context.Context) ([]string, error)
	UpdateRawText(ctx context.Context, id uuid.UUID, text string) error
	ListStatements(ctx context.Context) ([]*Summary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date              time.Time
	ExternalReference string
	FileName          string
	PropertyID        uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Statement, error) {
	st := &Statement{
		Date:              params.Date,
		ExternalReference: params.ExternalReference,
		FileName:          params.FileName,
		PropertyID:        params.PropertyID,
	}
	if err := s.repo.CreateStatement(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

// References returns the set of external references already imported.
func (s *Service) References(ctx context.Context) (map[string]struct{}, error) {
	refs, err := s.repo.ListReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing statement references: %w", err)
	}

	set := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}

	return set, nil
}

func (s *Service) AttachRawText(ctx context.Context, id uuid.UUID, text string) error {
	return s.repo.UpdateRawText(ctx, id, text)
}

func (s *Service) List(ctx context.Context) ([]*Summary, error) {
	return s.repo.ListStatements(ctx)
}
