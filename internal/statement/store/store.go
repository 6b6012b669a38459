package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, date, external_reference, file_name, raw_text, property_id, created_at
const selectStatementColumns = `
	s.id, s.date, s.external_reference, s.file_name, s.raw_text, s.property_id, s.created_at
`

func scanStatement(s scanner, extra ...any) (*statement.Statement, error) {
	var (
		st      statement.Statement
		rawText sql.NullString
	)

	dest := append([]any{
		&st.ID, &st.Date, &st.ExternalReference, &st.FileName, &rawText, &st.PropertyID, &st.CreatedAt,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	if rawText.Valid {
		st.RawText = &rawText.String
	}

	return &st, nil
}

func (s *Store) CreateStatement(ctx context.Context, st *statement.Statement) error {
	query := `
		INSERT INTO statements (date, external_reference, file_name, property_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (external_reference) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		st.Date,
		st.ExternalReference,
		st.FileName,
		st.PropertyID,
	).Scan(&st.ID, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return statement.ErrDuplicate
	}

	if err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}

	return nil
}

func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + ` FROM statements s WHERE s.id = $1`

	st, err := scanStatement(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, statement.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting statement: %w", err)
	}

	return st, nil
}

func (s *Store) ListReferences(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT external_reference FROM statements`)
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer rows.Close()

	var refs []string

	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}

		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	return refs, nil
}

func (s *Store) UpdateRawText(ctx context.Context, id uuid.UUID, text string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE statements SET raw_text = $1 WHERE id = $2`, text, id)
	if err != nil {
		return fmt.Errorf("updating raw text: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating raw text: %w", err)
	}

	if n == 0 {
		return statement.ErrNotFound
	}

	return nil
}

func (s *Store) ListStatements(ctx context.Context) ([]*statement.Summary, error) {
	query := `SELECT ` + selectStatementColumns + `,
			COALESCE(p.name, '') AS property_name,
			(SELECT COUNT(*) FROM transactions t WHERE t.statement_id = s.id) AS transaction_count
		FROM statements s
		LEFT JOIN properties p ON p.id = s.property_id
		ORDER BY s.date DESC, s.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing statements: %w", err)
	}
	defer rows.Close()

	var out []*statement.Summary

	for rows.Next() {
		var sum statement.Summary

		st, err := scanStatement(rows, &sum.PropertyName, &sum.TransactionCount)
		if err != nil {
			return nil, fmt.Errorf("scanning statement: %w", err)
		}

		sum.Statement = *st
		out = append(out, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statements: %w", err)
	}

	return out, nil
}
