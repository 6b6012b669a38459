package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, date, amount, category, vendor, is_flagged, flag_reason, statement_id, property_name, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx                           transaction.Transaction
		category, vendor, flagReason sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Amount, &category, &vendor, &tx.IsFlagged, &flagReason,
		&tx.StatementID, &tx.PropertyName, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Category = nullable(category)
	tx.Vendor = nullable(vendor)
	tx.FlagReason = nullable(flagReason)

	return &tx, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}

	return &ns.String
}

const selectTransactionColumns = `
	t.id, t.date, t.amount, t.category, t.vendor, t.is_flagged, t.flag_reason,
	t.statement_id, COALESCE(p.name, '') AS property_name, t.created_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN statements s ON s.id = t.statement_id
	LEFT JOIN properties p ON p.id = s.property_id
`

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + ` WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StatementID != nil {
		query += fmt.Sprintf(" AND t.statement_id = $%d", argIdx)

		args = append(args, *filter.StatementID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.FlaggedOnly {
		query += " AND t.is_flagged"
	}

	if filter.Newest {
		query += " ORDER BY t.date DESC, t.created_at DESC"
	} else {
		query += " ORDER BY t.date ASC, t.created_at ASC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) CountByStatement(ctx context.Context, statementID uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE statement_id = $1`, statementID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return n, nil
}

func (s *Store) DeleteByStatement(ctx context.Context, statementID uuid.UUID) (int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", extractionLockKey(statementID)); err != nil {
		return 0, fmt.Errorf("acquiring statement lock: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE statement_id = $1`, statementID)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return n, nil
}

// extractionLockKey derives the advisory lock that serialises writers of
// one statement's transactions.
func extractionLockKey(statementID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("statement-transactions"))
	h.Write([]byte{0})
	h.Write(statementID[:])

	return int64(h.Sum64())
}

type extractionTx struct {
	tx *sql.Tx
}

func (s *Store) BeginExtraction(ctx context.Context, statementID uuid.UUID) (transaction.ExtractionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning extraction tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", extractionLockKey(statementID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring statement lock: %w", err)
	}

	var hasStatement, hasTransactions bool

	err = dbTx.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM statements WHERE id = $1),
			EXISTS (SELECT 1 FROM transactions WHERE statement_id = $1)
	`, statementID).Scan(&hasStatement, &hasTransactions)
	if err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("checking statement: %w", err)
	}

	if !hasStatement {
		dbTx.Rollback()
		return nil, statement.ErrNotFound
	}

	if hasTransactions {
		dbTx.Rollback()
		return nil, transaction.ErrAlreadyExtracted
	}

	return &extractionTx{tx: dbTx}, nil
}

func (etx *extractionTx) Commit() error   { return etx.tx.Commit() }
func (etx *extractionTx) Rollback() error { return etx.tx.Rollback() }

func (etx *extractionTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions (date, amount, category, vendor, is_flagged, flag_reason, statement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	for _, tx := range txs {
		err := etx.tx.QueryRowContext(ctx, query,
			tx.Date,
			tx.Amount,
			tx.Category,
			tx.Vendor,
			tx.IsFlagged,
			tx.FlagReason,
			tx.StatementID,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
