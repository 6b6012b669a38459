package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/rentbook/internal/property"
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

const selectPropertyColumns = `id, name, address, created_at`

func scanProperty(s scanner) (*property.Property, error) {
	var p property.Property
	if err := s.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	query := `
		INSERT INTO properties (name, address, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, p.Name, p.Address).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	return nil
}

func (s *Store) FirstProperty(ctx context.Context) (*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties ORDER BY created_at ASC, id ASC LIMIT 1`

	p, err := scanProperty(s.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, property.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting first property: %w", err)
	}

	return p, nil
}

func (s *Store) GetPropertyByName(ctx context.Context, name string) (*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties WHERE name = $1`

	p, err := scanProperty(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, property.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting property by name: %w", err)
	}

	return p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var out []*property.Property

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return out, nil
}
