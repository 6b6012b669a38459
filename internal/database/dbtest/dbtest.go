//go:build integration

// Package dbtest starts a throwaway Postgres for store integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/MrJamesThe3rd/rentbook/internal/database"
)

// New returns a migrated database that is torn down with the test.
func New(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("rentbook"),
		postgres.WithUsername("rentbook"),
		postgres.WithPassword("rentbook"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	_, err = database.Migrate(connStr, database.Up)
	require.NoError(t, err)

	db, err := database.New(ctx, connStr, database.Pool{MaxOpen: 4})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}
