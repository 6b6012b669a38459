//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentbook/internal/database/dbtest"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	"github.com/MrJamesThe3rd/rentbook/internal/property/store"
)

func TestStore_Properties(t *testing.T) {
	ctx := context.Background()
	s := store.New(dbtest.New(t))

	_, err := s.FirstProperty(ctx)
	assert.ErrorIs(t, err, property.ErrNotFound)

	first := &property.Property{Name: "Sunset Apartments", Address: "123 Sunset Blvd"}
	require.NoError(t, s.CreateProperty(ctx, first))
	require.NoError(t, s.CreateProperty(ctx, &property.Property{Name: "Ocean View Condos"}))

	got, err := s.FirstProperty(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	byName, err := s.GetPropertyByName(ctx, "Ocean View Condos")
	require.NoError(t, err)
	assert.Equal(t, "Ocean View Condos", byName.Name)

	all, err := s.ListProperties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Error(t, s.CreateProperty(ctx, &property.Property{Name: "Sunset Apartments"}))
}
