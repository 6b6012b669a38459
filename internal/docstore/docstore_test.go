package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
)

func TestDocument_Reference(t *testing.T) {
	assert.Equal(t, "view", docstore.Document{PrimaryLink: "view", AlternateLink: "content"}.Reference())
	assert.Equal(t, "content", docstore.Document{AlternateLink: "content"}.Reference())
	assert.Empty(t, docstore.Document{ID: "x"}.Reference())
}

func TestDocument_Date(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, modified, docstore.Document{CreatedTime: &created, ModifiedTime: &modified}.Date(now))
	assert.Equal(t, created, docstore.Document{CreatedTime: &created}.Date(now))
	assert.Equal(t, now, docstore.Document{}.Date(now))
}

func TestUnavailable(t *testing.T) {
	err := apperr.Configuration("SOURCE_FOLDER_ID is not set")
	s := docstore.Unavailable(err)

	_, listErr := s.List(context.Background(), "folder")
	assert.ErrorIs(t, listErr, apperr.ErrConfiguration)

	_, fetchErr := s.Fetch(context.Background(), "id")
	assert.Equal(t, err, fetchErr)
}
