package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
)

var testPolicy = resilience.Policy{Timeout: 5 * time.Second, Retries: 1, InitialInterval: time.Millisecond}

func newTestStore(t *testing.T, h http.Handler) *Store {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	s, err := New(context.Background(), testPolicy,
		option.WithEndpoint(ts.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	return s
}

func TestStore_List_Paginates(t *testing.T) {
	var queries []string

	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/files"))
		queries = append(queries, r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"nextPageToken":"p2","files":[{"id":"f1","name":"march.pdf",` +
				`"modifiedTime":"2024-03-05T10:00:00Z","webViewLink":"https://drive.example/f1/view"}]}`))

			return
		}

		_, _ = w.Write([]byte(`{"files":[{"id":"f2","name":"feb.pdf","createdTime":"2024-02-01T00:00:00Z",` +
			`"webContentLink":"https://drive.example/f2/download"}]}`))
	}))

	docs, err := s.List(context.Background(), "folder'1")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "f1", docs[0].ID)
	assert.Equal(t, "https://drive.example/f1/view", docs[0].Reference())
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), docs[0].ModifiedTime.UTC())
	assert.Nil(t, docs[0].CreatedTime)

	assert.Equal(t, "https://drive.example/f2/download", docs[1].Reference())
	assert.Nil(t, docs[1].ModifiedTime)

	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], `'folder\'1' in parents`)
	assert.Contains(t, queries[0], "mimeType = 'application/pdf'")
}

func TestStore_List_EmptyFolderRef(t *testing.T) {
	s := newTestStore(t, http.NotFoundHandler())

	_, err := s.List(context.Background(), " ")
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestStore_Fetch(t *testing.T) {
	var calls atomic.Int32

	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/files/f1"))
		assert.Equal(t, "media", r.URL.Query().Get("alt"))

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = w.Write([]byte("%PDF-1.4 body"))
	}))

	b, err := s.Fetch(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(b))
	assert.Equal(t, int32(2), calls.Load())
}

func TestStore_Fetch_NotFoundIsExternal(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrExternalService)
}
