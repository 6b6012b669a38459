// Package gcs lists and downloads statement PDFs from a Cloud Storage bucket.
// A folder reference is "bucket" or "bucket/prefix".
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
)

type Store struct {
	client *storage.Client
	policy resilience.Policy
}

var _ docstore.Store = (*Store)(nil)

func New(ctx context.Context, policy resilience.Policy, opts ...option.ClientOption) (*Store, error) {
	opts = append([]option.ClientOption{option.WithScopes(storage.ScopeReadOnly)}, opts...)

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, apperr.Configuration("creating storage client: %v", err)
	}

	return &Store{client: client, policy: policy}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) List(ctx context.Context, folderRef string) ([]docstore.Document, error) {
	bucket, prefix, err := splitRef(folderRef)
	if err != nil {
		return nil, err
	}

	attrs, err := resilience.Call(ctx, s.policy, func(ctx context.Context) ([]*storage.ObjectAttrs, error) {
		it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})

		var out []*storage.ObjectAttrs

		for {
			a, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return out, nil
			}

			if err != nil {
				return nil, classify(err)
			}

			out = append(out, a)
		}
	})
	if err != nil {
		return nil, apperr.External("listing bucket "+bucket, err)
	}

	return documentsFromAttrs(attrs), nil
}

// Fetch reads an object by the ID List assigned to it: "bucket/object".
func (s *Store) Fetch(ctx context.Context, id string) ([]byte, error) {
	bucket, object, err := splitRef(id)
	if err != nil {
		return nil, err
	}

	if object == "" {
		return nil, apperr.Validation("object id %q has no object name", id)
	}

	b, err := resilience.Call(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, classify(err)
		}
		defer r.Close()

		return io.ReadAll(r)
	})
	if err != nil {
		return nil, apperr.External("reading gs://"+id, err)
	}

	return b, nil
}

func splitRef(ref string) (string, string, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "gs://")

	bucket, rest, _ := strings.Cut(ref, "/")
	if bucket == "" {
		return "", "", apperr.Configuration("bucket name is empty in %q", ref)
	}

	return bucket, rest, nil
}

// documentsFromAttrs keeps PDFs only and orders them newest first.
func documentsFromAttrs(attrs []*storage.ObjectAttrs) []docstore.Document {
	var docs []docstore.Document

	for _, a := range attrs {
		if !isPDF(a) {
			continue
		}

		docs = append(docs, docstore.Document{
			ID:            a.Bucket + "/" + a.Name,
			Name:          a.Name[strings.LastIndex(a.Name, "/")+1:],
			CreatedTime:   timePtr(a.Created),
			ModifiedTime:  timePtr(a.Updated),
			PrimaryLink:   fmt.Sprintf("gs://%s/%s", a.Bucket, a.Name),
			AlternateLink: a.MediaLink,
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Date(time.Time{}).After(docs[j].Date(time.Time{}))
	})

	return docs
}

func isPDF(a *storage.ObjectAttrs) bool {
	if strings.HasSuffix(a.Name, "/") {
		return false
	}

	return a.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(a.Name), ".pdf")
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && resilience.IsTransientStatus(gerr.Code) {
		return resilience.Transient(err)
	}

	return err
}
