// Package drive lists and downloads statement PDFs from a Google Drive folder.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
)

const (
	pdfMimeType = "application/pdf"
	listFields  = "nextPageToken, files(id, name, createdTime, modifiedTime, webViewLink, webContentLink)"
	pageSize    = 100
)

type Store struct {
	files  *drive.FilesService
	policy resilience.Policy
}

var _ docstore.Store = (*Store)(nil)

// New connects to Drive with read-only scope. Callers pass credentials as
// client options, e.g. option.WithCredentialsJSON.
func New(ctx context.Context, policy resilience.Policy, opts ...option.ClientOption) (*Store, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}, opts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.Configuration("creating drive client: %v", err)
	}

	return &Store{files: svc.Files, policy: policy}, nil
}

func (s *Store) List(ctx context.Context, folderRef string) ([]docstore.Document, error) {
	if strings.TrimSpace(folderRef) == "" {
		return nil, apperr.Configuration("drive folder id is empty")
	}

	q := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", escapeQuery(folderRef), pdfMimeType)

	var (
		docs      []docstore.Document
		pageToken string
	)

	for {
		page, err := resilience.Call(ctx, s.policy, func(ctx context.Context) (*drive.FileList, error) {
			call := s.files.List().
				Q(q).
				Fields(listFields).
				OrderBy("modifiedTime desc").
				PageSize(pageSize).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			fl, err := call.Do()

			return fl, classify(err)
		})
		if err != nil {
			return nil, apperr.External("listing drive folder", err)
		}

		for _, f := range page.Files {
			docs = append(docs, documentFromFile(f))
		}

		if page.NextPageToken == "" {
			return docs, nil
		}

		pageToken = page.NextPageToken
	}
}

func (s *Store) Fetch(ctx context.Context, id string) ([]byte, error) {
	b, err := resilience.Call(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		resp, err := s.files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return nil, classify(err)
		}
		defer resp.Body.Close()

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, apperr.External("downloading "+id, err)
	}

	return b, nil
}

func documentFromFile(f *drive.File) docstore.Document {
	return docstore.Document{
		ID:            f.Id,
		Name:          f.Name,
		CreatedTime:   parseTime(f.CreatedTime),
		ModifiedTime:  parseTime(f.ModifiedTime),
		PrimaryLink:   f.WebViewLink,
		AlternateLink: f.WebContentLink,
	}
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}

	return &t
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && resilience.IsTransientStatus(gerr.Code) {
		return resilience.Transient(err)
	}

	return err
}
