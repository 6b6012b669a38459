// Package docstore defines how statement PDFs are discovered and downloaded.
package docstore

import (
	"context"
	"time"
)

// Document describes one file in a document store. Either link may be empty.
type Document struct {
	ID            string
	Name          string
	CreatedTime   *time.Time
	ModifiedTime  *time.Time
	PrimaryLink   string
	AlternateLink string
}

// Reference is the stable identity used to deduplicate imports: the primary
// link, else the alternate link, else empty.
func (d Document) Reference() string {
	if d.PrimaryLink != "" {
		return d.PrimaryLink
	}

	return d.AlternateLink
}

// Date is the date a statement built from d should carry.
func (d Document) Date(now time.Time) time.Time {
	switch {
	case d.ModifiedTime != nil:
		return *d.ModifiedTime
	case d.CreatedTime != nil:
		return *d.CreatedTime
	}

	return now
}

//go:generate mockgen -source=docstore.go -destination=store_mock.go -package=docstore

// Store lists PDFs in a folder, newest first, and fetches their contents.
type Store interface {
	List(ctx context.Context, folderRef string) ([]Document, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

type unavailable struct {
	err error
}

// Unavailable is a Store that fails every call with err. It stands in when
// the document store is not configured.
func Unavailable(err error) Store {
	return unavailable{err: err}
}

func (u unavailable) List(context.Context, string) ([]Document, error) {
	return nil, u.err
}

func (u unavailable) Fetch(context.Context, string) ([]byte, error) {
	return nil, u.err
}
