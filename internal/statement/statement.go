package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("statement not found")
	// ErrDuplicate is returned when a statement with the same external
	// reference already exists.
	ErrDuplicate = errors.New("statement already exists")
)

// Statement is one imported document. ExternalReference is the link it was
// discovered by and is unique across all statements.
type Statement struct {
	ID                uuid.UUID
	Date              time.Time
	ExternalReference string
	FileName          string
	RawText           *string
	PropertyID        uuid.UUID
	CreatedAt         time.Time
}

// Summary is a statement with the figures needed to list it.
type Summary struct {
	Statement
	PropertyName     string
	TransactionCount int
}

// NeedsAnalysis reports whether the statement has text but no transactions,
// which is the state left behind by a failed extraction.
func (s *Summary) NeedsAnalysis() bool {
	return s.RawText != nil && *s.RawText != "" && s.TransactionCount == 0
}
