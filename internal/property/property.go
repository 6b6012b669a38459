package property

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("property not found")

// Property is a rental unit that statements are filed against.
type Property struct {
	ID        uuid.UUID
	Name      string
	Address   string
	CreatedAt time.Time
}
