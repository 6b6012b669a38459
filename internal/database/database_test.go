package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_WithDefaults(t *testing.T) {
	assert.Equal(t, Pool{MaxOpen: 25, MaxIdle: 5, MaxLifetime: 5 * time.Minute}, Pool{}.withDefaults())

	custom := Pool{MaxOpen: 4, MaxIdle: 2, MaxLifetime: time.Minute}
	assert.Equal(t, custom, custom.withDefaults())
}

func TestRedact(t *testing.T) {
	assert.Equal(t,
		"postgres://rent:xxxxx@db:5432/rentbook?sslmode=disable",
		redact("postgres://rent:s3cret@db:5432/rentbook?sslmode=disable"),
	)
	assert.Equal(t, "postgres://db/rentbook", redact("postgres://db/rentbook"))
}
