package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
)

var fast = resilience.Policy{Timeout: time.Second, Retries: 1, InitialInterval: time.Millisecond}

func TestCall_RetriesTransientOnce(t *testing.T) {
	calls := 0

	got, err := resilience.Call(context.Background(), fast, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", resilience.Transient(errors.New("503 service unavailable"))
		}

		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestCall_GivesUpAfterRetryBudget(t *testing.T) {
	calls := 0

	_, err := resilience.Call(context.Background(), fast, func(context.Context) (int, error) {
		calls++
		return 0, resilience.Transient(errors.New("429 too many requests"))
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "429")
}

func TestCall_ValidationIsNotRetried(t *testing.T) {
	calls := 0

	_, err := resilience.Call(context.Background(), fast, func(context.Context) (int, error) {
		calls++
		return 0, apperr.Validation("transactions is not an array")
	})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 1, calls)
}

func TestCall_AttemptTimeout(t *testing.T) {
	p := resilience.Policy{Timeout: 10 * time.Millisecond, InitialInterval: time.Millisecond}

	_, err := resilience.Call(context.Background(), p, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCall_ParentCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := resilience.Call(ctx, fast, func(context.Context) (int, error) {
		calls++
		cancel()

		return 0, resilience.Transient(errors.New("connection reset"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransientStatus(t *testing.T) {
	assert.True(t, resilience.IsTransientStatus(429))
	assert.True(t, resilience.IsTransientStatus(503))
	assert.False(t, resilience.IsTransientStatus(400))
	assert.False(t, resilience.IsTransientStatus(404))
}
