// Package resilience bounds calls to external services with a per-attempt
// timeout and a small number of retries for transient failures.
package resilience

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	// Timeout bounds a single attempt. Zero means no per-attempt bound.
	Timeout time.Duration
	// Retries is the number of additional attempts after a transient failure.
	Retries uint64
	// InitialInterval is the first backoff delay. Zero uses 500ms.
	InitialInterval time.Duration
}

// TransientError marks a failure that is worth retrying, such as a 5xx or
// 429 answer from a remote API.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func Transient(err error) error {
	if err == nil {
		return nil
	}

	return &TransientError{Err: err}
}

// IsTransientStatus reports whether an HTTP-like status code should be retried.
func IsTransientStatus(code int) bool {
	return code == 429 || code >= 500
}

// IsTransient reports whether err is a retryable failure.
func IsTransient(err error) bool {
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// Call runs fn under p. Every attempt gets its own timeout derived from ctx;
// only transient failures are retried and cancellation of ctx stops at once.
func Call[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	interval := p.InitialInterval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = interval
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.Retries), ctx)

	op := func() (T, error) {
		attemptCtx := ctx

		if p.Timeout > 0 {
			var cancel context.CancelFunc

			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		v, err := fn(attemptCtx)
		if err == nil {
			return v, nil
		}

		if ctx.Err() != nil || !IsTransient(err) {
			return v, backoff.Permanent(err)
		}

		return v, err
	}

	return backoff.RetryWithData(op, b)
}
