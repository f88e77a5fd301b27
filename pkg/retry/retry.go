// Package retry re-runs operations that fail with transient errors.
//
// Only errors wrapped with [Transient] are retried; anything else is returned
// on the first attempt. The delay doubles after each failure.
package retry

import (
	"context"
	"errors"
	"time"
)

// TransientError marks an error as worth another attempt.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so that [Do] retries it. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err, or anything it wraps, is a [TransientError].
func IsTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}

// Do executes fn up to attempts times with exponential backoff starting at
// delay. It returns the last error if every attempt fails, or ctx.Err() if
// the context is cancelled while waiting.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// WithBackoff calls [Do] with 3 attempts and a 500ms initial delay.
func WithBackoff(ctx context.Context, fn func() error) error {
	return Do(ctx, 3, 500*time.Millisecond, fn)
}
