package util

import (
	"context"
	"fmt"
	"time"
)

// Retryable reports whether an error is transient and worth another attempt.
type Retryable func(error) bool

// MaxAttemptsError reports that a retried operation never succeeded.
type MaxAttemptsError struct {
	Attempts int
	Last     error
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("max attempts (%d) reached: %v", e.Attempts, e.Last)
}

func (e *MaxAttemptsError) Unwrap() error { return e.Last }

// Retry invokes fn up to attempts times, sleeping backoff between attempts.
// A nil error stops immediately; an error rejected by retryable is returned
// as-is so callers can still branch on its kind.
func Retry(ctx context.Context, attempts int, backoff time.Duration, retryable Retryable, fn func() error) error {
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		last = err
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return &MaxAttemptsError{Attempts: attempts, Last: last}
}
