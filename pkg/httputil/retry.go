// Package httputil provides the HTTP plumbing shared by upload clients:
// retry with exponential backoff for transient failures (network errors,
// 5xx responses, rate limiting).
package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryableError marks an error as transient so [Retry] attempts the
// operation again. Wrap network timeouts and server-side failures; leave
// client errors unwrapped so they surface immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RetryableStatus reports whether an HTTP status code indicates a
// transient condition worth retrying.
func RetryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// Retry executes fn up to attempts times with exponential backoff. Only
// errors wrapped with [RetryableError] trigger another attempt; other
// errors return immediately. The delay doubles after each failure. Returns
// the last error if all attempts fail, or ctx.Err() if cancelled while
// waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
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

// RetryWithBackoff runs fn with the default policy: 3 attempts starting at
// one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
