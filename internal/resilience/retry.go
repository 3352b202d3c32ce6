// Package resilience provides retry with exponential backoff for the
// client's one-shot fetches. The live polling loop deliberately does NOT
// retry: a failed cycle is skipped and the next tick tries again, so
// retrying there would only delay the following poll.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/vexalabs/meetwatch/internal/vexa"
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts       int           // Maximum number of attempts
	InitialBackoff    time.Duration // Backoff before the second attempt
	MaxBackoff        time.Duration // Backoff ceiling
	BackoffMultiplier float64       // Exponential growth factor
}

// DefaultRetryConfig returns the defaults used by one-shot commands
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    200 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryableFunc is a function that can be retried
type RetryableFunc func() error

// Retry executes fn until it succeeds, returns a non-retryable error, the
// attempts are exhausted, or the context is canceled
func Retry(ctx context.Context, fn RetryableFunc, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return err
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	return lastErr
}

// IsRetryableError reports whether a transport error is worth retrying:
// network-level failures and server-side (5xx) statuses. Configuration
// errors, client errors, and parse errors never are.
func IsRetryableError(err error) bool {
	var transportErr *vexa.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Status == 0 {
			return true // network-level failure
		}
		return transportErr.Status >= 500
	}
	return false
}
