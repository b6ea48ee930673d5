package pulsetrans

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns the engine default: a single retry with backoff
// before degrading to the local substitute.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 1,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry runs fn, retrying retryable failures with exponential backoff
// until cfg.MaxRetries is exhausted or ctx ends.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= cfg.MaxRetries || !IsRetryable(err) {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(cfg, attempt)):
		}
	}
}

// backoff doubles BaseDelay per attempt, capped at MaxDelay.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay << attempt
	if d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	return d
}

// IsRetryable reports whether err is worth another provider attempt. Only
// provider errors flagged Retryable qualify; input errors, count mismatches,
// and context cancellation fail immediately.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.Retryable
}
