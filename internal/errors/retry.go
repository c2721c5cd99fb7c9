package errors

import (
	"context"
	"errors"
	"math"
	"time"
)

const (
	MaxRetries        = 3
	InitialBackoff    = 100 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// the attempt budget is spent. Backoff waits respect ctx cancellation.
func WithRetry(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err = fn()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == MaxRetries {
			return err
		}

		timer := time.NewTimer(backoffDuration(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}

// IsRetryable reports whether the error is marked retryable in the taxonomy.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Retryable
	}

	return false
}

func backoffDuration(attempt int) time.Duration {
	delay := float64(InitialBackoff) * math.Pow(BackoffMultiplier, float64(attempt))
	backoff := time.Duration(delay)
	if backoff > MaxBackoff {
		return MaxBackoff
	}

	return backoff
}
