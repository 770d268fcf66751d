package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxRetriesExceeded is wrapped around the last error when the attempt or
// time budget runs out.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// MaxElapsed bounds the total time spent; zero means no time budget.
	// No wait extends past it.
	MaxElapsed time.Duration
	// Backoff computes the wait after a failed attempt.
	Backoff BackoffFunc
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     Exponential(100*time.Millisecond, 10*time.Second, 2.0, 0.1),
		RetryIf:     DefaultRetryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry calls fn until it succeeds, RetryIf rejects its error, or the budget
// is spent. Exhaustion returns an error matching both ErrMaxRetriesExceeded
// and the last error from fn. Cancellation of ctx returns ctx.Err().
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff == nil {
		cfg.Backoff = Exponential(100*time.Millisecond, 10*time.Second, 2.0, 0)
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}

	start := time.Now()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cfg.RetryIf(err) {
			return zero, err
		}

		if attempt >= cfg.MaxAttempts {
			return zero, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
		}

		wait := cfg.Backoff(attempt)
		if cfg.MaxElapsed > 0 {
			remaining := cfg.MaxElapsed - time.Since(start)
			if remaining <= 0 {
				return zero, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
			}
			if wait > remaining {
				wait = remaining
			}
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
