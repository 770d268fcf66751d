// Package resilience provides a budgeted retry loop with pluggable backoff.
//
// A budget is an attempt count plus an optional elapsed-time bound; waits are
// clamped so the loop never sleeps past the time bound.
//
//	_, err := resilience.Retry(ctx, resilience.RetryConfig{
//	    MaxAttempts: 5,
//	    MaxElapsed:  10 * time.Second,
//	    Backoff:     resilience.Fibonacci(500 * time.Millisecond),
//	}, probe)
//	if errors.Is(err, resilience.ErrMaxRetriesExceeded) {
//	    // budget spent
//	}
package resilience
