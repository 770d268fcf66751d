package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffFunc returns the wait before the next attempt. attempt is the
// 1-based number of the attempt that just failed.
type BackoffFunc func(attempt int) time.Duration

// Fibonacci waits unit * fib(attempt): with unit 500ms the waits are
// 0.5s, 0.5s, 1s, 1.5s, 2.5s, 4s, ...
func Fibonacci(unit time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		a, b := 1, 1
		for i := 1; i < attempt; i++ {
			a, b = b, a+b
			if a > math.MaxInt32 {
				break
			}
		}
		return time.Duration(a) * unit
	}
}

// Constant waits d between every attempt.
func Constant(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// Exponential waits initial * factor^(attempt-1), randomized by +/- jitter
// (0.0 to 1.0) and capped at max.
func Exponential(initial, max time.Duration, factor, jitter float64) BackoffFunc {
	if factor <= 0 {
		factor = 2.0
	}
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := float64(initial) * math.Pow(factor, float64(attempt-1))
		if jitter > 0 {
			d += (rand.Float64()*2 - 1) * d * jitter
		}
		if max > 0 && d > float64(max) {
			d = float64(max)
		}
		if d < 0 {
			d = float64(initial)
		}
		return time.Duration(d)
	}
}
