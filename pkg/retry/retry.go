// Package retry models bounded retry-with-delay as an explicit policy rather
// than ad-hoc sleep loops. The decision of whether to retry is a pure
// function over the attempt count; waiting is a separate, context-aware step.
package retry

import (
	"context"
	"time"
)

// Policy describes a bounded retry schedule with a fixed inter-attempt delay.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 behave as 1.
	MaxAttempts int
	// Delay is the pause between consecutive attempts.
	Delay time.Duration
}

// Next reports whether another attempt should be made after the given
// 1-based attempt failed, and the delay to wait before it.
func (p Policy) Next(attempt int) (time.Duration, bool) {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}
	if attempt >= max {
		return 0, false
	}
	return p.Delay, true
}

// Do runs fn up to p.MaxAttempts times, sleeping p.Delay between failed
// attempts. It returns nil on the first success, the last error on
// exhaustion, and the context error if ctx is canceled while waiting.
func Do(ctx context.Context, p Policy, fn func() error) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		delay, again := p.Next(attempt)
		if !again {
			return lastErr
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
