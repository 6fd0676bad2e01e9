// Package ratelimit paces outbound requests with a fixed delay plus optional
// jitter, so batch processing does not trip upstream rate limits.
package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// Pacer spaces operations by a fixed interval with an optional random jitter
// fraction. It is safe for concurrent use by multiple goroutines.
type Pacer struct {
	interval time.Duration
	jitter   float64 // 0.0 to 1.0
}

// New creates a pacer that waits interval ± (jitter * interval) per call.
// If interval is <= 0 the pacer does not block. Jitter is clamped to [0, 1].
func New(interval time.Duration, jitter float64) *Pacer {
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}
	return &Pacer{interval: interval, jitter: jitter}
}

// Wait blocks for one pacing interval or until the context is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	d := p.interval
	if p.jitter > 0 {
		// Random factor in [-jitter, +jitter].
		f := (rand.Float64()*2 - 1) * p.jitter
		d += time.Duration(float64(p.interval) * f)
		if d < 0 {
			d = 0
		}
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval returns the base pacing interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
