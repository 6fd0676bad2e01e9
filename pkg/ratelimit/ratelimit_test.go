package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_NoBlockWhenZeroInterval(t *testing.T) {
	p := New(0, 0.5)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Errorf("pacer with zero interval should not block")
	}
}

func TestPacer_Wait(t *testing.T) {
	p := New(50*time.Millisecond, 0)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := time.Since(start)

	if d < 40*time.Millisecond || d > 150*time.Millisecond {
		t.Errorf("expected wait around 50ms, took %v", d)
	}
}

func TestPacer_Jitter(t *testing.T) {
	p := New(50*time.Millisecond, 0.5)

	start := time.Now()
	_ = p.Wait(context.Background())
	d := time.Since(start)

	// Interval 50ms, jitter ±25ms; allow slack for scheduling.
	if d < 15*time.Millisecond || d > 200*time.Millisecond {
		t.Errorf("expected jittered wait roughly between 25ms and 75ms, took %v", d)
	}
}

func TestPacer_ContextCancellation(t *testing.T) {
	p := New(time.Minute, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); err == nil {
		t.Fatalf("expected context canceled error")
	}
}
