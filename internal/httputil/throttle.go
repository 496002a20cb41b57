// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"
)

// Throttle enforces a fixed minimum delay between consecutive calls to the
// same provider. This is cooperative self-throttling to stay inside
// documented free-tier quotas, not a token bucket: the first call passes
// immediately, every later call waits out the remainder of the delay.
type Throttle struct {
	delay time.Duration
	last  time.Time

	// now is replaceable in tests.
	now func() time.Time

	// sleep is replaceable in tests to avoid real waits.
	sleep func(context.Context, time.Duration) error
}

// NewThrottle returns a Throttle with the given minimum inter-call delay.
// A zero or negative delay disables throttling.
func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{
		delay: delay,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Wait blocks until the minimum delay since the previous Wait has elapsed.
// It returns early with ctx.Err() if the context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	if !t.last.IsZero() {
		if remaining := t.delay - t.now().Sub(t.last); remaining > 0 {
			if err := t.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	t.last = t.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
