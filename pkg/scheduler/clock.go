package scheduler

import (
	"context"
	"time"
)

// Clock is the scheduler's view of time.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock uses the host's local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// waitUntil sleeps in increments of at most step until deadline, checking ctx each time.
func waitUntil(ctx context.Context, clock Clock, deadline time.Time, step time.Duration) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := deadline.Sub(clock.Now())
		if remaining <= 0 {
			return nil
		}
		if err := clock.Sleep(ctx, min(step, remaining)); err != nil {
			return err
		}
	}
}
