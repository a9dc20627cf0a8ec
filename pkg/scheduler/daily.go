package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Daily runs a job on a cron schedule, for example "0 8 * * 1-5".
type Daily struct {
	schedule cron.Schedule
	spec     string
	clock    Clock
	step     time.Duration
	logger   *slog.Logger
}

// NewDaily parses a standard five-field cron spec.
func NewDaily(spec string, step time.Duration) (*Daily, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if step <= 0 {
		step = DefaultConfig().PollInterval
	}
	return &Daily{
		schedule: schedule,
		spec:     spec,
		clock:    SystemClock{},
		step:     step,
		logger:   slog.Default(),
	}, nil
}

// SetClock replaces the wall clock, for tests.
func (d *Daily) SetClock(c Clock) {
	d.clock = c
}

// SetLogger sets a custom logger.
func (d *Daily) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Next returns the next fire time after t.
func (d *Daily) Next(t time.Time) time.Time {
	return d.schedule.Next(t)
}

// Run waits for each fire time and runs job, until ctx is done.
// A failing job is logged and the next fire time is awaited.
func (d *Daily) Run(ctx context.Context, job func(context.Context) error) error {
	for {
		next := d.schedule.Next(d.clock.Now())
		d.logger.Info("waiting for next run", "schedule", d.spec, "at", next.Format(time.RFC3339))

		if err := waitUntil(ctx, d.clock, next, d.step); err != nil {
			return err
		}
		if err := job(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Error("scheduled run failed", "error", err)
		}
	}
}
