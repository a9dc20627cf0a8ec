// Package scheduler walks through the day's meetings, starting a countdown
// before each one and idling while one is running.
package scheduler

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/borgmon/meeting-countdown/pkg/dispatch"
	"github.com/borgmon/meeting-countdown/pkg/models"
)

// MaxLead is the exclusive upper bound on a countdown.
const MaxLead = 24 * time.Hour

// StopReason says why Run returned.
type StopReason int

const (
	StopNoMeetings StopReason = iota
	StopLeadOutOfRange
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopNoMeetings:
		return "no meetings left today"
	case StopLeadOutOfRange:
		return "lead time out of range"
	case StopCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Queue is the subset of queue.Queue the scheduler reads.
type Queue interface {
	RelevantFor(now time.Time) []models.Event
}

// Observer is notified of every poll and dispatch.
type Observer interface {
	OnPoll(now time.Time, state State, head *models.Event, remaining int)
	OnDispatch(dispatcher string, event models.Event, seconds int, err error, took time.Duration)
}

// Config holds configuration for the scheduler.
type Config struct {
	PollInterval    time.Duration // Longest single wait before the queue is checked again
	DispatchTimeout time.Duration // Hard limit on one dispatch
}

// DefaultConfig returns default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:    30 * time.Second,
		DispatchTimeout: 30 * time.Second,
	}
}

// Scheduler is a single-threaded loop over a Queue.
type Scheduler struct {
	queue      Queue
	dispatcher dispatch.Dispatcher
	clock      Clock
	config     Config
	observers  []Observer
	logger     *slog.Logger

	dispatched map[string]bool
}

// New creates a Scheduler. The dispatcher is wrapped with the configured timeout.
func New(q Queue, d dispatch.Dispatcher, config Config) *Scheduler {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = defaults.DispatchTimeout
	}

	return &Scheduler{
		queue:      q,
		dispatcher: dispatch.WithTimeout(d, config.DispatchTimeout),
		clock:      SystemClock{},
		config:     config,
		logger:     slog.Default(),
		dispatched: make(map[string]bool),
	}
}

// SetClock replaces the wall clock, for tests.
func (s *Scheduler) SetClock(c Clock) {
	s.clock = c
}

// SetLogger sets a custom logger.
func (s *Scheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// AddObserver registers o for poll and dispatch notifications.
func (s *Scheduler) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Run loops until no meetings remain today, a lead time is out of range, or ctx is done.
// Each iteration waits at most PollInterval and then looks at the queue again.
func (s *Scheduler) Run(ctx context.Context) StopReason {
	s.logger.Info("scheduler started", "poll_interval", s.config.PollInterval)

	for {
		if ctx.Err() != nil {
			return s.stop(StopCancelled)
		}

		now := s.clock.Now()
		relevant := s.queue.RelevantFor(now)
		state, head := Classify(now, relevant)
		for _, o := range s.observers {
			o.OnPoll(now, state, head, len(relevant))
		}

		var deadline time.Time
		switch state {
		case Idle:
			return s.stop(StopNoMeetings)

		case Overrun:
			// Only a queue that keeps ended events gets here. Wait a full
			// poll before looking again.
			s.logger.Debug("meeting overran", "title", head.Title, "ended", head.End.Format("15:04"))
			deadline = now.Add(s.config.PollInterval)

		case InProgress:
			s.logger.Debug("meeting in progress", "title", head.Title, "ends", head.End.Format("15:04"))
			deadline = head.End

		case Waiting:
			lead := leadSeconds(head.Start.Sub(now))
			if lead <= 0 || time.Duration(lead)*time.Second >= MaxLead {
				s.logger.Warn("lead time out of range", "title", head.Title, "start", head.Start, "seconds", lead)
				return s.stop(StopLeadOutOfRange)
			}
			if !s.dispatched[head.ID] {
				s.dispatched[head.ID] = true
				s.dispatch(ctx, *head, lead)
			}
			deadline = head.Start
		}

		step := min(s.config.PollInterval, deadline.Sub(s.clock.Now()))
		if step > 0 {
			if err := s.clock.Sleep(ctx, step); err != nil {
				return s.stop(StopCancelled)
			}
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, event models.Event, seconds int) {
	s.logger.Info("next meeting",
		"title", event.Title,
		"start", event.Start.Format("15:04"),
		"lead", dispatch.FormatLead(seconds))

	started := time.Now()
	err := s.dispatcher.Dispatch(ctx, seconds, event.Title)
	took := time.Since(started)
	if err != nil {
		s.logger.Error("countdown dispatch failed", "title", event.Title, "dispatcher", s.dispatcher.Name(), "error", err)
	}
	for _, o := range s.observers {
		o.OnDispatch(s.dispatcher.Name(), event, seconds, err, took)
	}
}

func (s *Scheduler) stop(reason StopReason) StopReason {
	s.logger.Info("scheduler stopped", "reason", reason.String())
	return reason
}

// leadSeconds rounds up so that a meeting a fraction of a second away still gets a countdown.
func leadSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
