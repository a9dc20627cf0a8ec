// Package dispatch starts visible countdowns outside the scheduler.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDispatchTimeout is returned when a dispatcher does not finish within its time limit.
	ErrDispatchTimeout = errors.New("dispatch timed out")
	// ErrDispatchFailure is returned when a dispatcher reports failure.
	ErrDispatchFailure = errors.New("dispatch failed")
)

// Dispatcher starts a countdown of seconds for the meeting titled label.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, seconds int, label string) error
}

// Closer is implemented by dispatchers holding resources that outlive a dispatch.
type Closer interface {
	Close() error
}

// Error records which dispatcher failed.
type Error struct {
	Dispatcher string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Dispatcher, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Close closes d if it holds resources.
func Close(d Dispatcher) error {
	if c, ok := d.(Closer); ok {
		return c.Close()
	}
	return nil
}

// FormatLead renders a lead time as "1h 5m 3s", "5m 3s" or "3s".
func FormatLead(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
