package scheduler

import (
	"time"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// State is derived from the clock and the queue on every poll and never stored.
type State int

const (
	Idle       State = iota // no meetings left today
	Waiting                 // head starts later
	InProgress              // head has started and not ended
	Overrun                 // head has ended and drops out on the next poll
)

// States lists every state, in declaration order.
var States = []State{Idle, Waiting, InProgress, Overrun}

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case InProgress:
		return "in_progress"
	case Overrun:
		return "overrun"
	}
	return "unknown"
}

// Classify returns the state for now given the relevant events in start order.
func Classify(now time.Time, relevant []models.Event) (State, *models.Event) {
	if len(relevant) == 0 {
		return Idle, nil
	}
	head := relevant[0]
	switch {
	case head.Start.After(now):
		return Waiting, &head
	case head.InProgress(now):
		return InProgress, &head
	default:
		return Overrun, &head
	}
}
