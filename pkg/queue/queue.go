// Package queue holds the day's meetings and answers "what is next" for a given instant.
package queue

import (
	"sort"
	"strings"
	"time"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// Queue is an immutable set of events in discovery order. Ended events are
// never removed; they simply stop being relevant.
type Queue struct {
	events []models.Event
}

// New creates a Queue over a copy of events.
func New(events []models.Event) *Queue {
	return &Queue{events: append([]models.Event(nil), events...)}
}

// Len returns the number of events held, relevant or not.
func (q *Queue) Len() int {
	return len(q.events)
}

// RelevantFor returns the events that start on now's date and have not ended,
// sorted by start. Ties keep discovery order.
func (q *Queue) RelevantFor(now time.Time) []models.Event {
	relevant := []models.Event{}
	for _, e := range q.events {
		if e.End.After(now) && models.SameDay(now, e.Start) {
			relevant = append(relevant, e)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})
	return relevant
}

// Dedupe drops events that repeat an earlier event's title, start and end,
// keeping the first. Titles are compared case-insensitively. It returns the
// kept events in their original order and the number dropped.
func Dedupe(events []models.Event) ([]models.Event, int) {
	kept := make([]models.Event, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		key := strings.ToLower(strings.TrimSpace(e.Title)) + "|" + e.Start.UTC().Format(time.RFC3339) + "|" + e.End.UTC().Format(time.RFC3339)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, e)
	}
	return kept, len(events) - len(kept)
}
