package models

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// On combines the time of day with the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Event represents one meeting recovered from a label or a calendar feed.
// Events are built once and never mutated.
type Event struct {
	ID              string    // Unique identifier (UUID or iCal UID)
	Title           string    // Meeting title
	Start           time.Time // Meeting start
	End             time.Time // Meeting end, always after Start
	DurationMinutes int       // Whole minutes between Start and End
	Source          string    // Where the event came from ("labels" or an iCal source ID)
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// InProgress reports whether now falls inside [Start, End).
func (e Event) InProgress(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

// SameDay reports whether a and b share a calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
