package calendar

import (
	"time"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

func (f *Fetcher) shouldIncludeEvent(event parsedEvent, now time.Time, stats *filterStats) bool {
	reject := func(reason string, counter *int) bool {
		*counter++
		f.logger.Debug("event filtered", "reason", reason, "title", event.Title,
			"start", event.Start.Format("2006-01-02 15:04"), "end", event.End.Format("2006-01-02 15:04"))
		return false
	}

	switch {
	case event.Start.IsZero() || event.End.IsZero():
		return reject("missing time", &stats.filteredMissingTime)
	case event.Status == "CANCELLED":
		return reject("cancelled", &stats.filteredCancelled)
	case event.AllDay || isAllDaySpan(event.Event):
		return reject("all day", &stats.filteredAllDay)
	case !event.End.After(event.Start):
		return reject("non-positive duration", &stats.filteredNonPositive)
	case !models.SameDay(now, event.Start) || !models.SameDay(now, event.End.Add(-time.Nanosecond)):
		return reject("not today", &stats.filteredNotToday)
	}

	f.logger.Debug("event included", "title", event.Title,
		"start", event.Start.Format("2006-01-02 15:04"), "end", event.End.Format("15:04"))
	return true
}

// isAllDaySpan catches all-day events published with timed values.
func isAllDaySpan(event models.Event) bool {
	return !models.SameDay(event.Start, event.End) && event.End.Sub(event.Start) >= 24*time.Hour
}
