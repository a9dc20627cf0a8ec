package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// parsedEvent carries the VEVENT fields the filters need but Event does not keep.
type parsedEvent struct {
	models.Event
	Status string // CONFIRMED, TENTATIVE, CANCELLED
	AllDay bool
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func parseEvent(comp *ical.Component, loc *time.Location) parsedEvent {
	event := parsedEvent{}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.ID = uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Title = strings.TrimSpace(summaryProp.Value)
	}

	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		event.AllDay = isDateOnly(startProp)
		if t, err := parseDateTimeProperty(startProp, loc); err == nil {
			event.Start = t
		}
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp, loc); err == nil {
			event.End = t
		}
	} else if durProp := comp.Props.Get(ical.PropDuration); durProp != nil && !event.Start.IsZero() {
		if d, err := durProp.Duration(); err == nil {
			event.End = event.Start.Add(d)
		}
	}

	if !event.Start.IsZero() && event.End.After(event.Start) {
		event.DurationMinutes = int(event.Duration() / time.Minute)
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		event.Status = strings.ToUpper(statusProp.Value)
	}

	// Polyfill: If status is not CANCELLED but title indicates cancellation, set status to CANCELLED
	if event.Status != "CANCELLED" && isCancelledTitle(event.Title) {
		event.Status = "CANCELLED"
	}

	return event
}

func isDateOnly(prop *ical.Prop) bool {
	return prop.ValueType() == ical.ValueDate || len(strings.TrimSpace(prop.Value)) == 8
}

func parseDateTimeProperty(prop *ical.Prop, loc *time.Location) (time.Time, error) {
	if t, err := prop.DateTime(loc); err == nil {
		return t.In(loc), nil
	}

	// If that fails, try parsing the raw value directly
	value := prop.Value
	formats := []string{
		"20060102T150405",     // Basic format: YYYYMMDDTHHMMSS
		"20060102T150405Z",    // UTC format
		time.RFC3339,          // Standard RFC3339
		"2006-01-02T15:04:05", // ISO 8601 without timezone
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}

func isCancelledTitle(title string) bool {
	cleanTitle := nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(cleanTitle, "canceled") || strings.HasPrefix(cleanTitle, "cancelled")
}
