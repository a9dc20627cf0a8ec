package label

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// Normalize resolves the tokens of an interpreted label against ref and builds an Event.
// The event date is the label's explicit date when present, otherwise ref's date,
// always in ref's location.
func Normalize(in Interpreted, ref time.Time) (models.Event, error) {
	return NormalizeWith(in, ref, Options{})
}

// NormalizeWith is Normalize with opts applied to the start token.
func NormalizeWith(in Interpreted, ref time.Time, opts Options) (models.Event, error) {
	end, err := ParseTime(in.EndToken)
	if err != nil {
		return models.Event{}, err
	}
	var start models.TimeOfDay
	if opts.InheritMeridiem {
		start, err = inheritMeridiem(in.StartToken, in.EndToken, end)
	} else {
		start, err = ParseTime(in.StartToken)
	}
	if err != nil {
		return models.Event{}, err
	}

	date := ref
	if in.ExplicitDate != nil {
		d := *in.ExplicitDate
		date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ref.Location())
	}

	startAt := start.On(date)
	endAt := end.On(date)
	if !endAt.After(startAt) {
		return models.Event{}, &ParseError{
			Input: in.StartToken + " - " + in.EndToken,
			Err:   ErrNonPositiveDuration,
		}
	}

	event := models.Event{
		ID:     uuid.NewString(),
		Title:  in.Title,
		Start:  startAt,
		End:    endAt,
		Source: "labels",
	}
	event.DurationMinutes = int(event.Duration() / time.Minute)
	return event, nil
}

// inheritMeridiem parses the start token. A bare start such as the "1:00" in
// "1:00 – 2:30pm" borrows the end's meridiem when that keeps start before end;
// otherwise it is read as a 24-hour time, so "10:00 – 11:30am" stays at 10:00.
func inheritMeridiem(startToken, endToken string, end models.TimeOfDay) (models.TimeOfDay, error) {
	if !hasMeridiem(startToken) && hasMeridiem(endToken) {
		meridiem := strings.ToLower(strings.TrimSpace(endToken))
		meridiem = meridiem[len(meridiem)-2:]
		if t, err := ParseTime(startToken + meridiem); err == nil && t.Minutes() < end.Minutes() {
			return t, nil
		}
	}
	return ParseTime(startToken)
}
