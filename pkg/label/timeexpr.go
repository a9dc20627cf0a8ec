package label

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

var (
	spaceBeforeMeridiem = regexp.MustCompile(`\s+(am|pm)$`)

	// Order matters: the 24-hour grammar would otherwise accept the digits of a 12-hour token.
	time12WithMinutes = regexp.MustCompile(`^(\d{1,2}):(\d{2})(am|pm)$`)
	time12HourOnly    = regexp.MustCompile(`^(\d{1,2})(am|pm)$`)
	time24            = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseTime converts a single time token such as "2:30pm", "10 am" or "14:30"
// into a TimeOfDay. No guessing is done for tokens outside the accepted grammars.
func ParseTime(text string) (models.TimeOfDay, error) {
	token := strings.ToLower(strings.TrimSpace(text))
	token = spaceBeforeMeridiem.ReplaceAllString(token, "$1")

	if m := time12WithMinutes.FindStringSubmatch(token); m != nil {
		return twelveHour(text, m[1], m[2], m[3])
	}
	if m := time12HourOnly.FindStringSubmatch(token); m != nil {
		return twelveHour(text, m[1], "00", m[2])
	}
	if m := time24.FindStringSubmatch(token); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return models.TimeOfDay{}, &ParseError{Input: text, Err: ErrUnrecognizedTimeFormat}
		}
		return models.TimeOfDay{Hour: hour, Minute: minute}, nil
	}

	return models.TimeOfDay{}, &ParseError{Input: text, Err: ErrUnrecognizedTimeFormat}
}

func twelveHour(input, h, m, meridiem string) (models.TimeOfDay, error) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour < 1 || hour > 12 || minute > 59 {
		return models.TimeOfDay{}, &ParseError{Input: input, Err: ErrUnrecognizedTimeFormat}
	}

	// 12am is midnight, 12pm is noon
	hour %= 12
	if meridiem == "pm" {
		hour += 12
	}
	return models.TimeOfDay{Hour: hour, Minute: minute}, nil
}

// hasMeridiem reports whether a token carries its own am/pm marker.
func hasMeridiem(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	return strings.HasSuffix(t, "am") || strings.HasSuffix(t, "pm")
}
