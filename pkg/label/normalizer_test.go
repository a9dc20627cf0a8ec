package label

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2025, time.November, 24, 8, 0, 0, 0, time.UTC)

func mustInterpret(t *testing.T, label string) Interpreted {
	t.Helper()
	in, err := NewInterpreter(Options{}).Interpret(label)
	require.NoError(t, err)
	return in
}

func TestNormalizeRangedFirst(t *testing.T) {
	in := mustInterpret(t, "1:30pm to 2:30pm, Block, Jane Doe")

	event, err := Normalize(in, refDate)
	require.NoError(t, err)
	assert.Equal(t, "Block", event.Title)
	assert.Equal(t, time.Date(2025, time.November, 24, 13, 30, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2025, time.November, 24, 14, 30, 0, 0, time.UTC), event.End)
	assert.Equal(t, 60, event.DurationMinutes)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "labels", event.Source)
}

func TestNormalizeDated(t *testing.T) {
	in := mustInterpret(t, "Design Review, Monday, November 24⋅10:00 – 11:30am")

	event, err := Normalize(in, refDate)
	require.NoError(t, err)
	assert.Equal(t, "Design Review", event.Title)
	assert.Equal(t, 10, event.Start.Hour())
	assert.Equal(t, 0, event.Start.Minute())
	assert.Equal(t, 11, event.End.Hour())
	assert.Equal(t, 30, event.End.Minute())
	assert.Equal(t, 90, event.DurationMinutes)
}

func TestNormalizeReadsBareStartAsTyped(t *testing.T) {
	tests := []struct {
		label       string
		startHour   int
		startMinute int
		endHour     int
	}{
		{"Sync, Tuesday, November 25⋅1:00 – 2:30pm", 1, 0, 14},
		{"Sync, Tuesday, November 25⋅9:00 – 10pm", 9, 0, 22},
		{"Sync, Tuesday, November 25⋅10:00 – 11:30pm", 10, 0, 23},
		{"Sync, Tuesday, November 25⋅10:00 – 11:30am", 10, 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			in := mustInterpret(t, tt.label)
			start, err := ParseTime(in.StartToken)
			require.NoError(t, err)

			event, err := Normalize(in, refDate)
			require.NoError(t, err)
			assert.Equal(t, start.Hour, event.Start.Hour())
			assert.Equal(t, tt.startHour, event.Start.Hour())
			assert.Equal(t, tt.startMinute, event.Start.Minute())
			assert.Equal(t, tt.endHour, event.End.Hour())
		})
	}

	// A bare hour is not a time on its own.
	_, err := Normalize(mustInterpret(t, "Sync, Tuesday, November 25⋅1 – 2pm"), refDate)
	assert.ErrorIs(t, err, ErrUnrecognizedTimeFormat)
}

func TestNormalizeInheritsEndMeridiem(t *testing.T) {
	opts := Options{InheritMeridiem: true}
	tests := []struct {
		label     string
		startHour int
		endHour   int
	}{
		{"Sync, Tuesday, November 25⋅1:00 – 2:30pm", 13, 14},
		{"Sync, Tuesday, November 25⋅1 – 2pm", 13, 14},
		{"Sync, Tuesday, November 25⋅10:00 – 11:30am", 10, 11},
		{"Sync, Tuesday, November 25⋅11:00 – 1pm", 11, 13},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			in := mustInterpret(t, tt.label)
			event, err := NormalizeWith(in, refDate, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.startHour, event.Start.Hour())
			assert.Equal(t, tt.endHour, event.End.Hour())
		})
	}
}

func TestNormalizeExplicitDateOverridesReference(t *testing.T) {
	in := mustInterpret(t, "1pm to 2pm, Retro, Jane Doe, November 26, 2025")

	event, err := Normalize(in, refDate)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.November, 26, 13, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.UTC, event.Start.Location())
}

func TestNormalizeRejectsNonPositiveDuration(t *testing.T) {
	for _, label := range []string{
		"3pm to 2pm, Backwards",
		"2pm to 2pm, Empty",
		"11pm to 1am, Overnight",
	} {
		t.Run(label, func(t *testing.T) {
			in := mustInterpret(t, label)
			_, err := Normalize(in, refDate)
			assert.ErrorIs(t, err, ErrNonPositiveDuration)
		})
	}
}

func TestNormalizePropagatesTimeErrors(t *testing.T) {
	in := Interpreted{Title: "Broken", StartToken: "13pm", EndToken: "2pm"}
	_, err := Normalize(in, refDate)
	assert.ErrorIs(t, err, ErrUnrecognizedTimeFormat)

	in = Interpreted{Title: "Broken", StartToken: "1pm", EndToken: "soon"}
	_, err = Normalize(in, refDate)
	assert.ErrorIs(t, err, ErrUnrecognizedTimeFormat)
}

func TestNormalizeTruncatesDuration(t *testing.T) {
	in := Interpreted{Title: "Short", StartToken: "9:00am", EndToken: "9:59am"}
	event, err := Normalize(in, refDate)
	require.NoError(t, err)
	assert.Equal(t, 59, event.DurationMinutes)
}
