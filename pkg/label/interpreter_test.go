package label

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretRangedFirst(t *testing.T) {
	in := NewInterpreter(Options{})

	got, err := in.Interpret("1:30pm to 2:30pm, Block, Jane Doe, Accepted")
	require.NoError(t, err)
	assert.Equal(t, "ranged-first", got.Rule)
	assert.Equal(t, "Block", got.Title)
	assert.Equal(t, "1:30pm", got.StartToken)
	assert.Equal(t, "2:30pm", got.EndToken)
	assert.Nil(t, got.ExplicitDate)
}

func TestInterpretDated(t *testing.T) {
	in := NewInterpreter(Options{})

	got, err := in.Interpret("Design Review, Monday, November 24⋅10:00 – 11:30am")
	require.NoError(t, err)
	assert.Equal(t, "dated", got.Rule)
	assert.Equal(t, "Design Review", got.Title)
	assert.Equal(t, "10:00", got.StartToken)
	assert.Equal(t, "11:30am", got.EndToken)
}

func TestInterpretSeparators(t *testing.T) {
	in := NewInterpreter(Options{})

	for _, label := range []string{
		"10am - 11am, Standup",
		"10am – 11am, Standup",
		"10am — 11am, Standup",
		"10am TO 11am, Standup, Room 4",
	} {
		t.Run(label, func(t *testing.T) {
			got, err := in.Interpret(label)
			require.NoError(t, err)
			assert.Equal(t, "Standup", got.Title)
			assert.Equal(t, "10am", got.StartToken)
			assert.Equal(t, "11am", got.EndToken)
		})
	}
}

func TestInterpretExclusions(t *testing.T) {
	in := NewInterpreter(Options{})

	tests := []struct {
		label  string
		reason SkipReason
	}{
		{"Working location: Home, 9am", SkipWorkingLocation},
		{"WORKING LOCATION, Office, 1pm to 2pm, Sync", SkipWorkingLocation},
		{"Working Location, All day", SkipWorkingLocation},
		{"Company holiday, All Day, Monday", SkipAllDay},
		{"14:00 to 15:00, Design sync", SkipNoTimeMarker},
		{"Lunch with Sam at noon", SkipUnmatchedFormat},
		{"Focus time, 2pm onwards", SkipUnmatchedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			_, err := in.Interpret(tt.label)
			var skip *SkipError
			require.ErrorAs(t, err, &skip)
			assert.Equal(t, tt.reason, skip.Reason)
			assert.Equal(t, tt.label, skip.Label)
		})
	}
}

func TestSkipErrorIs(t *testing.T) {
	filtered := &SkipError{Reason: SkipAllDay}
	assert.ErrorIs(t, filtered, ErrExcludedByFilter)
	assert.NotErrorIs(t, filtered, ErrUnmatchedLabelFormat)

	unmatched := &SkipError{Reason: SkipUnmatchedFormat}
	assert.ErrorIs(t, unmatched, ErrUnmatchedLabelFormat)
	assert.NotErrorIs(t, unmatched, ErrExcludedByFilter)
}

func TestInterpretAllow24Hour(t *testing.T) {
	in := NewInterpreter(Options{Allow24Hour: true})

	got, err := in.Interpret("14:00 to 15:00, Design sync")
	require.NoError(t, err)
	assert.Equal(t, "Design sync", got.Title)
	assert.Equal(t, "14:00", got.StartToken)

	// Still needs a clock token to get past the filter.
	_, err = in.Interpret("Design sync, tomorrow")
	assert.ErrorIs(t, err, ErrExcludedByFilter)
}

func TestInterpretExplicitDate(t *testing.T) {
	in := NewInterpreter(Options{})

	got, err := in.Interpret("1pm to 2pm, Retro, Jane Doe, Accepted, November 26, 2025")
	require.NoError(t, err)
	require.NotNil(t, got.ExplicitDate)
	assert.Equal(t, 2025, got.ExplicitDate.Year())
	assert.Equal(t, time.November, got.ExplicitDate.Month())
	assert.Equal(t, 26, got.ExplicitDate.Day())

	got, err = in.Interpret("1pm to 2pm, Retro, Smarch 40, 2025")
	require.NoError(t, err)
	assert.Nil(t, got.ExplicitDate)

	// Only the first stamp counts, even when a later one is a real date.
	got, err = in.Interpret("1pm to 2pm, Retro, Smarch 40, 2025, November 26, 2025")
	require.NoError(t, err)
	assert.Nil(t, got.ExplicitDate)
}

type fixedRule struct{}

func (fixedRule) Name() string { return "fixed" }

func (fixedRule) Match(label string) (string, string, string, bool) {
	if label != "lunch pm" {
		return "", "", "", false
	}
	return "Lunch", "12pm", "1pm", true
}

func TestInterpretCustomRules(t *testing.T) {
	in := NewInterpreter(Options{}, append([]Rule{fixedRule{}}, DefaultRules...)...)

	got, err := in.Interpret("lunch pm")
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Rule)
	assert.Equal(t, "Lunch", got.Title)

	got, err = in.Interpret("9am to 10am, Standup")
	require.NoError(t, err)
	assert.Equal(t, "ranged-first", got.Rule)
}
