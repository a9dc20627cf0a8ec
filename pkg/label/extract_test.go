package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	parsed  int
	skipped map[string]int
}

func (r *countingRecorder) LabelParsed() { r.parsed++ }

func (r *countingRecorder) LabelSkipped(reason string) {
	if r.skipped == nil {
		r.skipped = map[string]int{}
	}
	r.skipped[reason]++
}

func TestExtractSkipsBadLabelsAndKeepsOrder(t *testing.T) {
	rec := &countingRecorder{}
	x := NewExtractor(nil, rec, nil)

	labels := []string{
		"2pm to 3pm, Planning, Jane Doe",
		"Working location: Home",
		"All day, Offsite, 9am",
		"14:00 to 15:00, Design sync",
		"Lunch with Sam at noon",
		"3pm to 2pm, Backwards",
		"13pm to 2pm, Typo",
		"9am to 9:30am, Standup",
		"2pm to 3pm, Planning, Jane Doe",
	}

	events, report := x.Extract(labels, refDate)
	require.Len(t, events, 2)
	assert.Equal(t, "Planning", events[0].Title)
	assert.Equal(t, "Standup", events[1].Title)

	assert.Equal(t, len(labels), report.Total)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Skipped[SkipWorkingLocation])
	assert.Equal(t, 1, report.Skipped[SkipAllDay])
	assert.Equal(t, 1, report.Skipped[SkipNoTimeMarker])
	assert.Equal(t, 1, report.Skipped[SkipUnmatchedFormat])
	assert.Equal(t, 1, report.Failed[FailNonPositiveDuration])
	assert.Equal(t, 1, report.Failed[FailUnrecognizedTime])

	assert.Equal(t, 2, rec.parsed)
	assert.Equal(t, 1, rec.skipped[string(SkipAllDay)])
	assert.Equal(t, 1, rec.skipped[FailNonPositiveDuration])
}

func TestExtractEmpty(t *testing.T) {
	events, report := NewExtractor(nil, nil, nil).Extract(nil, refDate)
	assert.Empty(t, events)
	assert.Zero(t, report.Parsed)
}

func TestExtractPassesNormalizerOptions(t *testing.T) {
	labels := []string{"Sync, Tuesday, November 25⋅1:00 – 2:30pm"}

	events, _ := NewExtractor(nil, nil, nil).Extract(labels, refDate)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Start.Hour())

	x := NewExtractor(NewInterpreter(Options{InheritMeridiem: true}), nil, nil)
	events, _ = x.Extract(labels, refDate)
	require.Len(t, events, 1)
	assert.Equal(t, 13, events[0].Start.Hour())
	assert.Equal(t, 90, events[0].DurationMinutes)
}
