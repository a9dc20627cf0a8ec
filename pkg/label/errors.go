package label

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedTimeFormat is returned when a time token matches none of the accepted grammars.
	ErrUnrecognizedTimeFormat = errors.New("unrecognized time format")
	// ErrUnmatchedLabelFormat is returned when no label rule matches.
	ErrUnmatchedLabelFormat = errors.New("unmatched label format")
	// ErrExcludedByFilter marks a label deliberately skipped by an exclusion filter.
	ErrExcludedByFilter = errors.New("excluded by filter")
	// ErrNonPositiveDuration is returned when the resolved end is not after the start.
	ErrNonPositiveDuration = errors.New("non-positive duration")
)

// SkipReason says why a label was not turned into an event.
type SkipReason string

const (
	SkipWorkingLocation SkipReason = "working_location"
	SkipAllDay          SkipReason = "all_day"
	SkipNoTimeMarker    SkipReason = "no_time_marker"
	SkipUnmatchedFormat SkipReason = "unmatched_format"
)

// SkipError is returned by the interpreter for labels it will not extract.
type SkipError struct {
	Reason SkipReason
	Label  string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped (%s): %q", e.Reason, e.Label)
}

// Is maps filter skips to ErrExcludedByFilter and format misses to ErrUnmatchedLabelFormat.
func (e *SkipError) Is(target error) bool {
	switch target {
	case ErrExcludedByFilter:
		return e.Reason != SkipUnmatchedFormat
	case ErrUnmatchedLabelFormat:
		return e.Reason == SkipUnmatchedFormat
	}
	return false
}

// ParseError wraps a time or duration failure with the offending input.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
