package label

import (
	"errors"
	"log/slog"
	"time"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// Recorder receives per-label outcomes. metrics.Registry implements it.
type Recorder interface {
	LabelParsed()
	LabelSkipped(reason string)
}

// Report summarizes one extraction batch.
type Report struct {
	Total      int
	Parsed     int
	Duplicates int
	Skipped    map[SkipReason]int
	Failed     map[string]int // keyed by failure kind
}

// Extractor runs the interpreter and normalizer over a batch of labels.
// A bad label never stops the batch.
type Extractor struct {
	interpreter *Interpreter
	recorder    Recorder
	logger      *slog.Logger
}

// NewExtractor creates an Extractor. recorder may be nil.
func NewExtractor(interpreter *Interpreter, recorder Recorder, logger *slog.Logger) *Extractor {
	if interpreter == nil {
		interpreter = NewInterpreter(Options{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{interpreter: interpreter, recorder: recorder, logger: logger}
}

// Extract returns the events found in labels, in discovery order.
func (x *Extractor) Extract(labels []string, ref time.Time) ([]models.Event, Report) {
	report := Report{
		Total:   len(labels),
		Skipped: map[SkipReason]int{},
		Failed:  map[string]int{},
	}
	events := []models.Event{}
	seen := make(map[string]bool)

	for _, raw := range labels {
		interpreted, err := x.interpreter.Interpret(raw)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				report.Skipped[skip.Reason]++
				x.record(string(skip.Reason))
				x.logger.Debug("label skipped", "reason", skip.Reason, "label", raw)
			}
			continue
		}

		event, err := NormalizeWith(interpreted, ref, x.interpreter.Options())
		if err != nil {
			kind := failureKind(err)
			report.Failed[kind]++
			x.record(kind)
			x.logger.Warn("label not parsed", "label", raw, "error", err)
			continue
		}

		key := event.Title + "|" + event.Start.Format(time.RFC3339) + "|" + event.End.Format(time.RFC3339)
		if seen[key] {
			report.Duplicates++
			x.logger.Debug("duplicate label dropped", "title", event.Title, "start", event.Start.Format("15:04"))
			continue
		}
		seen[key] = true

		report.Parsed++
		if x.recorder != nil {
			x.recorder.LabelParsed()
		}
		x.logger.Debug("label parsed",
			"rule", interpreted.Rule,
			"title", event.Title,
			"start", event.Start.Format("2006-01-02 15:04"),
			"end", event.End.Format("15:04"),
			"duration_minutes", event.DurationMinutes)
		events = append(events, event)
	}

	x.logSummary(report)
	return events, report
}

func (x *Extractor) record(reason string) {
	if x.recorder != nil {
		x.recorder.LabelSkipped(reason)
	}
}

func (x *Extractor) logSummary(r Report) {
	skipped := 0
	for _, n := range r.Skipped {
		skipped += n
	}
	failed := 0
	for _, n := range r.Failed {
		failed += n
	}
	x.logger.Info("labels extracted",
		"total", r.Total,
		"parsed", r.Parsed,
		"skipped", skipped,
		"failed", failed,
		"duplicates", r.Duplicates)
	if skipped+failed > 0 {
		x.logger.Info("label breakdown",
			"working_location", r.Skipped[SkipWorkingLocation],
			"all_day", r.Skipped[SkipAllDay],
			"no_time_marker", r.Skipped[SkipNoTimeMarker],
			"unmatched_format", r.Skipped[SkipUnmatchedFormat],
			"unrecognized_time", r.Failed[FailUnrecognizedTime],
			"non_positive_duration", r.Failed[FailNonPositiveDuration])
	}
}

const (
	FailUnrecognizedTime    = "unrecognized_time"
	FailNonPositiveDuration = "non_positive_duration"
)

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrNonPositiveDuration):
		return FailNonPositiveDuration
	case errors.Is(err, ErrUnrecognizedTimeFormat):
		return FailUnrecognizedTime
	}
	return "other"
}
