package dispatch

import (
	"context"
	"log/slog"
)

// Log only records the countdown. Used for dry runs.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Dispatch(_ context.Context, seconds int, label string) error {
	l.logger.Info("countdown", "title", label, "seconds", seconds, "lead", FormatLead(seconds))
	return nil
}
