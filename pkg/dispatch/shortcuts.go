package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Shortcuts runs a macOS Shortcut with the lead seconds on stdin.
type Shortcuts struct {
	// Command is the program and arguments to run. Defaults to "shortcuts run StartClockTimer".
	Command []string
	logger  *slog.Logger
}

// NewShortcuts creates a dispatcher for the named shortcut.
func NewShortcuts(name string, logger *slog.Logger) *Shortcuts {
	if name == "" {
		name = "StartClockTimer"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Shortcuts{Command: []string{"shortcuts", "run", name}, logger: logger}
}

func (s *Shortcuts) Name() string { return "shortcuts" }

func (s *Shortcuts) Dispatch(ctx context.Context, seconds int, label string) error {
	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Stdin = strings.NewReader(strconv.Itoa(seconds))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &Error{Dispatcher: s.Name(), Err: ctx.Err()}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return &Error{
			Dispatcher: s.Name(),
			Err:        fmt.Errorf("%w: %v: %s", ErrDispatchFailure, err, msg),
		}
	}

	s.logger.Info("countdown started", "dispatcher", s.Name(), "title", label, "lead", FormatLead(seconds))
	return nil
}
