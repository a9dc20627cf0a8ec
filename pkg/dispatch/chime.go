package dispatch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/borgmon/meeting-countdown/pkg/audio"
)

type sound interface {
	Stop()
	Wait()
}

func playWAV(wav []byte) (sound, error) {
	return audio.Play(wav)
}

// Chime rings a WAV file when the countdown reaches zero.
type Chime struct {
	wav    []byte
	play   func([]byte) (sound, error)
	logger *slog.Logger

	mu      sync.Mutex
	timers  []*time.Timer
	playing []sound
	closed  bool
}

// NewChime loads the WAV file at path.
func NewChime(path string, logger *slog.Logger) (*Chime, error) {
	wav, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read chime file %s", path)
	}
	if _, _, err := audio.ParseWAV(wav); err != nil {
		return nil, errors.Wrapf(err, "chime file %s", path)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{wav: wav, play: playWAV, logger: logger}, nil
}

func (c *Chime) Name() string { return "chime" }

// Dispatch arms the chime and returns at once.
func (c *Chime) Dispatch(_ context.Context, seconds int, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &Error{Dispatcher: c.Name(), Err: errors.Wrap(ErrDispatchFailure, "chime closed")}
	}

	c.timers = append(c.timers, time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		c.ring(label)
	}))
	c.logger.Debug("chime armed", "title", label, "lead", FormatLead(seconds))
	return nil
}

func (c *Chime) ring(label string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	player, err := c.play(c.wav)
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("chime failed", "title", label, "error", err)
		return
	}
	c.playing = append(c.playing, player)
	c.mu.Unlock()

	c.logger.Info("meeting starting", "title", label)
	player.Wait()
}

// Close disarms pending chimes and stops any that are ringing.
func (c *Chime) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, t := range c.timers {
		t.Stop()
	}
	for _, p := range c.playing {
		p.Stop()
	}
	c.timers = nil
	c.playing = nil
	return nil
}
