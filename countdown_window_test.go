package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Minute, "00:00:00"},
		{0, "00:00:00"},
		{400 * time.Millisecond, "00:00:01"},
		{59 * time.Second, "00:00:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{4*time.Hour + 15*time.Minute, "04:15:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRemaining(tt.in), tt.in.String())
	}
}

func TestCountdownWindowsDispatch(t *testing.T) {
	app := test.NewTempApp(t)
	cw := newCountdownWindows(app, discardLogger())
	assert.Equal(t, "window", cw.Name())

	require.NoError(t, cw.Dispatch(context.Background(), 90, "Standup"))
	require.NoError(t, cw.Dispatch(context.Background(), 300, "Review"))

	cw.mu.Lock()
	open := len(cw.windows)
	cw.mu.Unlock()
	assert.Equal(t, 2, open)

	require.NoError(t, cw.Close())
	assert.Eventually(t, func() bool {
		cw.mu.Lock()
		defer cw.mu.Unlock()
		return len(cw.windows) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCountdownWindowsDispatchCancelled(t *testing.T) {
	app := test.NewTempApp(t)
	cw := newCountdownWindows(app, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cw.Dispatch(ctx, 60, "Standup"), context.Canceled)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
