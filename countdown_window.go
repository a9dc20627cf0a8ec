package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/meeting-countdown/pkg/platform"
	"github.com/borgmon/meeting-countdown/pkg/ui/components"
)

const countdownTick = 250 * time.Millisecond

// CountdownWindows shows one countdown window per dispatched meeting.
type CountdownWindows struct {
	app    fyne.App
	logger *slog.Logger

	mu      sync.Mutex
	nextID  int
	windows map[int]*CountdownWindow
}

func newCountdownWindows(app fyne.App, logger *slog.Logger) *CountdownWindows {
	return &CountdownWindows{
		app:     app,
		logger:  logger,
		windows: map[int]*CountdownWindow{},
	}
}

func (cw *CountdownWindows) Name() string { return "window" }

func (cw *CountdownWindows) Dispatch(ctx context.Context, seconds int, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(time.Duration(seconds) * time.Second)

	cw.mu.Lock()
	id := cw.nextID
	cw.nextID++
	cw.mu.Unlock()

	w := NewCountdownWindow(cw.app, label, deadline, func() {
		cw.mu.Lock()
		delete(cw.windows, id)
		cw.mu.Unlock()
	})

	cw.mu.Lock()
	cw.windows[id] = w
	cw.mu.Unlock()

	w.Show()
	cw.logger.Debug("countdown window opened", "title", label, "seconds", seconds)
	return nil
}

// Close closes every window that is still open.
func (cw *CountdownWindows) Close() error {
	cw.mu.Lock()
	open := make([]*CountdownWindow, 0, len(cw.windows))
	for _, w := range cw.windows {
		open = append(open, w)
	}
	cw.mu.Unlock()

	for _, w := range open {
		w.Close()
	}
	return nil
}

type CountdownWindow struct {
	window   fyne.Window
	title    string
	deadline time.Time
	onClosed func()

	remaining *canvas.Text
	status    *widget.Label
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewCountdownWindow(app fyne.App, title string, deadline time.Time, onClosed func()) *CountdownWindow {
	w := &CountdownWindow{
		title:    title,
		deadline: deadline,
		onClosed: onClosed,
		stop:     make(chan struct{}),
	}

	fyne.Do(func() {
		w.window = app.NewWindow("Meeting Countdown")
		w.buildUI()
		w.window.SetOnClosed(func() {
			w.stopOnce.Do(func() { close(w.stop) })
			if w.onClosed != nil {
				w.onClosed()
			}
		})
	})

	go w.tick()
	return w
}

func (w *CountdownWindow) buildUI() {
	title := canvas.NewText(w.title, nil)
	title.TextSize = 24
	title.Alignment = fyne.TextAlignCenter

	w.remaining = canvas.NewText(formatRemaining(time.Until(w.deadline)), nil)
	w.remaining.TextSize = 48
	w.remaining.TextStyle = fyne.TextStyle{Monospace: true}
	w.remaining.Alignment = fyne.TextAlignCenter

	w.status = widget.NewLabel("Starts at " + w.deadline.Format("3:04 PM"))
	w.status.Alignment = fyne.TextAlignCenter

	dismiss := components.NewHoldButton("Dismiss (hold 1s)", time.Second, func() {
		fyne.Do(w.window.Close)
	})

	content := container.NewVBox(
		container.NewPadded(title),
		w.remaining,
		w.status,
		widget.NewSeparator(),
		container.NewCenter(dismiss),
	)
	w.window.SetContent(container.NewPadded(container.NewCenter(content)))
	w.window.CenterOnScreen()
}

func (w *CountdownWindow) tick() {
	ticker := time.NewTicker(countdownTick)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			left := time.Until(w.deadline)
			text := formatRemaining(left)
			fyne.Do(func() {
				w.remaining.Text = text
				w.remaining.Refresh()
			})
			if left <= 0 {
				w.announce()
				return
			}
		}
	}
}

// announce marks the meeting as started and brings the window forward.
func (w *CountdownWindow) announce() {
	fyne.Do(func() {
		w.status.SetText("Starting now")
		if !platform.IsAppActive() {
			platform.ActivateApp()
		}
		w.window.Show()
		w.window.RequestFocus()
	})
}

func (w *CountdownWindow) Show() {
	fyne.Do(func() {
		if w.window != nil {
			w.window.Show()
		}
	})
}

func (w *CountdownWindow) Close() {
	fyne.Do(func() {
		if w.window != nil {
			w.window.Close()
		}
	})
}

// formatRemaining renders d as HH:MM:SS, rounding partial seconds up.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	total := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
