package main

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/borgmon/meeting-countdown/pkg/models"
	"github.com/borgmon/meeting-countdown/pkg/scheduler"
)

const trayUpcomingLimit = 5

// Tray mirrors the scheduler in the system tray menu.
type Tray struct {
	app    fyne.App
	onQuit func()

	mu      sync.Mutex
	queue   scheduler.Queue
	state   scheduler.State
	head    *models.Event
	iconSet bool
}

func newTray(app fyne.App, onQuit func()) *Tray {
	return &Tray{app: app, onQuit: onQuit}
}

// SetQueue swaps in the queue for a new run.
func (t *Tray) SetQueue(q scheduler.Queue) {
	t.mu.Lock()
	t.queue = q
	t.mu.Unlock()
	t.update(time.Now())
}

func (t *Tray) OnPoll(now time.Time, state scheduler.State, head *models.Event, _ int) {
	t.mu.Lock()
	t.state = state
	if head != nil {
		h := *head
		t.head = &h
	} else {
		t.head = nil
	}
	t.mu.Unlock()
	t.update(now)
}

func (t *Tray) OnDispatch(string, models.Event, int, error, time.Duration) {}

func (t *Tray) update(now time.Time) {
	desk, ok := t.app.(desktop.App)
	if !ok {
		return
	}
	items := t.menuItems(now)

	t.mu.Lock()
	setIcon := !t.iconSet
	t.iconSet = true
	t.mu.Unlock()

	fyne.Do(func() {
		desk.SetSystemTrayMenu(fyne.NewMenu("Meeting Countdown", items...))
		if setIcon {
			desk.SetSystemTrayIcon(theme.HistoryIcon())
		}
	})
}

func (t *Tray) menuItems(now time.Time) []*fyne.MenuItem {
	t.mu.Lock()
	state, head, q := t.state, t.head, t.queue
	t.mu.Unlock()

	status := fyne.NewMenuItem(statusLine(now, state, head), nil)
	status.Disabled = true
	items := []*fyne.MenuItem{status, fyne.NewMenuItemSeparator()}

	var upcoming []models.Event
	if q != nil {
		for _, e := range q.RelevantFor(now) {
			if e.Start.After(now) {
				upcoming = append(upcoming, e)
			}
		}
	}
	if len(upcoming) > 0 {
		header := fyne.NewMenuItem("Upcoming Today:", nil)
		header.Disabled = true
		items = append(items, header)

		for _, e := range upcoming[:min(len(upcoming), trayUpcomingLimit)] {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s", e.Start.Format("3:04 PM"), truncateString(e.Title, 35)), nil)
			item.Disabled = true
			items = append(items, item)
		}
		items = append(items, fyne.NewMenuItemSeparator())
	}

	quit := fyne.NewMenuItem("Quit", func() {
		if t.onQuit != nil {
			t.onQuit()
		}
	})
	quit.IsQuit = true
	return append(items, quit)
}

func statusLine(now time.Time, state scheduler.State, head *models.Event) string {
	if head == nil {
		return "No more meetings today"
	}
	switch state {
	case scheduler.Waiting:
		return fmt.Sprintf("Next: %s in %s", truncateString(head.Title, 35), formatRemaining(head.Start.Sub(now)))
	case scheduler.InProgress:
		return fmt.Sprintf("In progress: %s until %s", truncateString(head.Title, 35), head.End.Format("3:04 PM"))
	}
	return "No more meetings today"
}

// truncateString truncates s to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
