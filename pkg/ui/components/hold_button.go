package components

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTick = 50 * time.Millisecond

// HoldButton fires OnConfirmed once it has been held down for Hold.
// Releasing early or moving off the button resets it.
type HoldButton struct {
	widget.BaseWidget
	Text        string
	Hold        time.Duration
	OnConfirmed func()

	mu       sync.Mutex
	ticker   *time.Ticker
	hovered  bool
	progress float64
}

// NewHoldButton creates a new HoldButton
func NewHoldButton(text string, hold time.Duration, onConfirmed func()) *HoldButton {
	if hold <= 0 {
		hold = time.Second
	}
	b := &HoldButton{Text: text, Hold: hold, OnConfirmed: onConfirmed}
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget
func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.Color(theme.ColorNameForeground))
	text.Alignment = fyne.TextAlignCenter

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          canvas.NewRectangle(theme.Color(theme.ColorNameButton)),
		progressBar: canvas.NewRectangle(theme.Color(theme.ColorNamePrimary)),
	}
}

// Progress returns how far the current hold has got, from 0 to 1.
func (b *HoldButton) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *HoldButton) start() {
	b.mu.Lock()
	if b.ticker != nil {
		b.mu.Unlock()
		return
	}
	b.progress = 0
	ticker := time.NewTicker(holdTick)
	b.ticker = ticker
	step := float64(holdTick) / float64(b.Hold)
	b.mu.Unlock()

	go func() {
		for range ticker.C {
			b.mu.Lock()
			if b.ticker != ticker {
				b.mu.Unlock()
				return
			}
			b.progress += step
			done := b.progress >= 1
			if done {
				b.ticker.Stop()
				b.ticker = nil
			}
			b.mu.Unlock()

			fyne.Do(b.Refresh)
			if done {
				if b.OnConfirmed != nil {
					b.OnConfirmed()
				}
				return
			}
		}
	}()
}

func (b *HoldButton) reset() {
	b.mu.Lock()
	if b.ticker != nil {
		b.ticker.Stop()
		b.ticker = nil
	}
	b.progress = 0
	b.mu.Unlock()
	b.Refresh()
}

// Tapped implements fyne.Tappable
func (b *HoldButton) Tapped(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *HoldButton) MouseOut() {
	b.hovered = false
	b.reset()
}

// MouseDown implements desktop.Mouseable
func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	b.start()
}

// MouseUp implements desktop.Mouseable
func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.reset()
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)
	r.layoutProgress(size)
}

// Progress bar fills from left to right
func (r *holdButtonRenderer) layoutProgress(size fyne.Size) {
	r.progressBar.Resize(fyne.NewSize(size.Width*float32(r.button.Progress()), size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	return fyne.NewSize(
		max(textSize.Width+theme.Padding()*4, 200),
		max(textSize.Height+theme.Padding()*2, 48),
	)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	r.text.Color = theme.Color(theme.ColorNameForeground)

	if r.button.hovered {
		r.bg.FillColor = theme.Color(theme.ColorNameHover)
	} else {
		r.bg.FillColor = theme.Color(theme.ColorNameButton)
	}
	r.layoutProgress(r.bg.Size())

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {}

func (r *holdButtonRenderer) BackgroundColor() color.Color {
	return theme.Color(theme.ColorNameButton)
}
