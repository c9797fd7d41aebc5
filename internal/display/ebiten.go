package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/junsooki/InputDetect/internal/input"
)

// Window is an Ebitengine game that reports its mouse and keyboard input as
// events and draws a snapshot of the tracked state.
type Window struct {
	out      input.Fanout
	snapshot SnapshotFunc
	clicks   clickDetector

	prevX, prevY int
	keys         []ebiten.Key
	now          func() time.Time
	closed       atomic.Bool
}

// NewWindow creates a window. snapshot may be nil, in which case only a hint
// is drawn. doubleClick is the maximum gap between two presses of a double
// click.
func NewWindow(snapshot SnapshotFunc, doubleClick time.Duration) *Window {
	return &Window{
		snapshot: snapshot,
		clicks:   clickDetector{window: doubleClick},
		prevX:    -1,
		prevY:    -1,
		now:      time.Now,
	}
}

// Listen registers fn for the window's input events.
func (w *Window) Listen(fn func(input.Event)) func() {
	return w.out.Listen(fn)
}

// Run opens the window and blocks until it is closed. Must be called from
// the main goroutine.
func (w *Window) Run(width, height int, title string) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

// Close makes Run return after the current frame.
func (w *Window) Close() {
	w.closed.Store(true)
}

// --- ebiten.Game interface ---

func (w *Window) Update() error {
	if w.closed.Load() {
		return ebiten.Termination
	}
	w.captureMouseInput()
	w.captureKeyboardInput()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.snapshot == nil {
		ebitenutil.DebugPrint(screen, "Move, click, scroll and type in this window.")
		return
	}
	ebitenutil.DebugPrint(screen, formatSnapshot(w.snapshot()))
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- Input capture ---

func (w *Window) captureMouseInput() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if mx != w.prevX || my != w.prevY {
		w.prevX, w.prevY = mx, my
		w.emit(input.Event{Type: input.EventMouseMove, X: x, Y: y})
	}

	buttons := []struct {
		eb  ebiten.MouseButton
		btn input.MouseButton
	}{
		{ebiten.MouseButtonLeft, input.MouseButtonLeft},
		{ebiten.MouseButtonMiddle, input.MouseButtonMiddle},
		{ebiten.MouseButtonRight, input.MouseButtonRight},
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			w.emit(input.Event{Type: input.EventMouseDown, Button: b.btn, X: x, Y: y})
			if b.btn == input.MouseButtonLeft && w.clicks.press(w.now(), x, y) {
				w.emit(input.Event{Type: input.EventDoubleClick, Button: b.btn, X: x, Y: y})
			}
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			w.emit(input.Event{Type: input.EventMouseUp, Button: b.btn, X: x, Y: y})
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		w.emit(input.Event{Type: input.EventWheel, DeltaY: wheelDelta(wy), X: x, Y: y})
	}
}

func (w *Window) captureKeyboardInput() {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		if label, ok := keyLabel(k, shift); ok {
			w.emit(input.Event{Type: input.EventKeyDown, Key: label})
		}
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, k := range w.keys {
		if label, ok := keyLabel(k, shift); ok {
			w.emit(input.Event{Type: input.EventKeyUp, Key: label})
		}
	}
}

func (w *Window) emit(e input.Event) {
	e.Timestamp = w.now().UnixMilli()
	w.out.Emit(e)
}

func formatSnapshot(s input.Snapshot) string {
	keys := make([]string, len(s.PressedKeys))
	for i, k := range s.PressedKeys {
		if k == " " {
			k = "space"
		}
		keys[i] = k
	}

	var b strings.Builder
	fmt.Fprintf(&b, "mouse      %d, %d\n", s.MouseX, s.MouseY)
	fmt.Fprintf(&b, "buttons    [%s]\n", strings.Join(s.MouseButtons, " "))
	fmt.Fprintf(&b, "clicks     %d  double=%t\n", s.ClickCount, s.DoubleClicked)
	fmt.Fprintf(&b, "wheel      %s %.0f\n", orDash(string(s.WheelDirection)), s.WheelDelta)
	fmt.Fprintf(&b, "keys       [%s]\n", strings.Join(keys, " "))
	fmt.Fprintf(&b, "last key   %s  presses=%d\n", orDash(s.LastKeyPressed), s.KeyPressCount)
	fmt.Fprintf(&b, "message    %s\n", orDash(s.LastMessage))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
