package extension

import "github.com/junsooki/InputDetect/internal/tracker"

// Args are the block arguments keyed by name (DIRECTION, KEY, ...).
type Args map[string]string

type blockFunc func(t *tracker.Tracker, a Args) any

var blocks = map[string]blockFunc{
	"mouseWheelTurned":   func(t *tracker.Tracker, a Args) any { return t.WheelTurned(a["DIRECTION"]) },
	"getWheelDelta":      func(t *tracker.Tracker, _ Args) any { return t.WheelDelta() },
	"mouseButtonPressed": func(t *tracker.Tracker, a Args) any { return t.ButtonPressed(a["BUTTON"]) },
	"doubleClicked":      func(t *tracker.Tracker, _ Args) any { return t.DoubleClicked() },
	"getClickCount":      func(t *tracker.Tracker, _ Args) any { return t.ClickCount() },
	"resetClickCount":    func(t *tracker.Tracker, _ Args) any { t.ResetClickCount(); return nil },
	"getMouseX":          func(t *tracker.Tracker, _ Args) any { return t.MouseX() },
	"getMouseY":          func(t *tracker.Tracker, _ Args) any { return t.MouseY() },
	"keyPressed":         func(t *tracker.Tracker, a Args) any { return t.KeyPressed(a["KEY"]) },
	"keyComboPressed":    func(t *tracker.Tracker, a Args) any { return t.KeyComboPressed(a["KEY1"], a["KEY2"]) },
	"anyKeyPressed":      func(t *tracker.Tracker, _ Args) any { return t.AnyKeyPressed() },
	"keyCount":           func(t *tracker.Tracker, _ Args) any { return t.KeyCount() },
	"getLastKey":         func(t *tracker.Tracker, _ Args) any { return t.LastKey() },
	"getKeyPressCount":   func(t *tracker.Tracker, _ Args) any { return t.KeyPressCount() },
	"resetKeyPressCount": func(t *tracker.Tracker, _ Args) any { t.ResetKeyPressCount(); return nil },
	"isModifierPressed":  func(t *tracker.Tracker, a Args) any { return t.ModifierPressed(a["MODIFIER"]) },
	"isArrowKeyPressed":  func(t *tracker.Tracker, _ Args) any { return t.ArrowKeyPressed() },
	"isNumberKeyPressed": func(t *tracker.Tracker, _ Args) any { return t.NumberKeyPressed() },
	"isLetterKeyPressed": func(t *tracker.Tracker, _ Args) any { return t.LetterKeyPressed() },
	"receivedMessage":    func(t *tracker.Tracker, a Args) any { return t.ReceivedMessage(a["MESSAGE"]) },
	"getLastMessage":     func(t *tracker.Tracker, _ Args) any { return t.LastMessage() },
	"clearLastMessage":   func(t *tracker.Tracker, _ Args) any { t.ClearLastMessage(); return nil },
}

// Extension binds the descriptor's opcodes to a tracker.
type Extension struct {
	tracker *tracker.Tracker
}

func New(t *tracker.Tracker) *Extension {
	return &Extension{tracker: t}
}

// Call runs the block for opcode. ok is false for unknown opcodes; commands
// return a nil value.
func (e *Extension) Call(opcode string, args Args) (value any, ok bool) {
	fn, ok := blocks[opcode]
	if !ok {
		return nil, false
	}
	return fn(e.tracker, args), true
}

// Has reports whether opcode is known.
func Has(opcode string) bool {
	_, ok := blocks[opcode]
	return ok
}
