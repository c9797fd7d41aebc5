package extension

import (
	"testing"
	"time"

	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/tracker"
)

type noTimer struct{}

func (noTimer) Stop() bool { return true }

func newTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(
		tracker.WithContext("ctx"),
		tracker.WithAfterFunc(func(time.Duration, func()) tracker.Timer { return noTimer{} }),
	)
	t.Cleanup(tr.Close)
	return tr
}

func TestDescriptorMatchesDispatch(t *testing.T) {
	d := Describe()
	seen := make(map[string]bool)
	for _, b := range d.Blocks {
		if seen[b.Opcode] {
			t.Errorf("duplicate opcode %q", b.Opcode)
		}
		seen[b.Opcode] = true
		if !Has(b.Opcode) {
			t.Errorf("opcode %q has no handler", b.Opcode)
		}
		for name, arg := range b.Arguments {
			if arg.Menu != "" {
				if _, ok := d.Menus[arg.Menu]; !ok {
					t.Errorf("opcode %q argument %s uses unknown menu %q", b.Opcode, name, arg.Menu)
				}
			}
		}
	}
	for opcode := range blocks {
		if !seen[opcode] {
			t.Errorf("handler %q missing from descriptor", opcode)
		}
	}
}

func TestKeyMenuResolves(t *testing.T) {
	tr := newTracker(t)
	for _, item := range Describe().Menus["keyNames"].Items {
		raw := input.KeyName(item)
		tr.Handle(input.Event{Type: input.EventKeyDown, Key: raw})
		if !tr.KeyPressed(item) {
			t.Errorf("menu item %q does not resolve to a held key", item)
		}
		tr.Handle(input.Event{Type: input.EventKeyUp, Key: raw})
	}
}

func TestCall(t *testing.T) {
	tr := newTracker(t)
	ext := New(tr)

	tr.Handle(input.Event{Type: input.EventKeyDown, Key: "Control"})
	tr.Handle(input.Event{Type: input.EventKeyDown, Key: "c"})
	tr.Handle(input.Event{Type: input.EventMouseDown, Button: input.MouseButtonMiddle})
	tr.Handle(input.Event{Type: input.EventMouseMove, X: 3, Y: 4})
	tr.Handle(input.Event{Type: input.EventWheel, DeltaY: -40})
	tr.Handle(input.Event{Type: input.EventMessage, Source: "ctx", Data: &input.Envelope{Type: input.MessageTag, Message: "消息1"}})

	tests := []struct {
		opcode string
		args   Args
		want   any
	}{
		{"keyComboPressed", Args{"KEY1": "Ctrl", "KEY2": "C"}, true},
		{"keyComboPressed", Args{"KEY1": "Shift", "KEY2": "C"}, false},
		{"keyPressed", Args{"KEY": "C"}, true},
		{"keyPressed", Args{}, false},
		{"isModifierPressed", Args{"MODIFIER": "Ctrl"}, true},
		{"isLetterKeyPressed", nil, true},
		{"keyCount", nil, 2},
		{"getLastKey", nil, "c"},
		{"getKeyPressCount", nil, 2},
		{"mouseButtonPressed", Args{"BUTTON": "middle"}, true},
		{"mouseButtonPressed", Args{"BUTTON": "wheel"}, false},
		{"getClickCount", nil, 1},
		{"getMouseX", nil, 3},
		{"getMouseY", nil, 4},
		{"mouseWheelTurned", Args{"DIRECTION": "up"}, true},
		{"getWheelDelta", nil, -40.0},
		{"receivedMessage", Args{"MESSAGE": "消息1"}, true},
		{"getLastMessage", nil, "消息1"},
	}

	for _, tt := range tests {
		got, ok := ext.Call(tt.opcode, tt.args)
		if !ok {
			t.Errorf("Call(%q) not ok", tt.opcode)
			continue
		}
		if got != tt.want {
			t.Errorf("Call(%q, %v) = %v (%T), want %v (%T)", tt.opcode, tt.args, got, got, tt.want, tt.want)
		}
	}
}

func TestCallCommands(t *testing.T) {
	tr := newTracker(t)
	ext := New(tr)

	tr.Handle(input.Event{Type: input.EventMouseDown})
	tr.Handle(input.Event{Type: input.EventKeyDown, Key: "x"})
	tr.Handle(input.Event{Type: input.EventMessage, Source: "ctx", Data: &input.Envelope{Type: input.MessageTag, Message: "m"}})

	for _, opcode := range []string{"resetClickCount", "resetKeyPressCount", "clearLastMessage"} {
		v, ok := ext.Call(opcode, nil)
		if !ok || v != nil {
			t.Errorf("Call(%q) = (%v, %v), want (nil, true)", opcode, v, ok)
		}
	}
	if tr.ClickCount() != 0 || tr.KeyPressCount() != 0 || tr.LastMessage() != "" {
		t.Errorf("commands did not reset state: %+v", tr.Snapshot())
	}
}

func TestCallUnknownOpcode(t *testing.T) {
	ext := New(newTracker(t))
	if v, ok := ext.Call("launchRocket", nil); ok || v != nil {
		t.Errorf("Call(launchRocket) = (%v, %v), want (nil, false)", v, ok)
	}
}
