// Package tracker keeps a live snapshot of mouse, keyboard and message input
// and answers point-in-time queries about it.
package tracker

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/junsooki/InputDetect/internal/input"
)

// DefaultExpiry is how long wheel and double-click signals stay active.
const DefaultExpiry = 100 * time.Millisecond

// Source delivers input events to a listener until detached.
type Source interface {
	Listen(fn func(input.Event)) (detach func())
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithContext sets the identity message events must originate from.
func WithContext(id string) Option {
	return func(t *Tracker) { t.context = id }
}

// WithExpiry sets the delay after which self-expiring fields reset.
func WithExpiry(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.delay = d
		}
	}
}

// WithAfterFunc replaces the timer factory.
func WithAfterFunc(fn AfterFunc) Option {
	return func(t *Tracker) { t.afterFunc = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// Tracker is the input state tracker. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	context   string
	delay     time.Duration
	afterFunc AfterFunc
	log       *slog.Logger
	detach    []func()
	closed    bool

	wheelDelta     float64
	wheelDirection input.WheelDirection
	wheelExpiry    expiry

	mouseButtons map[input.MouseButton]bool
	pressedKeys  map[string]struct{}

	lastKeyPressed string
	keyPressCount  int

	mouseX, mouseY int

	clickCount        int
	doubleClicked     bool
	doubleClickExpiry expiry

	lastMessage string
}

// New creates a Tracker with neutral state.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		delay:        DefaultExpiry,
		afterFunc:    realAfterFunc,
		log:          slog.Default(),
		mouseButtons: make(map[input.MouseButton]bool),
		pressedKeys:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach subscribes the tracker to src. The subscription ends on Close.
func (t *Tracker) Attach(src Source) {
	detach := src.Listen(t.Handle)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		detach()
		return
	}
	t.detach = append(t.detach, detach)
}

// Close detaches every source and cancels pending expirations.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.wheelExpiry.stop()
	t.doubleClickExpiry.stop()
	detach := t.detach
	t.detach = nil
	t.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
}

// SetExpiry changes the delay used by subsequently scheduled expirations.
func (t *Tracker) SetExpiry(d time.Duration) {
	if d <= 0 {
		return
	}
	t.mu.Lock()
	t.delay = d
	t.mu.Unlock()
}

// Handle applies one event to the snapshot. Events after Close are ignored.
//
// A wheel event with a zero DeltaY (a purely horizontal scroll) sets the
// direction to none rather than up, so neither WheelTurned("up") nor
// WheelTurned("down") reports a vertical turn that did not happen.
func (t *Tracker) Handle(e input.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	switch e.Type {
	case input.EventWheel:
		t.wheelDelta = e.DeltaY
		switch {
		case e.DeltaY > 0:
			t.wheelDirection = input.WheelDown
		case e.DeltaY < 0:
			t.wheelDirection = input.WheelUp
		default:
			t.wheelDirection = input.WheelNone
		}
		t.wheelExpiry.restart(t, func() {
			t.wheelDelta = 0
			t.wheelDirection = input.WheelNone
		})
	case input.EventMouseDown:
		if e.Button.String() != "" {
			t.mouseButtons[e.Button] = true
		}
		t.clickCount++
	case input.EventMouseUp:
		delete(t.mouseButtons, e.Button)
	case input.EventDoubleClick:
		t.doubleClicked = true
		t.doubleClickExpiry.restart(t, func() {
			t.doubleClicked = false
		})
	case input.EventMouseMove:
		t.mouseX = int(math.Round(e.X))
		t.mouseY = int(math.Round(e.Y))
	case input.EventKeyDown:
		t.pressedKeys[input.NormalizeKey(e.Key)] = struct{}{}
		t.lastKeyPressed = e.Key
		t.keyPressCount++
	case input.EventKeyUp:
		delete(t.pressedKeys, input.NormalizeKey(e.Key))
	case input.EventMessage:
		if e.Source != t.context || e.Data == nil || e.Data.Type != input.MessageTag {
			t.log.Debug("message ignored", "source", e.Source)
			return
		}
		t.lastMessage = e.Data.Message
	default:
		t.log.Debug("unknown input event", "type", e.Type)
	}
}

// WheelTurned reports whether the wheel is currently turning in the named direction.
func (t *Tracker) WheelTurned(direction string) bool {
	d, ok := input.WheelName(direction)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wheelDirection == d
}

// WheelDelta returns the delta of the last wheel event, or 0 once it expired.
func (t *Tracker) WheelDelta() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wheelDelta
}

func (t *Tracker) ButtonPressed(name string) bool {
	b, ok := input.ButtonName(name)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouseButtons[b]
}

func (t *Tracker) DoubleClicked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubleClicked
}

func (t *Tracker) ClickCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clickCount
}

func (t *Tracker) ResetClickCount() {
	t.mu.Lock()
	t.clickCount = 0
	t.mu.Unlock()
}

func (t *Tracker) MouseX() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouseX
}

func (t *Tracker) MouseY() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouseY
}

// KeyPressed reports whether the key with the given display name is held.
func (t *Tracker) KeyPressed(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held(input.KeyName(name))
}

// KeyComboPressed reports whether a modifier and a key are held together.
func (t *Tracker) KeyComboPressed(modifier, key string) bool {
	mod, ok := input.ModifierName(modifier)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held(mod) && t.held(input.KeyName(key))
}

func (t *Tracker) AnyKeyPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pressedKeys) > 0
}

func (t *Tracker) KeyCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pressedKeys)
}

// LastKey returns the raw label of the most recent key-down.
func (t *Tracker) LastKey() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastKeyPressed
}

func (t *Tracker) KeyPressCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keyPressCount
}

func (t *Tracker) ResetKeyPressCount() {
	t.mu.Lock()
	t.keyPressCount = 0
	t.mu.Unlock()
}

func (t *Tracker) ModifierPressed(name string) bool {
	mod, ok := input.ModifierName(name)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held(mod)
}

func (t *Tracker) ArrowKeyPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range input.ArrowKeys {
		if t.held(k) {
			return true
		}
	}
	return false
}

func (t *Tracker) NumberKeyPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i <= 9; i++ {
		if t.held(strconv.Itoa(i)) {
			return true
		}
	}
	return false
}

func (t *Tracker) LetterKeyPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for c := 'a'; c <= 'z'; c++ {
		if t.held(string(c)) {
			return true
		}
	}
	return false
}

func (t *Tracker) ReceivedMessage(text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastMessage == text
}

func (t *Tracker) LastMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastMessage
}

func (t *Tracker) ClearLastMessage() {
	t.mu.Lock()
	t.lastMessage = ""
	t.mu.Unlock()
}

// Snapshot returns a copy of the current state with sorted sets.
func (t *Tracker) Snapshot() input.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	buttons := make([]string, 0, len(t.mouseButtons))
	for _, b := range []input.MouseButton{input.MouseButtonLeft, input.MouseButtonMiddle, input.MouseButtonRight} {
		if t.mouseButtons[b] {
			buttons = append(buttons, b.String())
		}
	}
	keys := make([]string, 0, len(t.pressedKeys))
	for k := range t.pressedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return input.Snapshot{
		WheelDelta:     t.wheelDelta,
		WheelDirection: t.wheelDirection,
		MouseButtons:   buttons,
		PressedKeys:    keys,
		LastKeyPressed: t.lastKeyPressed,
		KeyPressCount:  t.keyPressCount,
		MouseX:         t.mouseX,
		MouseY:         t.mouseY,
		ClickCount:     t.clickCount,
		DoubleClicked:  t.doubleClicked,
		LastMessage:    t.lastMessage,
	}
}

func (t *Tracker) held(key string) bool {
	_, ok := t.pressedKeys[key]
	return ok
}
