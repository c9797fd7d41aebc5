package input

// EventType identifies the kind of input event.
type EventType string

const (
	EventWheel       EventType = "wheel"
	EventMouseDown   EventType = "mouse_down"
	EventMouseUp     EventType = "mouse_up"
	EventMouseMove   EventType = "mouse_move"
	EventDoubleClick EventType = "dblclick"
	EventKeyDown     EventType = "key_down"
	EventKeyUp       EventType = "key_up"
	EventMessage     EventType = "message"
)

// MouseButton is a browser-style button index.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonMiddle MouseButton = 1
	MouseButtonRight  MouseButton = 2
)

// MessageTag marks envelopes meant for the extension.
const MessageTag = "SCRATCH_EXTENSION_MESSAGE"

// Envelope is the payload of a message event.
type Envelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Event is the wire format for input events, shared by every source.
type Event struct {
	Type   EventType   `json:"type"`
	X      float64     `json:"x,omitempty"`
	Y      float64     `json:"y,omitempty"`
	Button MouseButton `json:"button"`
	// Key is the raw key label as a browser reports it ("a", "A", " ", "Enter", "ArrowUp").
	Key    string  `json:"key,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	// Source identifies the context a message event was posted from.
	Source string    `json:"source,omitempty"`
	Data   *Envelope `json:"data,omitempty"`
	// Timestamp in Unix milliseconds, informational only.
	Timestamp int64 `json:"ts,omitempty"`
}

// WheelDirection is the direction of the last wheel turn.
type WheelDirection string

const (
	WheelNone WheelDirection = ""
	WheelUp   WheelDirection = "up"
	WheelDown WheelDirection = "down"
)

// Snapshot is a point-in-time copy of the tracked input state.
type Snapshot struct {
	WheelDelta     float64        `json:"wheelDelta"`
	WheelDirection WheelDirection `json:"wheelDirection"`
	MouseButtons   []string       `json:"mouseButtons"`
	PressedKeys    []string       `json:"pressedKeys"`
	LastKeyPressed string         `json:"lastKeyPressed"`
	KeyPressCount  int            `json:"keyPressCount"`
	MouseX         int            `json:"mouseX"`
	MouseY         int            `json:"mouseY"`
	ClickCount     int            `json:"clickCount"`
	DoubleClicked  bool           `json:"doubleClicked"`
	LastMessage    string         `json:"lastMessage"`
}
