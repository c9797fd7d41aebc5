package signaling

import (
	"encoding/json"

	"github.com/junsooki/InputDetect/internal/input"
)

// Message types understood by the hub.
const (
	TypeRegister     = "register"
	TypeRegistered   = "registered"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypePing         = "ping"
	TypePong         = "pong"
	TypeError        = "error"
	// TypeExtension carries text for the block host, relayed between clients.
	TypeExtension = input.MessageTag
)

// Client roles announced on registration.
const (
	ClientTypeDaemon     = "daemon"
	ClientTypeController = "controller"
)

// Message is the envelope of every hub message.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	ClientType string          `json:"clientType,omitempty"`
	From       string          `json:"from,omitempty"`
	Target     string          `json:"target,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Msg        string          `json:"message,omitempty"`
}
