package transport

import "github.com/junsooki/InputDetect/internal/input"

// EventSender sends input events to a remote tracker.
type EventSender interface {
	Send(e input.Event) error
}

// EventSource delivers input events received from a remote peer.
type EventSource interface {
	Listen(fn func(input.Event)) (detach func())
}

var (
	_ EventSender = (*InputChannel)(nil)
	_ EventSource = (*InputChannel)(nil)
)
