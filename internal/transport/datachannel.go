package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/InputDetect/internal/input"
)

// InputLabel is the label of the data channel that carries input events.
const InputLabel = "input"

var ErrNoChannel = errors.New("input data channel not set")

// InputChannel carries JSON-encoded input events over a WebRTC DataChannel.
type InputChannel struct {
	mu  sync.Mutex
	dc  *webrtc.DataChannel
	out input.Fanout
}

// NewInputChannel wraps dc, which may be nil until the remote side opens one.
func NewInputChannel(dc *webrtc.DataChannel) *InputChannel {
	c := &InputChannel{}
	if dc != nil {
		c.SetChannel(dc)
	}
	return c
}

// SetChannel sets or replaces the underlying DataChannel.
func (c *InputChannel) SetChannel(dc *webrtc.DataChannel) {
	c.mu.Lock()
	c.dc = dc
	c.mu.Unlock()
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		c.receive(msg.Data)
	})
}

func (c *InputChannel) Send(e input.Event) error {
	c.mu.Lock()
	dc := c.dc
	c.mu.Unlock()
	if dc == nil {
		return ErrNoChannel
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal input event: %w", err)
	}
	return dc.Send(data)
}

func (c *InputChannel) Listen(fn func(input.Event)) func() {
	return c.out.Listen(fn)
}

func (c *InputChannel) receive(data []byte) {
	var e input.Event
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Debug("Dropping malformed input event", "error", err, "bytes", len(data))
		return
	}
	// Messages only come from the local message channel.
	if e.Type == input.EventMessage {
		return
	}
	c.out.Emit(e)
}

// Close closes the underlying DataChannel, if any.
func (c *InputChannel) Close() error {
	c.mu.Lock()
	dc := c.dc
	c.dc = nil
	c.mu.Unlock()
	if dc == nil {
		return nil
	}
	return dc.Close()
}
