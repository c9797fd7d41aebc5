// Package message is an in-process channel for extension messages, modelled
// on a window's message event: every post carries the context it came from.
package message

import (
	"log/slog"
	"sync"
	"time"

	"github.com/junsooki/InputDetect/internal/input"
)

type listener struct {
	id uint64
	fn func(input.Event)
}

// Channel fans posted envelopes out to its listeners, in post order.
type Channel struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners []listener
}

func NewChannel() *Channel {
	return &Channel{}
}

// Listen registers fn and returns a func that removes it.
func (c *Channel) Listen(fn func(input.Event)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Post delivers env as a message event from source to every listener.
func (c *Channel) Post(source string, env input.Envelope) {
	c.mu.RLock()
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	evt := input.Event{
		Type:      input.EventMessage,
		Source:    source,
		Data:      &env,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, l := range listeners {
		deliver(l.fn, evt)
	}
}

func deliver(fn func(input.Event), evt input.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Message listener panicked", "source", evt.Source, "panic", r)
		}
	}()
	fn(evt)
}
