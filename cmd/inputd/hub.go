package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/junsooki/InputDetect/internal/config"
	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/message"
	"github.com/junsooki/InputDetect/internal/peer"
	"github.com/junsooki/InputDetect/internal/signaling"
	"github.com/junsooki/InputDetect/internal/transport"
)

// hub connects the daemon to the signaling hub. Extension messages go to the
// message channel; offers start a WebRTC receiver feeding remote input.
type hub struct {
	sig     *signaling.Client
	iceURLs []string
	remote  *transport.InputChannel

	mu       sync.Mutex
	receiver *peer.Receiver
}

func connectHub(ctx context.Context, cfg *config.Config, messages *message.Channel, remote *transport.InputChannel) (*hub, error) {
	h := &hub{iceURLs: cfg.WebRTC.ICEServers, remote: remote}
	h.sig = signaling.NewClient(cfg.Signaling.URL, cfg.Context, signaling.ClientTypeDaemon, signaling.Handler{
		OnRegistered: func() {
			slog.Info("Registered with signaling hub", "id", cfg.Context)
		},
		OnOffer:        h.handleOffer,
		OnICECandidate: h.handleICECandidate,
		// The hub only relays messages addressed to this daemon, so they are
		// posted as coming from its own context.
		OnExtensionMessage: func(from, text string) {
			slog.Debug("Hub message", "from", from)
			messages.Post(cfg.Context, input.Envelope{Type: input.MessageTag, Message: text})
		},
		OnError: func(msg string) {
			slog.Warn("Signaling error", "message", msg)
		},
	})

	if err := h.sig.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect hub %s: %w", cfg.Signaling.URL, err)
	}
	go func() {
		select {
		case <-h.sig.Done():
			slog.Warn("Signaling hub connection closed")
		case <-ctx.Done():
		}
	}()
	return h, nil
}

func (h *hub) handleOffer(from string, payload json.RawMessage) {
	slog.Info("Received offer", "from", from)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.receiver != nil {
		h.receiver.Close()
		h.receiver = nil
	}
	r, err := peer.NewReceiver(h.sig, h.iceURLs, h.remote)
	if err != nil {
		slog.Error("Create receiver failed", "error", err)
		return
	}
	if err := r.HandleOffer(from, payload); err != nil {
		slog.Error("Handle offer failed", "from", from, "error", err)
		r.Close()
		return
	}
	h.receiver = r
}

func (h *hub) handleICECandidate(from string, payload json.RawMessage) {
	h.mu.Lock()
	r := h.receiver
	h.mu.Unlock()
	if r == nil {
		return
	}
	if err := r.HandleICECandidate(payload); err != nil {
		slog.Debug("Add ICE candidate failed", "from", from, "error", err)
	}
}

func (h *hub) Close() {
	h.mu.Lock()
	if h.receiver != nil {
		h.receiver.Close()
		h.receiver = nil
	}
	h.mu.Unlock()
	h.sig.Close()
}
