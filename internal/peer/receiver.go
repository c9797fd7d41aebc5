package peer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/InputDetect/internal/transport"
)

// Receiver answers an offer from a remote controller and feeds the input
// data channel it opens into a shared InputChannel.
type Receiver struct {
	pc  *webrtc.PeerConnection
	sig Signaler
	in  *transport.InputChannel

	mu     sync.Mutex
	peerID string
}

func NewReceiver(sig Signaler, iceURLs []string, in *transport.InputChannel) (*Receiver, error) {
	pc, err := NewPeerConnection(iceURLs)
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}
	r := &Receiver{pc: pc, sig: sig, in: in}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != transport.InputLabel {
			slog.Debug("Ignoring data channel", "label", dc.Label())
			return
		}
		dc.OnOpen(func() {
			slog.Info("Remote input channel open", "peer", r.remote())
		})
		r.in.SetChannel(dc)
	})
	trickle(pc, sig, r.remote)
	return r, nil
}

func (r *Receiver) remote() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peerID
}

// HandleOffer applies the remote offer and replies with an answer.
func (r *Receiver) HandleOffer(from string, payload json.RawMessage) error {
	r.mu.Lock()
	r.peerID = from
	r.mu.Unlock()

	var offer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &offer); err != nil {
		return fmt.Errorf("decode offer: %w", err)
	}
	if err := r.pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	answer, err := r.pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	if err := r.pc.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return r.sig.SendAnswer(from, data)
}

func (r *Receiver) HandleICECandidate(payload json.RawMessage) error {
	return addCandidate(r.pc, payload)
}

func (r *Receiver) Close() error {
	return r.pc.Close()
}
