package peer

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/InputDetect/internal/transport"
)

// Sender opens an ordered input data channel to a remote daemon and offers it.
type Sender struct {
	pc     *webrtc.PeerConnection
	sig    Signaler
	target string
	out    *transport.InputChannel
}

func NewSender(sig Signaler, iceURLs []string, target string) (*Sender, error) {
	pc, err := NewPeerConnection(iceURLs)
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}
	ordered := true
	dc, err := pc.CreateDataChannel(transport.InputLabel, &webrtc.DataChannelInit{Ordered: &ordered})
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("create input channel: %w", err)
	}

	s := &Sender{pc: pc, sig: sig, target: target, out: transport.NewInputChannel(dc)}
	trickle(pc, sig, func() string { return s.target })
	return s, nil
}

// Channel returns the channel events are sent on.
func (s *Sender) Channel() transport.EventSender {
	return s.out
}

// Connect creates an offer and sends it to the target.
func (s *Sender) Connect() error {
	offer, err := s.pc.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	if err := s.pc.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	data, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	return s.sig.SendOffer(s.target, data)
}

func (s *Sender) HandleAnswer(payload json.RawMessage) error {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &answer); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	return s.pc.SetRemoteDescription(answer)
}

func (s *Sender) HandleICECandidate(payload json.RawMessage) error {
	return addCandidate(s.pc, payload)
}

func (s *Sender) Close() error {
	return s.pc.Close()
}
