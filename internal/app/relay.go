package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownSender = errors.New("sender is not registered")
	ErrUnknownTarget = errors.New("target user is not connected")
	ErrSelfTarget    = errors.New("target is the sender's own connection")
	ErrUnknownKind   = errors.New("unknown signal kind")
)

type SignalKind string

const (
	KindOffer        SignalKind = "offer"
	KindAnswer       SignalKind = "answer"
	KindICECandidate SignalKind = "ice-candidate"
	KindSignal       SignalKind = "signal"
)

// Event is the wire name used both inbound and outbound for the kind.
func (k SignalKind) Event() string {
	switch k {
	case KindOffer:
		return core.EvVoiceOffer
	case KindAnswer:
		return core.EvVoiceAnswer
	case KindICECandidate:
		return core.EvVoiceICECandidate
	case KindSignal:
		return core.EvVoiceSignal
	}
	return ""
}

// KindFromEvent is the inverse of Event.
func KindFromEvent(ev string) (SignalKind, bool) {
	for _, k := range []SignalKind{KindOffer, KindAnswer, KindICECandidate, KindSignal} {
		if k.Event() == ev {
			return k, true
		}
	}
	return "", false
}

// Signal is one opaque WebRTC message on its way to a single peer.
type Signal struct {
	Kind      SignalKind
	Target    domain.UserID
	ChannelID domain.ChannelID
	Payload   json.RawMessage
	// Keyed is set when the sender used the kind's own key instead of
	// "payload". The relayed message then carries that key as well.
	Keyed bool
}

// RelayedSignal is what the target receives.
type RelayedSignal struct {
	FromUserID domain.UserID    `json:"fromUserId"`
	ChannelID  domain.ChannelID `json:"channelId,omitempty"`
	Payload    json.RawMessage  `json:"payload"`
	Offer      json.RawMessage  `json:"offer,omitempty"`
	Answer     json.RawMessage  `json:"answer,omitempty"`
	Candidate  json.RawMessage  `json:"candidate,omitempty"`
}

type Speaking struct {
	UserID   domain.UserID `json:"userId"`
	Speaking bool          `json:"speaking"`
}

// Relay forwards signaling between peers without looking at the payload.
type Relay struct {
	reg *Registry
	tr  core.Transport
}

func NewRelay(reg *Registry, tr core.Transport) *Relay {
	return &Relay{reg: reg, tr: tr}
}

// Forward delivers s to the connection that currently carries s.Target.
func (r *Relay) Forward(from domain.ConnID, s Signal) error {
	ev := s.Kind.Event()
	if ev == "" {
		return fmt.Errorf("relay %q: %w", s.Kind, ErrUnknownKind)
	}
	sender, ok := r.reg.Get(from)
	if !ok {
		return fmt.Errorf("relay %s: %w", s.Kind, ErrUnknownSender)
	}
	target, ok := r.reg.FindByUserID(s.Target)
	if !ok {
		return fmt.Errorf("relay %s to %s: %w", s.Kind, s.Target, ErrUnknownTarget)
	}
	if target.ConnectionID == from {
		return fmt.Errorf("relay %s to %s: %w", s.Kind, s.Target, ErrSelfTarget)
	}
	out := RelayedSignal{
		FromUserID: sender.ID,
		ChannelID:  s.ChannelID,
		Payload:    s.Payload,
	}
	if s.Keyed {
		switch s.Kind {
		case KindOffer:
			out.Offer = s.Payload
		case KindAnswer:
			out.Answer = s.Payload
		case KindICECandidate:
			out.Candidate = s.Payload
		}
	}
	r.tr.Emit(target.ConnectionID, ev, out)
	log.Debug().Str("module", "app.relay").
		Str("kind", string(s.Kind)).
		Str("from", string(sender.ID)).
		Str("to", string(s.Target)).
		Msg("signal relayed")
	return nil
}

// Speaking tells the voice room that uid started or stopped talking.
func (r *Relay) Speaking(ch domain.ChannelID, uid domain.UserID, speaking bool) {
	r.tr.EmitRoom(domain.VoiceRoom(ch), core.EvVoiceSpeaking, Speaking{UserID: uid, Speaking: speaking})
}
