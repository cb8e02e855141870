package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/voicehub/internal/app"
	"github.com/dkeye/voicehub/internal/domain"
)

// signalPayload carries the opaque body either under "payload" or under the
// key named after the kind ("offer", "answer", "candidate").
type signalPayload struct {
	TargetUserID domain.UserID    `json:"targetUserId" validate:"required,max=64"`
	ChannelID    domain.ChannelID `json:"channelId" validate:"max=128"`
	Payload      json.RawMessage  `json:"payload"`
	Offer        json.RawMessage  `json:"offer"`
	Answer       json.RawMessage  `json:"answer"`
	Candidate    json.RawMessage  `json:"candidate"`
}

// body returns the payload for kind and whether it came from the kind's key.
func (p signalPayload) body(kind app.SignalKind) (json.RawMessage, bool) {
	if len(p.Payload) > 0 {
		return p.Payload, false
	}
	var keyed json.RawMessage
	switch kind {
	case app.KindOffer:
		keyed = p.Offer
	case app.KindAnswer:
		keyed = p.Answer
	case app.KindICECandidate:
		keyed = p.Candidate
	}
	return keyed, len(keyed) > 0
}

func (o *Orchestrator) signalHandler(kind app.SignalKind) handlerFunc {
	return func(conn domain.ConnID, data json.RawMessage) error {
		var p signalPayload
		if err := o.decode(data, &p); err != nil {
			return err
		}
		body, keyed := p.body(kind)
		if len(body) == 0 {
			return fmt.Errorf("%w: missing %s payload", ErrMalformedPayload, kind)
		}
		return o.Relay.Forward(conn, app.Signal{
			Kind:      kind,
			Target:    p.TargetUserID,
			ChannelID: p.ChannelID,
			Payload:   body,
			Keyed:     keyed,
		})
	}
}
