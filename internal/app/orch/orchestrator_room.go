package orch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

type channelPayload struct {
	ChannelID domain.ChannelID `json:"channelId" validate:"required,max=128"`
}

// UnmarshalJSON also takes a bare JSON string as the channel id.
func (p *channelPayload) UnmarshalJSON(data []byte) error {
	if s := bytes.TrimSpace(data); len(s) > 0 && s[0] == '"' {
		return json.Unmarshal(s, &p.ChannelID)
	}
	type plain channelPayload
	return json.Unmarshal(data, (*plain)(p))
}

func (o *Orchestrator) onChannelJoin(conn domain.ConnID, data json.RawMessage) error {
	var p channelPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	o.Transport.Join(conn, domain.TextRoom(p.ChannelID))
	return nil
}

func (o *Orchestrator) onChannelLeave(conn domain.ConnID, data json.RawMessage) error {
	var p channelPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	o.Transport.Leave(conn, domain.TextRoom(p.ChannelID))
	return nil
}

// resolveUser picks the user id a voice event acts on. A registered identity
// always wins over the payload.
func (o *Orchestrator) resolveUser(conn domain.ConnID, claimed domain.UserID) (domain.UserID, error) {
	st := o.state(conn)
	if c, ok := o.Registry.Get(conn); ok {
		if claimed != "" && claimed != c.ID {
			log.Warn().Str("module", "orch").
				Str("conn", string(conn)).
				Str("user", string(c.ID)).
				Str("claimed", string(claimed)).
				Msg("payload user id ignored")
		}
		return c.ID, nil
	}
	if claimed != "" {
		if st.userID == "" {
			st.userID = claimed
		}
		return claimed, nil
	}
	if st.userID != "" {
		return st.userID, nil
	}
	return "", fmt.Errorf("connection %s: %w", conn, ErrNoUserID)
}

type voiceJoinPayload struct {
	ChannelID  domain.ChannelID `json:"channelId" validate:"required,max=128"`
	UserID     domain.UserID    `json:"userId" validate:"max=64"`
	IsMuted    *bool            `json:"isMuted"`
	IsDeafened *bool            `json:"isDeafened"`
	HasVideo   *bool            `json:"hasVideo"`
}

func (o *Orchestrator) onVoiceJoin(conn domain.ConnID, data json.RawMessage) error {
	var p voiceJoinPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	uid, err := o.resolveUser(conn, p.UserID)
	if err != nil {
		return err
	}
	o.Channels.Join(p.ChannelID, uid, domain.VoicePatch{
		IsMuted:    p.IsMuted,
		IsDeafened: p.IsDeafened,
		HasVideo:   p.HasVideo,
	})
	o.state(conn).voice[p.ChannelID] = uid
	o.Transport.Join(conn, domain.VoiceRoom(p.ChannelID))
	o.Presence.ChannelPresence(p.ChannelID)
	o.Presence.ChannelCount(p.ChannelID)
	return nil
}

type voiceRefPayload struct {
	ChannelID domain.ChannelID `json:"channelId" validate:"required,max=128"`
	UserID    domain.UserID    `json:"userId" validate:"max=64"`
}

// onVoiceLeave broadcasts even when the user was not a member, so that a
// client with a stale roster gets corrected.
func (o *Orchestrator) onVoiceLeave(conn domain.ConnID, data json.RawMessage) error {
	var p voiceRefPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	uid, err := o.resolveUser(conn, p.UserID)
	if err != nil {
		return err
	}
	st := o.state(conn)
	o.Channels.Leave(p.ChannelID, uid)
	// The connection may have joined under an id it has since replaced.
	if joined, ok := st.voice[p.ChannelID]; ok && joined != uid {
		o.Channels.Leave(p.ChannelID, joined)
	}
	delete(st.voice, p.ChannelID)
	o.Transport.Leave(conn, domain.VoiceRoom(p.ChannelID))
	o.Presence.ChannelPresence(p.ChannelID)
	o.Presence.ChannelCount(p.ChannelID)
	return nil
}

type voiceFlagPayload struct {
	ChannelID  domain.ChannelID `json:"channelId" validate:"required,max=128"`
	UserID     domain.UserID    `json:"userId" validate:"max=64"`
	IsMuted    *bool            `json:"isMuted"`
	IsDeafened *bool            `json:"isDeafened"`
	HasVideo   *bool            `json:"hasVideo"`
}

func (p voiceFlagPayload) value(flag domain.VoiceFlag) *bool {
	switch flag {
	case domain.FlagMuted:
		return p.IsMuted
	case domain.FlagDeafened:
		return p.IsDeafened
	case domain.FlagVideo:
		return p.HasVideo
	}
	return nil
}

func (o *Orchestrator) flagHandler(flag domain.VoiceFlag) handlerFunc {
	return func(conn domain.ConnID, data json.RawMessage) error {
		var p voiceFlagPayload
		if err := o.decode(data, &p); err != nil {
			return err
		}
		v := p.value(flag)
		if v == nil {
			return fmt.Errorf("%w: missing %s", ErrMalformedPayload, flag)
		}
		uid, err := o.resolveUser(conn, p.UserID)
		if err != nil {
			return err
		}
		if !o.Channels.SetFlag(p.ChannelID, uid, flag, *v) {
			log.Debug().Str("module", "orch").
				Str("conn", string(conn)).
				Str("channel", string(p.ChannelID)).
				Str("flag", string(flag)).
				Msg("flag change for non-member")
			return nil
		}
		o.Presence.ChannelPresence(p.ChannelID)
		return nil
	}
}

func (o *Orchestrator) onGetUsers(conn domain.ConnID, data json.RawMessage) error {
	var p channelPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	o.Transport.Emit(conn, core.EvVoiceUpdate, o.Presence.Roster(p.ChannelID))
	o.Transport.Emit(conn, core.EvVoiceUserCount, o.Presence.Count(p.ChannelID))
	return nil
}

func (o *Orchestrator) speakingHandler(speaking bool) handlerFunc {
	return func(conn domain.ConnID, data json.RawMessage) error {
		var p voiceRefPayload
		if err := o.decode(data, &p); err != nil {
			return err
		}
		uid, err := o.resolveUser(conn, p.UserID)
		if err != nil {
			return err
		}
		o.Relay.Speaking(p.ChannelID, uid, speaking)
		return nil
	}
}
