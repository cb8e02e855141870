package orch

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseIdentified
	PhaseInVoice
	PhaseDisconnected
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseIdentified:
		return "identified"
	case PhaseInVoice:
		return "in_voice"
	case PhaseDisconnected:
		return "disconnected"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type connState struct {
	identified bool
	// userID is the registered identity, or the first user id an anonymous
	// connection used for voice.
	userID domain.UserID
	// voice maps each joined channel to the user id the member was added as.
	// It can differ from userID after a re-identify.
	voice map[domain.ChannelID]domain.UserID
}

// voiceUsers lists every user id this connection holds in the voice index.
func (s *connState) voiceUsers() []domain.UserID {
	ids := make(map[domain.UserID]struct{}, len(s.voice)+1)
	if s.userID != "" {
		ids[s.userID] = struct{}{}
	}
	for _, uid := range s.voice {
		ids[uid] = struct{}{}
	}
	return slices.Sorted(maps.Keys(ids))
}

func (s *connState) phase() Phase {
	switch {
	case len(s.voice) > 0:
		return PhaseInVoice
	case s.identified:
		return PhaseIdentified
	}
	return PhaseAnonymous
}

// state returns the per-connection state, creating it for connections whose
// connect event was never seen.
func (o *Orchestrator) state(conn domain.ConnID) *connState {
	st, ok := o.conns[conn]
	if !ok {
		st = &connState{voice: make(map[domain.ChannelID]domain.UserID)}
		o.conns[conn] = st
	}
	return st
}

// Phase reports where conn is in its lifecycle.
func (o *Orchestrator) Phase(conn domain.ConnID) Phase {
	st, ok := o.conns[conn]
	if !ok {
		return PhaseDisconnected
	}
	return st.phase()
}

func (o *Orchestrator) onConnect(conn domain.ConnID) {
	o.state(conn)
	log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("connection opened")
}

type identifyPayload struct {
	UserID   domain.UserID `json:"userId" validate:"required,max=64"`
	Username string        `json:"username" validate:"max=36"`
	Status   domain.Status `json:"status" validate:"omitempty,oneof=online idle dnd invisible offline"`
}

func (o *Orchestrator) onIdentify(conn domain.ConnID, data json.RawMessage) error {
	var p identifyPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	u, err := domain.NewUser(p.UserID, p.Username, p.Status)
	if err != nil {
		return err
	}
	st := o.state(conn)
	o.Registry.Register(conn, *u)
	st.identified = true
	st.userID = u.ID
	o.Presence.GlobalPresence()
	return nil
}

type statusPayload struct {
	Status domain.Status `json:"status" validate:"required,oneof=online idle dnd invisible offline"`
}

// onStatus ignores unknown connections: a status update may race a disconnect.
func (o *Orchestrator) onStatus(conn domain.ConnID, data json.RawMessage) error {
	var p statusPayload
	if err := o.decode(data, &p); err != nil {
		return err
	}
	if !o.Registry.UpdateStatus(conn, p.Status) {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("status update for unknown connection")
		return nil
	}
	o.Presence.GlobalPresence()
	return nil
}

type WhoAmI struct {
	ConnectionID domain.ConnID      `json:"connectionId"`
	Phase        Phase              `json:"phase"`
	User         *domain.User       `json:"user,omitempty"`
	Channels     []domain.ChannelID `json:"channels"`
}

func (o *Orchestrator) onWhoAmI(conn domain.ConnID, _ json.RawMessage) error {
	st := o.state(conn)
	resp := WhoAmI{
		ConnectionID: conn,
		Phase:        st.phase(),
		Channels:     slices.Sorted(maps.Keys(st.voice)),
	}
	if resp.Channels == nil {
		resp.Channels = []domain.ChannelID{}
	}
	if c, ok := o.Registry.Get(conn); ok {
		resp.User = &c.User
	}
	o.Transport.Emit(conn, core.EvWhoAmIResponse, resp)
	return nil
}

func (o *Orchestrator) onPing(conn domain.ConnID, _ json.RawMessage) error {
	o.Transport.Emit(conn, core.EvPong, struct{}{})
	return nil
}

type userDisconnect struct {
	UserID domain.UserID `json:"userId"`
}

// onDisconnect is unconditional. Each step is isolated so a failing step
// never prevents the ones after it.
func (o *Orchestrator) onDisconnect(conn domain.ConnID) {
	var (
		uid domain.UserID
		ids []domain.UserID
	)
	if st, ok := o.conns[conn]; ok {
		uid = st.userID
		ids = st.voiceUsers()
	}

	o.step(conn, "registry", func() {
		if c, ok := o.Registry.Remove(conn); ok {
			uid = c.ID
			if !slices.Contains(ids, uid) {
				ids = append(ids, uid)
			}
		}
	})

	// removed records, per user id, the channels that lost that member.
	removed := make(map[domain.UserID][]domain.ChannelID, len(ids))
	for _, id := range ids {
		o.step(conn, "channels", func() {
			if chs := o.Channels.RemoveUserFromAllChannels(id); len(chs) > 0 {
				removed[id] = chs
			}
		})
	}
	var touched []domain.ChannelID
	for _, chs := range removed {
		touched = append(touched, chs...)
	}
	slices.Sort(touched)
	touched = slices.Compact(touched)

	o.step(conn, "global presence", o.Presence.GlobalPresence)

	for _, ch := range touched {
		o.step(conn, "channel presence", func() {
			o.Presence.ChannelPresence(ch)
			o.Presence.ChannelCount(ch)
		})
	}

	if uid != "" {
		o.step(conn, "user disconnect", func() {
			o.Transport.EmitAll(core.EvUserDisconnect, userDisconnect{UserID: uid})
		})
	}

	o.step(conn, "state", func() {
		delete(o.conns, conn)
		// Other tabs of the same user were removed from these channels too.
		for other, st := range o.conns {
			for ch, member := range st.voice {
				if !slices.Contains(removed[member], ch) {
					continue
				}
				delete(st.voice, ch)
				o.Transport.Leave(other, domain.VoiceRoom(ch))
			}
		}
	})

	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("user", string(uid)).Int("channels", len(touched)).Msg("connection cleaned up")
}
