package signal

import (
	"sync"

	"github.com/dkeye/voicehub/internal/app"
	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

// Hub keeps live connections and their rooms. It implements core.Transport.
type Hub struct {
	mu       sync.RWMutex
	conns    map[domain.ConnID]core.SignalConnection
	rooms    map[string]core.RoomService
	memberOf map[domain.ConnID]map[string]struct{}

	policy app.Policy
}

var _ core.Transport = (*Hub)(nil)

func NewHub(policy app.Policy) *Hub {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropFrame}
	}
	return &Hub{
		conns:    make(map[domain.ConnID]core.SignalConnection),
		rooms:    make(map[string]core.RoomService),
		memberOf: make(map[domain.ConnID]map[string]struct{}),
		policy:   policy,
	}
}

func (h *Hub) Attach(id domain.ConnID, sc core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = sc
	h.memberOf[id] = make(map[string]struct{})
	log.Debug().Str("module", "signal.hub").Str("conn", string(id)).Msg("attached")
}

// Detach drops id from every room. Empty rooms are removed.
func (h *Hub) Detach(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name := range h.memberOf[id] {
		h.leaveLocked(id, name)
	}
	delete(h.memberOf, id)
	delete(h.conns, id)
	log.Debug().Str("module", "signal.hub").Str("conn", string(id)).Msg("detached")
}

func (h *Hub) Join(id domain.ConnID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sc, ok := h.conns[id]
	if !ok {
		return
	}
	r, ok := h.rooms[room]
	if !ok {
		r = core.NewRoomService(room)
		h.rooms[room] = r
	}
	r.AddMember(id, sc)
	h.memberOf[id][room] = struct{}{}
}

func (h *Hub) Leave(id domain.ConnID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(id, room)
}

func (h *Hub) leaveLocked(id domain.ConnID, room string) {
	if rooms, ok := h.memberOf[id]; ok {
		delete(rooms, room)
	}
	r, ok := h.rooms[room]
	if !ok {
		return
	}
	r.RemoveMember(id)
	if r.MemberCount() == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) Emit(to domain.ConnID, event string, payload any) {
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	sc, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := sc.TrySend(frame); err != nil {
		h.onDropped("", []domain.ConnID{to})
	}
}

func (h *Hub) EmitAll(event string, payload any) {
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	var dropped []domain.ConnID
	h.mu.RLock()
	for id, sc := range h.conns {
		if err := sc.TrySend(frame); err != nil {
			dropped = append(dropped, id)
		}
	}
	h.mu.RUnlock()
	h.onDropped("", dropped)
}

func (h *Hub) EmitRoom(room string, event string, payload any) {
	h.mu.RLock()
	r, ok := h.rooms[room]
	h.mu.RUnlock()
	if !ok {
		return
	}
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	res := r.Broadcast(frame)
	h.onDropped(room, res.Dropped)
}

func (h *Hub) encode(event string, payload any) (core.Frame, bool) {
	frame, err := encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Str("event", event).Msg("encode failed")
		return nil, false
	}
	return frame, true
}

func (h *Hub) onDropped(room string, ids []domain.ConnID) {
	for _, id := range ids {
		switch h.policy.OnBackPressure(room, id) {
		case app.KickMember:
			h.mu.RLock()
			sc, ok := h.conns[id]
			h.mu.RUnlock()
			if ok {
				log.Warn().Str("module", "signal.hub").Str("conn", string(id)).Str("room", room).Msg("slow connection kicked")
				sc.Close()
			}
		case app.DropFrame, app.NoAction:
			log.Warn().Str("module", "signal.hub").Str("conn", string(id)).Str("room", room).Msg("frame dropped")
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Rooms() []core.RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(h.rooms))
	for name, r := range h.rooms {
		out = append(out, core.RoomInfo{Name: name, MemberCount: r.MemberCount()})
	}
	return out
}
