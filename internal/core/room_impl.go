package core

import (
	"sync"

	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	name   string
	mu     sync.RWMutex
	byConn map[domain.ConnID]SignalConnection
}

func NewRoomService(name string) RoomService {
	return &roomImpl{
		name:   name,
		byConn: make(map[domain.ConnID]SignalConnection),
	}
}

func (r *roomImpl) Name() string { return r.name }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

func (r *roomImpl) Members() []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ConnID, 0, len(r.byConn))
	for id := range r.byConn {
		out = append(out, id)
	}
	return out
}

func (r *roomImpl) AddMember(id domain.ConnID, sc SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[id] = sc
	log.Debug().Str("module", "core.room").Str("room", r.name).Str("conn", string(id)).Msg("member added")
}

func (r *roomImpl) RemoveMember(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byConn[id]; !ok {
		return false
	}
	delete(r.byConn, id)
	log.Debug().Str("module", "core.room").Str("room", r.name).Str("conn", string(id)).Msg("member removed")
	return true
}

func (r *roomImpl) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, sc := range r.byConn {
		if err := sc.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", r.name).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
