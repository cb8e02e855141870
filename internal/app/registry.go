package app

import (
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps live connections to the identity they announced.
// It is owned by the orchestrator loop and is not safe for concurrent use.
type Registry struct {
	order   []domain.ConnID
	entries map[domain.ConnID]*domain.Connection
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.ConnID]*domain.Connection)}
}

// Register inserts or overwrites the entry for conn. Overwriting keeps the
// original position in the snapshot order.
func (r *Registry) Register(conn domain.ConnID, u domain.User) domain.Connection {
	if u.Status == "" {
		u.Status = domain.StatusOnline
	}
	if e, ok := r.entries[conn]; ok {
		e.User = u
		log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("user", string(u.ID)).Msg("re-registered connection")
		return *e
	}
	e := &domain.Connection{ConnectionID: conn, User: u}
	r.entries[conn] = e
	r.order = append(r.order, conn)
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("user", string(u.ID)).Msg("registered connection")
	return *e
}

func (r *Registry) UpdateStatus(conn domain.ConnID, status domain.Status) bool {
	e, ok := r.entries[conn]
	if !ok {
		return false
	}
	e.Status = status
	log.Debug().Str("module", "app.registry").Str("conn", string(conn)).Str("status", string(status)).Msg("updated status")
	return true
}

func (r *Registry) Remove(conn domain.ConnID) (domain.Connection, bool) {
	e, ok := r.entries[conn]
	if !ok {
		return domain.Connection{}, false
	}
	delete(r.entries, conn)
	for i, id := range r.order {
		if id == conn {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("user", string(e.ID)).Msg("removed connection")
	return *e, true
}

func (r *Registry) Get(conn domain.ConnID) (domain.Connection, bool) {
	e, ok := r.entries[conn]
	if !ok {
		return domain.Connection{}, false
	}
	return *e, true
}

// FindByUserID returns the newest connection carrying uid.
// A user with several tabs is reachable through the last one that registered.
func (r *Registry) FindByUserID(uid domain.UserID) (domain.Connection, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if e := r.entries[r.order[i]]; e.ID == uid {
			return *e, true
		}
	}
	return domain.Connection{}, false
}

// Snapshot copies every entry in registration order. Never nil.
func (r *Registry) Snapshot() []domain.Connection {
	out := make([]domain.Connection, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.entries[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.entries) }
