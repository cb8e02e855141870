package core

import "github.com/dkeye/voicehub/internal/domain"

//go:generate mockgen -destination=mocks/transport_mock.go -package=mocks github.com/dkeye/voicehub/internal/core Transport

// Transport is the room-capable pub/sub the coordinator talks to.
// All calls are fire-and-forget: a connection that is gone or too slow
// simply misses the event.
type Transport interface {
	// Emit delivers to exactly one connection.
	Emit(to domain.ConnID, event string, payload any)
	// EmitAll delivers to every attached connection.
	EmitAll(event string, payload any)
	// EmitRoom delivers to connections that joined room.
	EmitRoom(room string, event string, payload any)

	Join(id domain.ConnID, room string)
	Leave(id domain.ConnID, room string)
}
