package core

import (
	"github.com/dkeye/voicehub/internal/domain"
)

// PublishResult reports delivery stats/backpressure to the transport.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnID
}

// RoomService is a broadcast group of connections.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Name() string
	MemberCount() int
	Members() []domain.ConnID

	AddMember(id domain.ConnID, sc SignalConnection)
	RemoveMember(id domain.ConnID) bool
	Broadcast(data Frame) PublishResult
}

type RoomInfo struct {
	Name        string `json:"name"`
	MemberCount int    `json:"client_count"`
}
