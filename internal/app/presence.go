package app

import (
	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
)

// ChannelCount is the voice:user-count payload.
type ChannelCount struct {
	ChannelID domain.ChannelID `json:"channelId"`
	Count     int              `json:"count"`
}

// Broadcaster pushes full snapshots. It never diffs and never waits for acks.
type Broadcaster struct {
	reg *Registry
	idx *ChannelIndex
	tr  core.Transport
}

func NewBroadcaster(reg *Registry, idx *ChannelIndex, tr core.Transport) *Broadcaster {
	return &Broadcaster{reg: reg, idx: idx, tr: tr}
}

// GlobalPresence sends users:update with the whole registry to everyone.
func (b *Broadcaster) GlobalPresence() {
	b.tr.EmitAll(core.EvUsersUpdate, b.reg.Snapshot())
}

// ChannelPresence sends the voice:update roster to the channel's voice room.
func (b *Broadcaster) ChannelPresence(ch domain.ChannelID) {
	b.tr.EmitRoom(domain.VoiceRoom(ch), core.EvVoiceUpdate, b.Roster(ch))
}

func (b *Broadcaster) ChannelCount(ch domain.ChannelID) {
	b.tr.EmitRoom(domain.VoiceRoom(ch), core.EvVoiceUserCount, b.Count(ch))
}

func (b *Broadcaster) Count(ch domain.ChannelID) ChannelCount {
	return ChannelCount{ChannelID: ch, Count: b.idx.MemberCount(ch)}
}

// Roster is the member list of ch with usernames taken from the registry.
func (b *Broadcaster) Roster(ch domain.ChannelID) []domain.VoiceMember {
	members := b.idx.Members(ch)
	for i := range members {
		if c, ok := b.reg.FindByUserID(members[i].UserID); ok {
			members[i].Username = c.Username
		}
	}
	return members
}
