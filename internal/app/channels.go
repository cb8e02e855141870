package app

import (
	"cmp"
	"slices"

	"github.com/dkeye/voicehub/internal/domain"
	"github.com/rs/zerolog/log"
)

type channelState struct {
	order   []domain.UserID
	members map[domain.UserID]*domain.VoiceState
}

func (c *channelState) remove(uid domain.UserID) bool {
	if _, ok := c.members[uid]; !ok {
		return false
	}
	delete(c.members, uid)
	c.order = slices.DeleteFunc(c.order, func(id domain.UserID) bool { return id == uid })
	return true
}

// ChannelInfo is a listing row for one active voice channel.
type ChannelInfo struct {
	ChannelID   domain.ChannelID `json:"channelId"`
	MemberCount int              `json:"count"`
}

// ChannelIndex tracks who is in which voice channel and their flags.
// A channel exists only while it has at least one member.
// It is owned by the orchestrator loop and is not safe for concurrent use.
type ChannelIndex struct {
	channels map[domain.ChannelID]*channelState
}

func NewChannelIndex() *ChannelIndex {
	return &ChannelIndex{channels: make(map[domain.ChannelID]*channelState)}
}

// Join adds uid to ch with all flags false, then applies patch.
// Joining again resets the member's flags in place.
func (x *ChannelIndex) Join(ch domain.ChannelID, uid domain.UserID, patch domain.VoicePatch) domain.VoiceMember {
	c, ok := x.channels[ch]
	if !ok {
		c = &channelState{members: make(map[domain.UserID]*domain.VoiceState)}
		x.channels[ch] = c
		log.Debug().Str("module", "app.channels").Str("channel", string(ch)).Msg("channel created")
	}
	st := patch.Apply(domain.VoiceState{})
	if _, ok := c.members[uid]; !ok {
		c.order = append(c.order, uid)
	}
	c.members[uid] = &st
	log.Info().Str("module", "app.channels").Str("channel", string(ch)).Str("user", string(uid)).Msg("joined voice")
	return domain.VoiceMember{UserID: uid, VoiceState: st}
}

// Leave is idempotent. It reports whether uid was a member.
func (x *ChannelIndex) Leave(ch domain.ChannelID, uid domain.UserID) bool {
	c, ok := x.channels[ch]
	if !ok || !c.remove(uid) {
		return false
	}
	x.gc(ch, c)
	log.Info().Str("module", "app.channels").Str("channel", string(ch)).Str("user", string(uid)).Msg("left voice")
	return true
}

func (x *ChannelIndex) SetFlag(ch domain.ChannelID, uid domain.UserID, flag domain.VoiceFlag, v bool) bool {
	c, ok := x.channels[ch]
	if !ok {
		return false
	}
	st, ok := c.members[uid]
	if !ok {
		return false
	}
	return st.Set(flag, v)
}

// Members lists the roster in join order. Never nil.
func (x *ChannelIndex) Members(ch domain.ChannelID) []domain.VoiceMember {
	c, ok := x.channels[ch]
	if !ok {
		return []domain.VoiceMember{}
	}
	out := make([]domain.VoiceMember, 0, len(c.order))
	for _, uid := range c.order {
		out = append(out, domain.VoiceMember{UserID: uid, VoiceState: *c.members[uid]})
	}
	return out
}

func (x *ChannelIndex) MemberCount(ch domain.ChannelID) int {
	if c, ok := x.channels[ch]; ok {
		return len(c.members)
	}
	return 0
}

func (x *ChannelIndex) Has(ch domain.ChannelID) bool {
	_, ok := x.channels[ch]
	return ok
}

func (x *ChannelIndex) IsMember(ch domain.ChannelID, uid domain.UserID) bool {
	c, ok := x.channels[ch]
	if !ok {
		return false
	}
	_, ok = c.members[uid]
	return ok
}

// RemoveUserFromAllChannels drops uid everywhere and returns the affected
// channels in sorted order.
func (x *ChannelIndex) RemoveUserFromAllChannels(uid domain.UserID) []domain.ChannelID {
	var removed []domain.ChannelID
	for ch, c := range x.channels {
		if c.remove(uid) {
			removed = append(removed, ch)
			x.gc(ch, c)
		}
	}
	slices.Sort(removed)
	if len(removed) > 0 {
		log.Info().Str("module", "app.channels").Str("user", string(uid)).Int("channels", len(removed)).Msg("removed from all voice channels")
	}
	return removed
}

// Channels lists active channels sorted by id.
func (x *ChannelIndex) Channels() []ChannelInfo {
	out := make([]ChannelInfo, 0, len(x.channels))
	for ch, c := range x.channels {
		out = append(out, ChannelInfo{ChannelID: ch, MemberCount: len(c.members)})
	}
	slices.SortFunc(out, func(a, b ChannelInfo) int { return cmp.Compare(a.ChannelID, b.ChannelID) })
	return out
}

func (x *ChannelIndex) gc(ch domain.ChannelID, c *channelState) {
	if len(c.members) == 0 {
		delete(x.channels, ch)
		log.Debug().Str("module", "app.channels").Str("channel", string(ch)).Msg("channel removed")
	}
}
