package app

import (
	"slices"
	"testing"

	"github.com/dkeye/voicehub/internal/domain"
)

func ptr(b bool) *bool { return &b }

func TestChannelJoinDefaultsAndPatch(t *testing.T) {
	x := NewChannelIndex()
	m := x.Join("general", "alice", domain.VoicePatch{IsMuted: ptr(true)})
	if !m.IsMuted || m.IsDeafened || m.HasVideo {
		t.Fatalf("member = %+v", m)
	}
	members := x.Members("general")
	if len(members) != 1 || members[0].UserID != "alice" || !members[0].IsMuted {
		t.Fatalf("members = %+v", members)
	}
}

func TestChannelRejoinOverwrites(t *testing.T) {
	x := NewChannelIndex()
	x.Join("general", "alice", domain.VoicePatch{IsMuted: ptr(true)})
	x.Join("general", "bob", domain.VoicePatch{})
	x.Join("general", "alice", domain.VoicePatch{HasVideo: ptr(true)})

	members := x.Members("general")
	if len(members) != 2 {
		t.Fatalf("len = %d, want 2", len(members))
	}
	if members[0].UserID != "alice" || members[0].IsMuted || !members[0].HasVideo {
		t.Fatalf("alice = %+v", members[0])
	}
}

func TestChannelGCOnLastLeave(t *testing.T) {
	x := NewChannelIndex()
	x.Join("general", "alice", domain.VoicePatch{})
	x.Join("general", "bob", domain.VoicePatch{})

	if !x.Leave("general", "alice") {
		t.Fatal("leave failed")
	}
	if !x.Has("general") {
		t.Fatal("channel removed while bob is still in it")
	}
	x.Leave("general", "bob")
	if x.Has("general") {
		t.Fatal("empty channel still present")
	}
	if got := x.Members("general"); got == nil || len(got) != 0 {
		t.Fatalf("members = %#v, want empty non-nil", got)
	}
}

func TestChannelLeaveIdempotent(t *testing.T) {
	x := NewChannelIndex()
	x.Join("general", "alice", domain.VoicePatch{})
	x.Leave("general", "alice")
	if x.Leave("general", "alice") {
		t.Fatal("second leave reported removal")
	}
	if x.Leave("nowhere", "alice") {
		t.Fatal("leave from unknown channel reported removal")
	}
	if x.Has("general") || len(x.Channels()) != 0 {
		t.Fatal("state changed after repeated leave")
	}
}

func TestChannelSetFlag(t *testing.T) {
	x := NewChannelIndex()
	if x.SetFlag("general", "alice", domain.FlagMuted, true) {
		t.Fatal("flag set on unknown channel")
	}
	x.Join("general", "alice", domain.VoicePatch{})
	if x.SetFlag("general", "bob", domain.FlagMuted, true) {
		t.Fatal("flag set on non-member")
	}
	if !x.SetFlag("general", "alice", domain.FlagDeafened, true) {
		t.Fatal("flag not set")
	}
	if m := x.Members("general")[0]; !m.IsDeafened || m.IsMuted {
		t.Fatalf("member = %+v", m)
	}
}

func TestRemoveUserFromAllChannels(t *testing.T) {
	x := NewChannelIndex()
	x.Join("b", "alice", domain.VoicePatch{})
	x.Join("a", "alice", domain.VoicePatch{})
	x.Join("a", "bob", domain.VoicePatch{})
	x.Join("c", "bob", domain.VoicePatch{})

	removed := x.RemoveUserFromAllChannels("alice")
	if !slices.Equal(removed, []domain.ChannelID{"a", "b"}) {
		t.Fatalf("removed = %v", removed)
	}
	if x.Has("b") {
		t.Fatal("channel b should be gone")
	}
	if x.MemberCount("a") != 1 || x.IsMember("a", "alice") {
		t.Fatal("alice still in a")
	}
	if got := x.RemoveUserFromAllChannels("alice"); len(got) != 0 {
		t.Fatalf("second removal = %v", got)
	}

	infos := x.Channels()
	if len(infos) != 2 || infos[0].ChannelID != "a" || infos[1].ChannelID != "c" {
		t.Fatalf("channels = %+v", infos)
	}
}
