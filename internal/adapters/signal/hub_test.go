package signal

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/voicehub/internal/app"
	"github.com/dkeye/voicehub/internal/core"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrConnClosed
	}
	if f.full {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) events(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, fr := range f.frames {
		env, err := decode(fr)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, env.Event)
	}
	return out
}

func TestHubEmitScopes(t *testing.T) {
	h := NewHub(nil)
	a, b := &fakeConn{}, &fakeConn{}
	h.Attach("a", a)
	h.Attach("b", b)
	h.Join("a", "voice:general")

	h.EmitAll("users:update", []string{})
	h.EmitRoom("voice:general", "voice:update", []string{})
	h.Emit("b", "pong", struct{}{})
	h.EmitRoom("voice:nowhere", "voice:update", nil)

	if got := a.events(t); len(got) != 2 || got[0] != "users:update" || got[1] != "voice:update" {
		t.Fatalf("a got %v", got)
	}
	if got := b.events(t); len(got) != 2 || got[0] != "users:update" || got[1] != "pong" {
		t.Fatalf("b got %v", got)
	}
}

func TestHubFrameFormat(t *testing.T) {
	h := NewHub(nil)
	a := &fakeConn{}
	h.Attach("a", a)
	h.Emit("a", "voice:user-count", app.ChannelCount{ChannelID: "general", Count: 2})

	var got struct {
		Event string `json:"event"`
		Data  struct {
			ChannelID string `json:"channelId"`
			Count     int    `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(a.frames[0], &got); err != nil {
		t.Fatal(err)
	}
	if got.Event != "voice:user-count" || got.Data.ChannelID != "general" || got.Data.Count != 2 {
		t.Fatalf("frame = %s", a.frames[0])
	}
}

func TestHubDetachGCsRooms(t *testing.T) {
	h := NewHub(nil)
	a := &fakeConn{}
	h.Attach("a", a)
	h.Join("a", "general")
	h.Join("a", "voice:general")
	if len(h.Rooms()) != 2 {
		t.Fatalf("rooms = %+v", h.Rooms())
	}
	h.Detach("a")
	if len(h.Rooms()) != 0 || h.Len() != 0 {
		t.Fatalf("rooms = %+v len = %d", h.Rooms(), h.Len())
	}
	// Joining after detach is ignored.
	h.Join("a", "general")
	if len(h.Rooms()) != 0 {
		t.Fatal("room created for detached connection")
	}
}

func TestHubBackpressurePolicies(t *testing.T) {
	drop := NewHub(app.SimplePolicy{Action: app.DropFrame})
	slow := &fakeConn{full: true}
	drop.Attach("slow", slow)
	drop.EmitAll("users:update", nil)
	if slow.closed {
		t.Fatal("drop policy closed the connection")
	}

	kick := NewHub(app.SimplePolicy{Action: app.KickMember})
	slow2, fast := &fakeConn{full: true}, &fakeConn{}
	kick.Attach("slow", slow2)
	kick.Attach("fast", fast)
	kick.Join("slow", "voice:general")
	kick.Join("fast", "voice:general")
	kick.EmitRoom("voice:general", "voice:update", nil)
	if !slow2.closed {
		t.Fatal("kick policy left the slow connection open")
	}
	if fast.closed || len(fast.events(t)) != 1 {
		t.Fatal("fast connection affected")
	}
}

func TestConnRateLimiter(t *testing.T) {
	rl := NewConnRateLimiter(0.001, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("event %d refused within burst", i)
		}
	}
	if rl.Allow() {
		t.Fatal("event allowed past burst")
	}
	if rl.Dropped() != 1 {
		t.Fatalf("dropped = %d", rl.Dropped())
	}
}
