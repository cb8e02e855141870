package app

import (
	"testing"

	"github.com/dkeye/voicehub/internal/domain"
)

func TestRegistryRegisterDefaultsStatus(t *testing.T) {
	r := NewRegistry()
	c := r.Register("c1", domain.User{ID: "alice", Username: "Alice"})
	if c.Status != domain.StatusOnline {
		t.Fatalf("status = %q, want online", c.Status)
	}
	if got, ok := r.Get("c1"); !ok || got.ID != "alice" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
}

func TestRegistryOverwriteKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", domain.User{ID: "alice"})
	r.Register("c2", domain.User{ID: "bob"})
	r.Register("c1", domain.User{ID: "alice", Username: "Alice", Status: domain.StatusDND})

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[0].ConnectionID != "c1" || snap[0].Status != domain.StatusDND || snap[0].Username != "Alice" {
		t.Fatalf("first entry = %+v", snap[0])
	}
}

func TestRegistryUpdateStatusUnknown(t *testing.T) {
	r := NewRegistry()
	if r.UpdateStatus("nope", domain.StatusIdle) {
		t.Fatal("update on unknown connection reported success")
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d, want 0", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", domain.User{ID: "alice"})
	if _, ok := r.Remove("c1"); !ok {
		t.Fatal("remove failed")
	}
	if _, ok := r.Remove("c1"); ok {
		t.Fatal("second remove reported success")
	}
	if s := r.Snapshot(); s == nil || len(s) != 0 {
		t.Fatalf("snapshot = %#v, want empty non-nil", s)
	}
}

func TestRegistryFindByUserIDLastWins(t *testing.T) {
	r := NewRegistry()
	r.Register("tab1", domain.User{ID: "alice"})
	r.Register("other", domain.User{ID: "bob"})
	r.Register("tab2", domain.User{ID: "alice"})

	c, ok := r.FindByUserID("alice")
	if !ok || c.ConnectionID != "tab2" {
		t.Fatalf("FindByUserID = %v, %v; want tab2", c.ConnectionID, ok)
	}

	r.Remove("tab2")
	c, ok = r.FindByUserID("alice")
	if !ok || c.ConnectionID != "tab1" {
		t.Fatalf("after remove FindByUserID = %v, %v; want tab1", c.ConnectionID, ok)
	}

	if _, ok := r.FindByUserID("carol"); ok {
		t.Fatal("found a user that never connected")
	}
}
