package orch

import (
	"sync"

	"github.com/dkeye/voicehub/internal/domain"
)

type delivery struct {
	To      domain.ConnID
	Room    string
	Event   string
	Payload any
}

// fakeTransport records every emit and resolves rooms at emit time.
type fakeTransport struct {
	mu    sync.Mutex
	conns []domain.ConnID
	rooms map[string]map[domain.ConnID]struct{}
	sent  []delivery
}

func newFakeTransport(conns ...domain.ConnID) *fakeTransport {
	return &fakeTransport{conns: conns, rooms: make(map[string]map[domain.ConnID]struct{})}
}

func (f *fakeTransport) Emit(to domain.ConnID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, delivery{To: to, Event: event, Payload: payload})
}

func (f *fakeTransport) EmitAll(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		f.sent = append(f.sent, delivery{To: c, Event: event, Payload: payload})
	}
}

func (f *fakeTransport) EmitRoom(room string, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		if _, ok := f.rooms[room][c]; ok {
			f.sent = append(f.sent, delivery{To: c, Room: room, Event: event, Payload: payload})
		}
	}
}

func (f *fakeTransport) Join(id domain.ConnID, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rooms[room] == nil {
		f.rooms[room] = make(map[domain.ConnID]struct{})
	}
	f.rooms[room][id] = struct{}{}
}

func (f *fakeTransport) Leave(id domain.ConnID, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms[room], id)
}

func (f *fakeTransport) drop(id domain.ConnID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.conns {
		if c == id {
			f.conns = append(f.conns[:i], f.conns[i+1:]...)
			break
		}
	}
	for _, m := range f.rooms {
		delete(m, id)
	}
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func (f *fakeTransport) to(id domain.ConnID, event string) []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []delivery
	for _, d := range f.sent {
		if d.To == id && d.Event == event {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
