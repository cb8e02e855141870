package orch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dkeye/voicehub/internal/app"
	"github.com/dkeye/voicehub/internal/core"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrNoUserID         = errors.New("no user id for connection")
	ErrStopped          = errors.New("orchestrator stopped")
)

type EventKind int

const (
	// KindMessage is an inbound client event.
	KindMessage EventKind = iota
	KindConnect
	KindDisconnect
	kindQuery
)

// Event is one unit of work for the loop.
type Event struct {
	Kind EventKind
	Conn domain.ConnID
	Name string
	Data json.RawMessage

	query func()
}

func Connected(id domain.ConnID) Event    { return Event{Kind: KindConnect, Conn: id} }
func Disconnected(id domain.ConnID) Event { return Event{Kind: KindDisconnect, Conn: id} }

func Message(id domain.ConnID, name string, data json.RawMessage) Event {
	return Event{Kind: KindMessage, Conn: id, Name: name, Data: data}
}

type handlerFunc func(conn domain.ConnID, data json.RawMessage) error

// Orchestrator owns the registry and the channel index. Every mutation and
// every read of them happens on the goroutine running Run, or on the caller
// of Handle when no loop is running.
type Orchestrator struct {
	Registry  *app.Registry
	Channels  *app.ChannelIndex
	Presence  *app.Broadcaster
	Relay     *app.Relay
	Transport core.Transport

	conns    map[domain.ConnID]*connState
	handlers map[string]handlerFunc
	validate *validator.Validate

	queue   chan Event
	stopped chan struct{}
}

func New(tr core.Transport, queueSize int) *Orchestrator {
	if queueSize <= 0 {
		queueSize = 1
	}
	reg := app.NewRegistry()
	idx := app.NewChannelIndex()
	o := &Orchestrator{
		Registry:  reg,
		Channels:  idx,
		Presence:  app.NewBroadcaster(reg, idx, tr),
		Relay:     app.NewRelay(reg, tr),
		Transport: tr,
		conns:     make(map[domain.ConnID]*connState),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		queue:     make(chan Event, queueSize),
		stopped:   make(chan struct{}),
	}
	o.routes()
	return o
}

func (o *Orchestrator) routes() {
	o.handlers = map[string]handlerFunc{
		core.EvUserConnect:      o.onIdentify,
		core.EvUserStatus:       o.onStatus,
		core.EvUserUpdateStatus: o.onStatus,
		core.EvWhoAmI:           o.onWhoAmI,
		core.EvPing:             o.onPing,
		core.EvChannelJoin:      o.onChannelJoin,
		core.EvChannelLeave:     o.onChannelLeave,
		core.EvVoiceJoin:        o.onVoiceJoin,
		core.EvVoiceLeave:       o.onVoiceLeave,
		core.EvVoiceMute:        o.flagHandler(domain.FlagMuted),
		core.EvVoiceDeafen:      o.flagHandler(domain.FlagDeafened),
		core.EvVoiceVideo:       o.flagHandler(domain.FlagVideo),
		core.EvVoiceGetUsers:    o.onGetUsers,
		core.EvSpeakingStart:    o.speakingHandler(true),
		core.EvSpeakingEnd:      o.speakingHandler(false),
	}
	for _, k := range []app.SignalKind{app.KindOffer, app.KindAnswer, app.KindICECandidate, app.KindSignal} {
		o.handlers[k.Event()] = o.signalHandler(k)
	}
}

// Run consumes the queue until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.stopped)
	log.Info().Str("module", "orch").Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("event loop stopped")
			return ctx.Err()
		case ev := <-o.queue:
			o.Handle(ev)
		}
	}
}

// Enqueue blocks until the loop accepts ev, ctx is done or the loop stops.
// A full queue slows the producer down instead of losing the event.
func (o *Orchestrator) Enqueue(ctx context.Context, ev Event) error {
	select {
	case <-o.stopped:
		return ErrStopped
	default:
	}
	select {
	case o.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.stopped:
		return ErrStopped
	}
}

// Query runs fn on the loop goroutine and waits for it.
func (o *Orchestrator) Query(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	ev := Event{Kind: kindQuery, query: func() {
		defer close(done)
		fn()
	}}
	if err := o.Enqueue(ctx, ev); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.stopped:
		return ErrStopped
	}
}

// Handle processes one event synchronously.
func (o *Orchestrator) Handle(ev Event) {
	defer o.recoverPanic(ev.Conn, ev.Name)

	switch ev.Kind {
	case KindConnect:
		o.onConnect(ev.Conn)
	case KindDisconnect:
		o.onDisconnect(ev.Conn)
	case kindQuery:
		ev.query()
	case KindMessage:
		h, ok := o.handlers[ev.Name]
		if !ok {
			log.Warn().Str("module", "orch").Str("conn", string(ev.Conn)).Str("event", ev.Name).Msg("unknown event")
			return
		}
		if err := h(ev.Conn, ev.Data); err != nil {
			o.logHandlerError(ev, err)
		}
	}
}

func (o *Orchestrator) logHandlerError(ev Event, err error) {
	l := log.With().Str("module", "orch").Str("conn", string(ev.Conn)).Str("event", ev.Name).Logger()
	switch {
	case errors.Is(err, ErrMalformedPayload):
		l.Warn().Err(err).Msg("dropped malformed payload")
	case errors.Is(err, app.ErrUnknownTarget), errors.Is(err, app.ErrSelfTarget), errors.Is(err, app.ErrUnknownSender):
		l.Info().Err(err).Msg("signal not relayed")
	default:
		l.Warn().Err(err).Msg("event dropped")
	}
}

func (o *Orchestrator) recoverPanic(conn domain.ConnID, name string) {
	if r := recover(); r != nil {
		log.Error().
			Str("module", "orch").
			Str("conn", string(conn)).
			Str("event", name).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("handler panic recovered")
	}
}

// step runs one cleanup step so that a panic in it does not skip the rest.
func (o *Orchestrator) step(conn domain.ConnID, name string, fn func()) {
	defer o.recoverPanic(conn, name)
	fn()
}

func (o *Orchestrator) decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := o.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
