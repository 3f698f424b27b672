package event

import (
	"log/slog"
	"sync"
)

// Kind identifies an event category on the bus.
//
// Kinds replace loosely-typed string event names: a subscription names a
// Kind, and a publish delivers only to handlers registered for that Kind.
type Kind int

const (
	// KindAttach signals a layer being attached to a movie.
	// Payload: the movie reference.
	KindAttach Kind = iota + 1

	// KindChange signals a tracked public field mutation on a layer.
	KindChange

	// KindChangeModify is a layer change re-published on the owning movie,
	// carrying a type suffix naming the changed property group.
	KindChangeModify

	// KindLayerStart signals that playback entered a layer's time window.
	KindLayerStart

	// KindLayerStop signals that playback left a layer's time window.
	KindLayerStop

	// KindSeek signals a movie seek. Payload: the new clock time.
	KindSeek

	// KindAudioDestination signals an audio-graph destination change.
	// Payload: the new destination.
	KindAudioDestination

	// KindEffectAttach signals an effect being added to a layer.
	KindEffectAttach
)

// String returns the dotted event name historically used on the wire.
func (k Kind) String() string {
	switch k {
	case KindAttach:
		return "layer.attach"
	case KindChange:
		return "layer.change"
	case KindChangeModify:
		return "layer.change.modify"
	case KindLayerStart:
		return "layer.start"
	case KindLayerStop:
		return "layer.stop"
	case KindSeek:
		return "movie.seek"
	case KindAudioDestination:
		return "movie.audiodestinationupdate"
	case KindEffectAttach:
		return "effect.attach"
	default:
		return "unknown"
	}
}

// Event is a single bus notification.
type Event struct {
	// Kind categorizes the event.
	Kind Kind

	// Target is the object the event is addressed to. Subscriptions with a
	// matching target (or a nil wildcard target) receive it.
	Target any

	// Source identifies the object that originally raised the event.
	// Preserved through re-publication: a forwarder must not overwrite an
	// already-recorded source.
	Source any

	// TypeSuffix scopes KindChangeModify events to a property group.
	TypeSuffix string

	// Payload carries kind-specific data.
	Payload any
}

// Handler consumes a delivered event.
type Handler func(Event)

// Subscription identifies a registered handler for later removal.
type Subscription struct {
	id   int64
	kind Kind
}

// Bus is a movie-scoped publish/subscribe hub.
//
// There is no process-wide bus: each movie owns one, and every subscription
// is an explicit handle that can be released on layer detach.
//
// Delivery is synchronous and in subscription order. Publishing from inside
// a handler is allowed: re-entrant events are queued and delivered after the
// current delivery completes, so handlers never observe interleaved delivery.
type Bus struct {
	mu         sync.Mutex
	nextID     int64
	subs       map[Kind][]*subscriber
	pending    *eventQueue
	delivering bool
}

type subscriber struct {
	id     int64
	target any
	fn     Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs:    make(map[Kind][]*subscriber),
		pending: newEventQueue(),
	}
}

// Subscribe registers a handler for events of the given kind addressed to
// target. A nil target receives every event of that kind.
func (b *Bus) Subscribe(target any, kind Kind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[kind] = append(b.subs[kind], &subscriber{
		id:     b.nextID,
		target: target,
		fn:     fn,
	})
	return Subscription{id: b.nextID, kind: kind}
}

// Unsubscribe removes a previously registered handler.
// Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subs[sub.kind]
	for i, h := range handlers {
		if h.id == sub.id {
			b.subs[sub.kind] = append(handlers[:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to all matching subscribers.
//
// When called from within a handler the event is queued and delivered once
// the outer publish finishes, preserving whole-event ordering.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	b.pending.Enqueue(ev)
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		next, ok := b.pending.TryDequeue()
		if !ok {
			b.delivering = false
			b.mu.Unlock()
			return
		}
		handlers := b.matching(next)
		b.mu.Unlock()

		slog.Debug("event delivered",
			"kind", next.Kind.String(),
			"suffix", next.TypeSuffix,
			"handlers", len(handlers),
		)

		for _, h := range handlers {
			h(next)
		}
	}
}

// matching snapshots the handlers for an event in subscription order.
// Caller must hold b.mu.
func (b *Bus) matching(ev Event) []Handler {
	var out []Handler
	for _, s := range b.subs[ev.Kind] {
		if s.target == nil || s.target == ev.Target {
			out = append(out, s.fn)
		}
	}
	return out
}
