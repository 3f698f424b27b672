package layer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kinema-dev/kinema/internal/event"
	"github.com/kinema-dev/kinema/internal/media"
	"github.com/kinema-dev/kinema/internal/observe"
	"github.com/kinema-dev/kinema/internal/prop"
)

// Movie is the container a layer attaches to: the shared playback clock,
// fallback sizing, the movie-scoped event bus, and the audio destination.
type Movie interface {
	CurrentTime() float64
	Size() (w, h float64)
	Bus() *event.Bus
	AudioDestination() media.Destination
}

// Child is the contract a movie drives each tick.
// All layer kinds embed Layer and satisfy it.
type Child interface {
	Base() *Layer
	Attach(m Movie) error
	Detach()

	// Render runs the layer's per-tick work at the given relative time.
	// For visual layers this is the begin/do/end pipeline; for audio it is
	// media synchronization only.
	Render(reltime float64) error
}

// Effect is a composable post-processing step applied to a layer's rendered
// output. Effects are applied in list order, each receiving the owning
// movie's current time minus the layer's start time.
type Effect interface {
	Apply(target Child, reltime float64) error
}

// Layer is the shared lifecycle state of every layer kind.
//
// Lifecycle: Constructed -> Attached -> {Inactive <-> Active}. There is no
// terminal state; a layer persists until its movie discards it, and Detach
// releases its event subscriptions.
//
// A layer's public properties live in an observe.Tracker table; every
// property may be a constant, a function of time, or a keyframe set, and
// its variant is fixed when assigned (prop.Classify).
type Layer struct {
	id       uuid.UUID
	kind     string
	start    float64
	duration float64
	active   bool

	movie Movie
	self  Child

	effects []Effect
	tracker *observe.Tracker
	props   *observe.Node
	specs   map[string]prop.Spec
	subs    []event.Subscription

	// timelineChanged runs after start or duration moves; the playable
	// capability uses it to re-derive the media position.
	timelineChanged func()
}

// baseExclusions lists root-level fields that never emit change events.
// Subtypes extend this set additively via observe.MergeExclusions.
func baseExclusions() map[string]bool {
	return map[string]bool{"id": true}
}

// initLayer builds the shared layer state from merged options. It runs on
// the embedded Layer of the concrete kind so that the tracker's publisher
// is the field the movie will later bind; initializing a detached Layer and
// copying it afterward would leave the tracker pointing at the original.
func (l *Layer) initLayer(kind string, merged Options, exclude map[string]bool) error {
	l.kind = kind
	l.specs = make(map[string]prop.Spec)

	id, err := optionID(kind, merged)
	if err != nil {
		return err
	}
	l.id = id

	l.start, err = floatOption(merged, "start", 0)
	if err != nil {
		return badOption(kind, err)
	}
	l.duration, err = floatOption(merged, "duration", 0)
	if err != nil {
		return badOption(kind, err)
	}
	if l.duration < 0 {
		return NewInvalidDurationError(kind, l.duration)
	}

	l.tracker = observe.NewTracker(l, exclude)
	l.props = l.tracker.Root()

	// Install every recognized option as a tracked property with its
	// initial value. Installation never emits.
	for name, v := range merged {
		if name == "id" {
			continue
		}
		l.specs[name] = prop.Classify(v)
		l.props.Init(name, v)
	}

	return nil
}

// optionID reads the "id" option (string or uuid.UUID), minting a UUIDv7
// when absent.
func optionID(kind string, o Options) (uuid.UUID, error) {
	v, ok := o["id"]
	if !ok || v == nil {
		return uuid.Must(uuid.NewV7()), nil
	}
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, NewInvalidValueError(kind, "id", fmt.Sprintf("not a UUID: %v", err))
		}
		return parsed, nil
	default:
		return uuid.Nil, NewInvalidValueError(kind, "id", fmt.Sprintf("unsupported id type %T", v))
	}
}

// badOption rebinds a loose option error to the layer kind.
func badOption(kind string, err error) error {
	var ce *ConfigurationError
	if errors.As(err, &ce) && ce.Layer == "" {
		ce.Layer = kind
	}
	return err
}

// ID returns the layer's identity.
func (l *Layer) ID() uuid.UUID { return l.id }

// Kind returns the layer kind name ("text", "image", "video", "audio").
func (l *Layer) Kind() string { return l.kind }

// Base returns the layer itself, satisfying Child for embedders.
func (l *Layer) Base() *Layer { return l }

// StartTime returns the layer's position on the movie timeline.
func (l *Layer) StartTime() float64 { return l.start }

// SetStartTime moves the layer on the timeline.
// For playable layers this immediately re-derives the media position.
func (l *Layer) SetStartTime(t float64) {
	l.start = t
	l.props.Set("start", t)
	l.specs["start"] = prop.Classify(t)
	if l.timelineChanged != nil {
		l.timelineChanged()
	}
}

// Duration returns the length of the layer's time window.
func (l *Layer) Duration() float64 { return l.duration }

// SetDuration changes the layer's window length.
func (l *Layer) SetDuration(d float64) error {
	if d < 0 {
		return NewInvalidDurationError(l.kind, d)
	}
	l.duration = d
	l.props.Set("duration", d)
	l.specs["duration"] = prop.Classify(d)
	return nil
}

// setDurationDerived installs a media-derived duration without emitting.
func (l *Layer) setDurationDerived(d float64) {
	l.duration = d
	l.props.Init("duration", d)
	l.specs["duration"] = prop.Classify(d)
}

// Active reports whether the layer rendered on the last tick.
// The flag is system-assigned by the owning movie.
func (l *Layer) Active() bool { return l.active }

// SetActive records the layer's active state for the current tick.
func (l *Layer) SetActive(a bool) { l.active = a }

// InWindow reports whether a movie time falls inside the layer's window.
func (l *Layer) InWindow(t float64) bool {
	rel := t - l.start
	return rel >= 0 && rel < l.duration
}

// Movie returns the owning movie, or nil before attachment.
func (l *Layer) Movie() Movie { return l.movie }

// Attach stores the movie reference and wires change forwarding.
// The movie publishes the attach event; the layer only records state.
func (l *Layer) Attach(m Movie) error {
	if l.movie != nil {
		return fmt.Errorf("layer %s already attached", l.id)
	}
	l.movie = m
	l.active = false

	// Change events raised on this layer re-publish on the movie with the
	// event type rewritten to a movie-scoped layer change.
	sub := m.Bus().Subscribe(l.identity(), event.KindChange, l.forwardChange)
	l.subs = append(l.subs, sub)

	slog.Debug("layer attached", "layer", l.id, "kind", l.kind)
	return nil
}

// Detach releases the layer's subscriptions and clears the movie reference.
func (l *Layer) Detach() {
	if l.movie == nil {
		return
	}
	for _, sub := range l.subs {
		l.movie.Bus().Unsubscribe(sub)
	}
	l.subs = nil
	l.movie = nil
	l.active = false
	slog.Debug("layer detached", "layer", l.id, "kind", l.kind)
}

// addSubscription records a bus subscription for release on Detach.
func (l *Layer) addSubscription(sub event.Subscription) {
	l.subs = append(l.subs, sub)
}

// identity is the value layer-addressed events target: the bound concrete
// layer, so the movie and outside subscribers address the same object.
func (l *Layer) identity() any {
	if l.self != nil {
		return l.self
	}
	return l
}

// PublishChange implements observe.Publisher: a tracked mutation becomes a
// change event on the layer, which forwardChange then re-publishes upward.
func (l *Layer) PublishChange(ev observe.ChangeEvent) {
	if l.movie == nil {
		return
	}
	l.movie.Bus().Publish(event.Event{
		Kind:    event.KindChange,
		Target:  l.identity(),
		Source:  l.identity(),
		Payload: ev,
	})
}

// forwardChange re-publishes a layer change on the owning movie, scoped as
// a movie-level layer change. An already-recorded source is preserved.
func (l *Layer) forwardChange(ev event.Event) {
	if l.movie == nil {
		return
	}
	source := ev.Source
	if source == nil {
		source = l.identity()
	}
	change, _ := ev.Payload.(observe.ChangeEvent)
	l.movie.Bus().Publish(event.Event{
		Kind:       event.KindChangeModify,
		Target:     l.movie,
		Source:     source,
		TypeSuffix: pathHead(change.Property),
		Payload:    change,
	})
}

// pathHead returns the first segment of a dotted property path.
func pathHead(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// SetProperty assigns a public property. The value's variant (constant,
// function, keyframe set) is fixed here, at assignment time.
func (l *Layer) SetProperty(name string, v any) {
	l.specs[name] = prop.Classify(v)
	l.props.Set(name, v)
}

// setPropertyDerived installs a derived default without emitting.
func (l *Layer) setPropertyDerived(name string, v any) {
	l.specs[name] = prop.Classify(v)
	l.props.Init(name, v)
}

// Property returns a public property's raw (unresolved) value.
func (l *Layer) Property(name string) (any, bool) {
	return l.props.Get(name)
}

// Props returns the layer's tracked property table.
func (l *Layer) Props() *observe.Node {
	return l.props
}

// Resolve computes a property's concrete value at a relative time.
func (l *Layer) Resolve(name string, reltime float64) (any, error) {
	spec, ok := l.specs[name]
	if !ok {
		return nil, nil
	}
	owner := any(l.self)
	if l.self == nil {
		owner = l
	}
	v, err := prop.Resolve(spec, owner, reltime)
	if err != nil {
		return nil, fmt.Errorf("resolve %s.%s: %w", l.kind, name, err)
	}
	return v, nil
}

// ResolveFloat resolves a numeric property, substituting fallback when the
// property is absent or resolves to nil.
func (l *Layer) ResolveFloat(name string, reltime, fallback float64) (float64, error) {
	v, err := l.Resolve(name, reltime)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return fallback, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, NewInvalidValueError(l.kind, name, fmt.Sprintf("resolved to non-number %T", v))
	}
	return f, nil
}

// AddEffect appends an effect to the layer's list.
// The layer exclusively owns its effects; they apply in list order.
func (l *Layer) AddEffect(e Effect) {
	l.effects = append(l.effects, e)
	if l.movie != nil {
		l.movie.Bus().Publish(event.Event{
			Kind:    event.KindEffectAttach,
			Target:  l.identity(),
			Source:  l.identity(),
			Payload: e,
		})
	}
}

// Effects returns the layer's effect list in application order.
func (l *Layer) Effects() []Effect {
	return l.effects
}

// applyEffects runs the effect list against the layer's rendered output.
// The relative time handed to effects is the same value the render pipeline
// ran with: both derive from movie time minus start time, computed once.
func (l *Layer) applyEffects(reltime float64) error {
	for i, e := range l.effects {
		if err := e.Apply(l.self, reltime); err != nil {
			return fmt.Errorf("effect %d on %s: %w", i, l.kind, err)
		}
	}
	return nil
}

// bind records the concrete layer so promoted base methods can hand the
// full value to effects and property functions.
func (l *Layer) bind(self Child) {
	l.self = self
}
