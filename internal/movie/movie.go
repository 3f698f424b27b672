package movie

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kinema-dev/kinema/internal/event"
	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/media"
	"github.com/kinema-dev/kinema/internal/observe"
)

// Recorder persists the tick-by-tick history of a movie: property changes
// and per-layer frame activity. The journal package provides the SQLite
// implementation.
type Recorder interface {
	RecordChange(time float64, layerID uuid.UUID, property string, value any) error
	RecordFrame(time float64, layerID uuid.UUID, active bool) error
}

// IDGenerator mints movie identities. The default produces UUIDv7 so
// identities sort by creation time; tests substitute a fixed generator.
type IDGenerator interface {
	NewID() (uuid.UUID, error)
}

type uuidV7Generator struct{}

func (uuidV7Generator) NewID() (uuid.UUID, error) { return uuid.NewV7() }

// Movie is the container that owns the playback clock, the layer list,
// and the per-movie event bus. All methods run in the caller's goroutine;
// the movie is a single-writer structure like the rest of the engine.
type Movie struct {
	id  uuid.UUID
	bus *event.Bus

	currentTime float64
	w, h        float64

	layers []layer.Child
	dst    media.Destination
	rec    Recorder
}

// Option configures a movie at construction.
type Option func(*config)

type config struct {
	w, h float64
	rec  Recorder
	gen  IDGenerator
}

// WithSize sets the fallback dimensions visual layers inherit when their
// own width or height is unset.
func WithSize(w, h float64) Option {
	return func(c *config) { c.w, c.h = w, h }
}

// WithJournal records every property change and frame tick.
func WithJournal(rec Recorder) Option {
	return func(c *config) { c.rec = rec }
}

// WithIDGenerator overrides movie identity minting.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *config) { c.gen = gen }
}

// New constructs an empty movie.
func New(opts ...Option) (*Movie, error) {
	cfg := config{gen: uuidV7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	id, err := cfg.gen.NewID()
	if err != nil {
		return nil, fmt.Errorf("mint movie id: %w", err)
	}

	m := &Movie{
		id:  id,
		bus: event.NewBus(),
		w:   cfg.w,
		h:   cfg.h,
		rec: cfg.rec,
	}

	if m.rec != nil {
		// Layer changes arrive movie-scoped; the journal sees them all.
		m.bus.Subscribe(m, event.KindChangeModify, m.journalChange)
	}
	return m, nil
}

// ID returns the movie's identity.
func (m *Movie) ID() uuid.UUID { return m.id }

// CurrentTime implements layer.Movie.
func (m *Movie) CurrentTime() float64 { return m.currentTime }

// Size implements layer.Movie.
func (m *Movie) Size() (float64, float64) { return m.w, m.h }

// Bus implements layer.Movie.
func (m *Movie) Bus() *event.Bus { return m.bus }

// AudioDestination implements layer.Movie.
func (m *Movie) AudioDestination() media.Destination { return m.dst }

// SetAudioDestination swaps the shared audio sink. Playable layers
// reconnect in response to the published event.
func (m *Movie) SetAudioDestination(dst media.Destination) {
	m.dst = dst
	m.bus.Publish(event.Event{
		Kind:    event.KindAudioDestination,
		Target:  m,
		Source:  m,
		Payload: dst,
	})
}

// Layers returns the layer list in composition order.
func (m *Movie) Layers() []layer.Child { return m.layers }

// LayerByID finds an owned layer, or nil.
func (m *Movie) LayerByID(id uuid.UUID) layer.Child {
	for _, c := range m.layers {
		if c.Base().ID() == id {
			return c
		}
	}
	return nil
}

// AddLayer attaches a layer and appends it to the composition order.
func (m *Movie) AddLayer(c layer.Child) error {
	if err := c.Attach(m); err != nil {
		return fmt.Errorf("add layer: %w", err)
	}
	m.layers = append(m.layers, c)
	m.bus.Publish(event.Event{
		Kind:    event.KindAttach,
		Target:  c,
		Source:  m,
		Payload: m,
	})
	slog.Debug("layer added", "movie", m.id, "layer", c.Base().ID(), "kind", c.Base().Kind())
	return nil
}

// RemoveLayer detaches a layer and drops it from the composition order.
// Removing a layer the movie does not own is a no-op.
func (m *Movie) RemoveLayer(c layer.Child) {
	for i, owned := range m.layers {
		if owned == c {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			c.Detach()
			slog.Debug("layer removed", "movie", m.id, "layer", c.Base().ID())
			return
		}
	}
}

// Tick advances the clock and runs every layer's state machine: window
// transitions publish start/stop, active layers render at their relative
// time, and the journal (when present) records frame activity.
func (m *Movie) Tick(t float64) error {
	m.currentTime = t
	m.transition(t)
	return m.renderActive(t)
}

// Seek moves the clock without continuous playback between the old and
// new positions. Window transitions fire first, then the seek event so
// media layers land on the seek target rather than their window start.
func (m *Movie) Seek(t float64) error {
	m.currentTime = t
	m.transition(t)
	m.bus.Publish(event.Event{
		Kind:    event.KindSeek,
		Target:  m,
		Source:  m,
		Payload: t,
	})
	return m.renderActive(t)
}

// PlayRange ticks the clock from from to to inclusive in step increments,
// the driver loop used by the CLI and the scenario harness.
func (m *Movie) PlayRange(from, to, step float64) error {
	if step <= 0 {
		return fmt.Errorf("play range: step %g is not positive", step)
	}
	for t := from; t <= to+step/2; t += step {
		if err := m.Tick(t); err != nil {
			return err
		}
	}
	return nil
}

// transition flips layers across their window edges, publishing the
// start and stop events playable layers key on.
func (m *Movie) transition(t float64) {
	for _, c := range m.layers {
		base := c.Base()
		in := base.InWindow(t)
		switch {
		case in && !base.Active():
			base.SetActive(true)
			m.bus.Publish(event.Event{Kind: event.KindLayerStart, Target: c, Source: m})
		case !in && base.Active():
			base.SetActive(false)
			m.bus.Publish(event.Event{Kind: event.KindLayerStop, Target: c, Source: m})
		}
	}
}

// renderActive runs the render pipeline of every active layer and records
// frame activity for all layers.
func (m *Movie) renderActive(t float64) error {
	for _, c := range m.layers {
		base := c.Base()
		if base.Active() {
			if err := c.Render(t - base.StartTime()); err != nil {
				return fmt.Errorf("render layer %s: %w", base.ID(), err)
			}
		}
		if m.rec != nil {
			if err := m.rec.RecordFrame(t, base.ID(), base.Active()); err != nil {
				return fmt.Errorf("journal frame: %w", err)
			}
		}
	}
	return nil
}

// journalChange records a movie-scoped property change.
func (m *Movie) journalChange(ev event.Event) {
	change, ok := ev.Payload.(observe.ChangeEvent)
	if !ok {
		return
	}
	var layerID uuid.UUID
	if src, ok := ev.Source.(interface{ Base() *layer.Layer }); ok {
		layerID = src.Base().ID()
	}
	if err := m.rec.RecordChange(m.currentTime, layerID, change.Property, change.NewValue); err != nil {
		slog.Warn("journal change failed",
			"movie", m.id,
			"layer", layerID,
			"property", change.Property,
			"error", err,
		)
	}
}
