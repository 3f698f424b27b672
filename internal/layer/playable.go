package layer

import (
	"fmt"
	"log/slog"

	"github.com/kinema-dev/kinema/internal/event"
	"github.com/kinema-dev/kinema/internal/media"
)

// playable is the capability shared by audio and video layers: it binds an
// external media resource and keeps its playback position, rate, volume,
// and audio routing synchronized with the movie clock.
//
// It is composed into both layer kinds as a field. The visual and
// non-visual playable layers share no base type; the behavior lives here
// once.
//
// Loading sub-states: Constructed -> Loading -> Ready. Ready is entered
// when the resource becomes decodable (checked synchronously if it already
// is). Only in Ready is the derived duration validated and the completion
// callback run. Render ticks before Ready are valid and produce nothing.
type playable struct {
	layer *Layer
	res   media.Resource

	mediaStart float64
	ready      bool

	// err records a fatal binding failure discovered after construction
	// (asynchronous readiness with a negative derived duration). It
	// surfaces on the next render tick.
	err error

	// completion runs once on Ready; subtypes use it to default size and
	// crop to the resource's native dimensions.
	completion func()
}

// playableDefaults enumerates the options the playable capability adds.
// A nil duration is derived from the resource once it is ready.
func playableDefaults() Options {
	return Options{
		"duration":     nil,
		"mediaStart":   0.0,
		"muted":        false,
		"volume":       1.0,
		"playbackRate": 1.0,
	}
}

// bind wires the capability to its layer and resource.
//
// An explicit negative duration option, or a negative duration derived
// from an already-ready resource, is a fatal construction error.
func (p *playable) bind(l *Layer, res media.Resource, merged Options) error {
	p.layer = l
	p.res = res

	ms, err := floatOption(merged, "mediaStart", 0)
	if err != nil {
		return badOption(l.kind, err)
	}
	p.mediaStart = ms

	infer := merged["duration"] == nil
	l.timelineChanged = p.syncToClock

	res.OnReady(func() { p.becomeReady(infer) })
	if p.err != nil {
		// The resource was ready synchronously and the derived duration
		// was impossible: fail construction.
		return p.err
	}
	return nil
}

// becomeReady transitions Loading -> Ready: derive and validate duration,
// then run the completion callback.
func (p *playable) becomeReady(inferDuration bool) {
	p.ready = true

	if inferDuration {
		derived := p.res.Duration() - p.mediaStart
		if derived < 0 {
			p.err = NewNegativeDerivedDurationError(p.layer.kind, derived)
			slog.Error("media binding failed",
				"layer", p.layer.id,
				"kind", p.layer.kind,
				"derived_duration", derived,
			)
			return
		}
		p.layer.setDurationDerived(derived)
	}

	if p.completion != nil {
		p.completion()
	}
	slog.Debug("media ready",
		"layer", p.layer.id,
		"kind", p.layer.kind,
		"duration", p.layer.duration,
	)
}

// attach subscribes to the movie's playback, seek, and audio-graph events
// and connects the resource to the shared audio destination.
func (p *playable) attach(m Movie) error {
	l := p.layer

	l.addSubscription(m.Bus().Subscribe(l.identity(), event.KindLayerStart, p.onStart))
	l.addSubscription(m.Bus().Subscribe(l.identity(), event.KindLayerStop, p.onStop))
	l.addSubscription(m.Bus().Subscribe(m, event.KindSeek, p.onSeek))
	l.addSubscription(m.Bus().Subscribe(m, event.KindAudioDestination, p.onDestination))

	if dst := m.AudioDestination(); dst != nil {
		if err := p.res.Connect(dst); err != nil {
			return fmt.Errorf("connect %s audio: %w", l.kind, err)
		}
	}
	return nil
}

// detach disconnects the resource's audio output. Subscription release is
// the base layer's job.
func (p *playable) detach() {
	if err := p.res.Disconnect(); err != nil {
		slog.Warn("audio disconnect failed", "layer", p.layer.id, "error", err)
	}
}

// onStart handles playback entering the layer's window: reset the resource
// to the media start offset and play.
func (p *playable) onStart(event.Event) {
	if !p.ready {
		return
	}
	if err := p.res.SetTime(p.mediaStart); err != nil {
		slog.Warn("media seek failed", "layer", p.layer.id, "error", err)
	}
	if err := p.res.Play(); err != nil {
		slog.Warn("media play failed", "layer", p.layer.id, "error", err)
	}
}

// onStop handles playback leaving the layer's window: pause and reset the
// resource to the media start offset.
func (p *playable) onStop(event.Event) {
	if !p.ready {
		return
	}
	if err := p.res.Pause(); err != nil {
		slog.Warn("media pause failed", "layer", p.layer.id, "error", err)
	}
	if err := p.res.SetTime(p.mediaStart); err != nil {
		slog.Warn("media seek failed", "layer", p.layer.id, "error", err)
	}
}

// onSeek repositions the resource when the movie seeks into the layer's
// window. Seeks outside the window are ignored.
func (p *playable) onSeek(ev event.Event) {
	if !p.ready {
		return
	}
	seekTime, ok := ev.Payload.(float64)
	if !ok || !p.layer.InWindow(seekTime) {
		return
	}
	target := seekTime - p.layer.start + p.mediaStart
	if err := p.res.SetTime(target); err != nil {
		slog.Warn("media seek failed", "layer", p.layer.id, "error", err)
	}
}

// onDestination reroutes the resource's audio output to a new destination.
func (p *playable) onDestination(ev event.Event) {
	dst, ok := ev.Payload.(media.Destination)
	if !ok {
		return
	}
	if err := p.res.Disconnect(); err != nil {
		slog.Warn("audio disconnect failed", "layer", p.layer.id, "error", err)
	}
	if err := p.res.Connect(dst); err != nil {
		slog.Warn("audio connect failed", "layer", p.layer.id, "error", err)
	}
}

// syncToClock re-derives the resource position from the logical timeline:
// movie time minus layer start plus the media start offset. Runs whenever
// startTime or mediaStart moves, so playback never drifts.
func (p *playable) syncToClock() {
	if !p.ready || p.layer.movie == nil {
		return
	}
	target := p.layer.movie.CurrentTime() - p.layer.start + p.mediaStart
	if err := p.res.SetTime(target); err != nil {
		slog.Warn("media resync failed", "layer", p.layer.id, "error", err)
	}
}

// setMediaStart moves the media start offset and resynchronizes.
func (p *playable) setMediaStart(t float64) {
	p.mediaStart = t
	p.layer.props.Set("mediaStart", t)
	p.syncToClock()
}

// update runs the per-tick media upkeep: surface a deferred binding
// failure, then re-resolve the muted, volume, and playbackRate property
// specifications and apply them to the resource.
func (p *playable) update(reltime float64) error {
	if p.err != nil {
		return p.err
	}
	if !p.ready {
		// Valid transient state: render nothing until decodable.
		return nil
	}

	muted, err := p.layer.Resolve("muted", reltime)
	if err != nil {
		return err
	}
	if b, ok := muted.(bool); ok {
		if err := p.res.SetMuted(b); err != nil {
			return fmt.Errorf("apply muted: %w", err)
		}
	}

	volume, err := p.layer.ResolveFloat("volume", reltime, 1)
	if err != nil {
		return err
	}
	if err := p.res.SetVolume(volume); err != nil {
		return fmt.Errorf("apply volume: %w", err)
	}

	rate, err := p.layer.ResolveFloat("playbackRate", reltime, 1)
	if err != nil {
		return err
	}
	if err := p.res.SetRate(rate); err != nil {
		return fmt.Errorf("apply playbackRate: %w", err)
	}
	return nil
}
