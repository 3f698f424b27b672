package layer

import (
	"github.com/kinema-dev/kinema/internal/media"
)

// Audio is a non-visual playable layer: it holds no surface and draws
// nothing, but participates fully in the timeline window and keeps its
// resource's playback synchronized with the movie clock.
type Audio struct {
	Layer
	p playable
}

// audioDefaults enumerates the audio layer's recognized options.
func audioDefaults() Options {
	return mergeDefaults(baseDefaults(), playableDefaults())
}

// NewAudio binds an audio resource into a layer.
func NewAudio(opts Options, src media.Resource) (*Audio, error) {
	merged, err := resolveOptions("audio", audioDefaults(), opts)
	if err != nil {
		return nil, err
	}

	a := &Audio{}
	if err := a.Layer.initLayer("audio", merged, baseExclusions()); err != nil {
		return nil, err
	}
	a.bind(a)

	if err := a.p.bind(&a.Layer, src, merged); err != nil {
		return nil, err
	}
	return a, nil
}

// Attach wires the base layer, then the media subscriptions.
func (a *Audio) Attach(m Movie) error {
	if err := a.Layer.Attach(m); err != nil {
		return err
	}
	return a.p.attach(m)
}

// Detach releases the audio connection along with the base subscriptions.
func (a *Audio) Detach() {
	a.p.detach()
	a.Layer.Detach()
}

// MediaStartTime reports the offset into the source at which playback of
// this layer begins.
func (a *Audio) MediaStartTime() float64 { return a.p.mediaStart }

// SetMediaStartTime moves the source offset and resynchronizes playback.
func (a *Audio) SetMediaStartTime(t float64) { a.p.setMediaStart(t) }

// Ready reports whether the resource is decodable.
func (a *Audio) Ready() bool { return a.p.ready }

// Render performs the per-tick media upkeep. There is nothing to draw.
func (a *Audio) Render(reltime float64) error {
	if err := a.p.update(reltime); err != nil {
		return err
	}
	return a.applyEffects(reltime)
}
