package layer

import (
	"github.com/kinema-dev/kinema/internal/media"
	"github.com/kinema-dev/kinema/internal/render"
)

// videoDefaults enumerates the video layer's recognized options: the
// visual and playable surfaces plus the source crop rectangle. Nil crop
// dimensions complete from the resource's native frame size once ready.
func videoDefaults() Options {
	d := mergeDefaults(mergeDefaults(baseDefaults(), visualDefaults()), playableDefaults())
	return mergeDefaults(d, Options{
		"clipX":      0.0,
		"clipY":      0.0,
		"clipWidth":  nil,
		"clipHeight": nil,
	})
}

// Video renders frames from a time-based media resource onto its surface
// and keeps the resource's playback synchronized with the movie clock.
type Video struct {
	Visual
	p   playable
	src media.VideoResource
}

// NewVideo binds a video resource into a layer. If the resource is already
// decodable, duration inference and native-size completion happen before
// NewVideo returns; otherwise they run when the resource becomes ready.
func NewVideo(opts Options, src media.VideoResource) (*Video, error) {
	merged, err := resolveOptions("video", videoDefaults(), opts)
	if err != nil {
		return nil, err
	}

	v := &Video{src: src}
	if err := v.initVisual("video", merged, visualExclusions()); err != nil {
		return nil, err
	}
	v.content = v.drawFrame
	v.bind(v)

	v.p.completion = v.applyNativeDefaults
	if err := v.p.bind(&v.Layer, src, merged); err != nil {
		return nil, err
	}
	return v, nil
}

// Attach wires the base layer, then the media subscriptions.
func (v *Video) Attach(m Movie) error {
	if err := v.Layer.Attach(m); err != nil {
		return err
	}
	return v.p.attach(m)
}

// Detach releases the audio connection along with the base subscriptions.
func (v *Video) Detach() {
	v.p.detach()
	v.Layer.Detach()
}

// MediaStartTime reports the offset into the source at which playback of
// this layer begins.
func (v *Video) MediaStartTime() float64 { return v.p.mediaStart }

// SetMediaStartTime moves the source offset and resynchronizes playback.
func (v *Video) SetMediaStartTime(t float64) { v.p.setMediaStart(t) }

// Ready reports whether the resource is decodable.
func (v *Video) Ready() bool { return v.p.ready }

// Render runs the media upkeep tick before the visual pipeline so a stale
// frame is never composited after a fatal binding failure.
func (v *Video) Render(reltime float64) error {
	if err := v.p.update(reltime); err != nil {
		return err
	}
	return v.Visual.Render(reltime)
}

// applyNativeDefaults completes unset crop and size options from the
// resource's native frame dimensions. Runs once on Ready.
func (v *Video) applyNativeDefaults() {
	w, h := v.src.NativeSize()
	if cur, _ := v.Property("clipWidth"); cur == nil {
		v.setPropertyDerived("clipWidth", float64(w))
	}
	if cur, _ := v.Property("clipHeight"); cur == nil {
		v.setPropertyDerived("clipHeight", float64(h))
	}
	if cur, _ := v.Property("width"); cur == nil {
		v.setPropertyDerived("width", float64(w))
	}
	if cur, _ := v.Property("height"); cur == nil {
		v.setPropertyDerived("height", float64(h))
	}
}

// drawFrame copies the current frame's crop rectangle onto the surface,
// scaled to the layer size. Before Ready there is no frame and the
// surface stays at its background fill.
func (v *Video) drawFrame(ctx render.Context, reltime float64) error {
	if !v.p.ready {
		return nil
	}
	frame := v.src.Frame()
	if frame == nil {
		return nil
	}

	cx, err := v.ResolveFloat("clipX", reltime, 0)
	if err != nil {
		return err
	}
	cy, err := v.ResolveFloat("clipY", reltime, 0)
	if err != nil {
		return err
	}
	nw, nh := v.src.NativeSize()
	cw, err := v.ResolveFloat("clipWidth", reltime, float64(nw))
	if err != nil {
		return err
	}
	ch, err := v.ResolveFloat("clipHeight", reltime, float64(nh))
	if err != nil {
		return err
	}

	ctx.DrawImage(frame, cx, cy, cw, ch, 0, 0, v.w, v.h)
	return nil
}
