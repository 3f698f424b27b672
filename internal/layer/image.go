package layer

import (
	"image"

	"github.com/kinema-dev/kinema/internal/render"
)

// ImageSource is an external still-image resource. Like media resources,
// a source may load asynchronously; a layer renders no content until it is
// ready.
type ImageSource interface {
	Ready() bool

	// OnReady registers a one-shot readiness callback, invoked synchronously
	// if the source is already loaded.
	OnReady(fn func())

	// Image returns the decoded image, nil until ready.
	Image() image.Image
}

// StaticImage adapts an already-decoded image into an ImageSource.
type StaticImage struct {
	Img image.Image
}

// Ready implements ImageSource.
func (s StaticImage) Ready() bool { return s.Img != nil }

// OnReady implements ImageSource.
func (s StaticImage) OnReady(fn func()) {
	if s.Img != nil {
		fn()
	}
}

// Image implements ImageSource.
func (s StaticImage) Image() image.Image { return s.Img }

// Image is a visual layer that draws a cropped, scaled still image.
type Image struct {
	Visual
	src ImageSource
}

// imageDefaults enumerates the image layer's recognized options.
// Nil crop and size values default to the source's native dimensions once
// it loads.
func imageDefaults() Options {
	return mergeDefaults(mergeDefaults(baseDefaults(), visualDefaults()), Options{
		"clipX":      0.0,
		"clipY":      0.0,
		"clipWidth":  nil,
		"clipHeight": nil,
	})
}

// NewImage constructs an image layer over a source.
func NewImage(opts Options, src ImageSource) (*Image, error) {
	merged, err := resolveOptions("image", imageDefaults(), opts)
	if err != nil {
		return nil, err
	}

	l := &Image{src: src}
	if err := l.initVisual("image", merged, visualExclusions()); err != nil {
		return nil, err
	}
	l.content = l.drawImage
	l.bind(l)

	// Width, height, and crop default to the native dimensions when the
	// source finishes loading; checked synchronously if already loaded.
	src.OnReady(l.applyNativeDefaults)
	return l, nil
}

// applyNativeDefaults fills unset size and crop from the decoded image.
func (l *Image) applyNativeDefaults() {
	img := l.src.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	nw, nh := float64(b.Dx()), float64(b.Dy())

	if v, _ := l.Property("clipWidth"); v == nil {
		l.setPropertyDerived("clipWidth", nw)
	}
	if v, _ := l.Property("clipHeight"); v == nil {
		l.setPropertyDerived("clipHeight", nh)
	}
	if v, _ := l.Property("width"); v == nil {
		l.setPropertyDerived("width", nw)
	}
	if v, _ := l.Property("height"); v == nil {
		l.setPropertyDerived("height", nh)
	}
}

// drawImage draws the source crop scaled to the layer size.
// A source that has not loaded yet draws nothing.
func (l *Image) drawImage(ctx render.Context, reltime float64) error {
	if !l.src.Ready() {
		return nil
	}
	img := l.src.Image()
	if img == nil {
		return nil
	}

	cx, err := l.ResolveFloat("clipX", reltime, 0)
	if err != nil {
		return err
	}
	cy, err := l.ResolveFloat("clipY", reltime, 0)
	if err != nil {
		return err
	}
	b := img.Bounds()
	cw, err := l.ResolveFloat("clipWidth", reltime, float64(b.Dx()))
	if err != nil {
		return err
	}
	ch, err := l.ResolveFloat("clipHeight", reltime, float64(b.Dy()))
	if err != nil {
		return err
	}

	ctx.DrawImage(img, cx, cy, cw, ch, 0, 0, l.w, l.h)
	return nil
}
