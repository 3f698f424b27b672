package layer

import (
	"fmt"

	"github.com/kinema-dev/kinema/internal/observe"
	"github.com/kinema-dev/kinema/internal/render"
)

// Visual is the shared state of layers that paint onto a raster surface.
//
// The render pipeline runs in three stages each active tick:
//
//	Begin: resolve size and opacity, prepare the surface
//	Do:    background, border, then the subtype's content
//	End:   apply the effect list, unless the drawn area is empty
type Visual struct {
	Layer

	// newSurface allocates the drawing surface; swapped in tests.
	newSurface func(w, h float64) render.Context

	surface render.Context
	content func(ctx render.Context, reltime float64) error

	// Resolved dimensions of the current tick.
	w, h float64
}

// visualDefaults enumerates the options every visual layer recognizes.
func visualDefaults() Options {
	return Options{
		"x":          0.0,
		"y":          0.0,
		"width":      nil,
		"height":     nil,
		"background": nil,
		"border":     nil,
		"opacity":    1.0,
	}
}

// visualExclusions extends the base exclusions with the internal surface.
func visualExclusions() map[string]bool {
	return observe.MergeExclusions(baseExclusions(), "surface")
}

// initVisual builds the shared visual state from merged options.
func (v *Visual) initVisual(kind string, merged Options, exclude map[string]bool) error {
	if err := v.Layer.initLayer(kind, merged, exclude); err != nil {
		return err
	}
	v.newSurface = func(w, h float64) render.Context {
		return render.NewImageContext(w, h)
	}
	return nil
}

// SetSurfaceFactory overrides surface allocation (used by tests and by
// presentation backends that own their surfaces).
func (v *Visual) SetSurfaceFactory(f func(w, h float64) render.Context) {
	v.newSurface = f
	v.surface = nil
}

// Surface returns the layer's most recently prepared drawing surface.
// Nil before the first active tick.
func (v *Visual) Surface() render.Context {
	return v.surface
}

// Render runs the full pipeline at the given relative time.
func (v *Visual) Render(reltime float64) error {
	if err := v.beginRender(reltime); err != nil {
		return err
	}
	if err := v.doRender(reltime); err != nil {
		return err
	}
	return v.endRender(reltime)
}

// beginRender resolves the size- and opacity-affecting properties and
// prepares the drawing surface for this tick.
func (v *Visual) beginRender(reltime float64) error {
	mw, mh := 0.0, 0.0
	if v.movie != nil {
		mw, mh = v.movie.Size()
	}

	w, err := v.ResolveFloat("width", reltime, mw)
	if err != nil {
		return err
	}
	h, err := v.ResolveFloat("height", reltime, mh)
	if err != nil {
		return err
	}
	opacity, err := v.ResolveFloat("opacity", reltime, 1)
	if err != nil {
		return err
	}

	if v.surface == nil || !sameSize(v.surface, w, h) {
		v.surface = v.newSurface(w, h)
	} else {
		v.surface.Clear()
	}
	v.surface.SetAlpha(opacity)
	v.w, v.h = w, h
	return nil
}

// doRender draws background, border, and the subtype's content.
func (v *Visual) doRender(reltime float64) error {
	if err := v.renderBackground(reltime); err != nil {
		return err
	}
	if err := v.renderBorder(reltime); err != nil {
		return err
	}
	if v.content != nil {
		if err := v.content(v.surface, reltime); err != nil {
			return fmt.Errorf("render %s content: %w", v.kind, err)
		}
	}
	return nil
}

// endRender applies the effect list. A zero-area surface skips effects.
func (v *Visual) endRender(reltime float64) error {
	if v.w <= 0 || v.h <= 0 {
		return nil
	}
	return v.applyEffects(reltime)
}

func (v *Visual) renderBackground(reltime float64) error {
	bg, err := v.Resolve("background", reltime)
	if err != nil {
		return err
	}
	c, err := toColor(v.kind, "background", bg)
	if err != nil {
		return err
	}
	if c != nil {
		v.surface.FillRect(0, 0, v.w, v.h, c)
	}
	return nil
}

func (v *Visual) renderBorder(reltime float64) error {
	raw, err := v.Resolve("border", reltime)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return NewInvalidValueError(v.kind, "border", fmt.Sprintf("expected a color/thickness map, got %T", raw))
	}
	c, err := toColor(v.kind, "border", m["color"])
	if err != nil {
		return err
	}
	thickness, err := floatOption(Options(m), "thickness", 1)
	if err != nil {
		return NewInvalidValueError(v.kind, "border", "thickness is not a number")
	}
	if c != nil {
		v.surface.StrokeRect(0, 0, v.w, v.h, c, thickness)
	}
	return nil
}

// sameSize reports whether a surface already has the wanted dimensions.
func sameSize(ctx render.Context, w, h float64) bool {
	cw, ch := ctx.Size()
	return int(cw) == int(w) && int(ch) == int(h)
}
