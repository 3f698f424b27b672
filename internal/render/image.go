package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageContext implements Context over an in-memory RGBA image.
// It backs tests, golden frames, and the render CLI.
type ImageContext struct {
	img   *image.RGBA
	alpha float64
}

// NewImageContext allocates a transparent surface of the given size.
// Fractional sizes are truncated; a non-positive dimension yields an
// empty surface.
func NewImageContext(w, h float64) *ImageContext {
	iw, ih := int(w), int(h)
	if iw < 0 {
		iw = 0
	}
	if ih < 0 {
		ih = 0
	}
	return &ImageContext{
		img:   image.NewRGBA(image.Rect(0, 0, iw, ih)),
		alpha: 1,
	}
}

// Image returns the backing image.
func (c *ImageContext) Image() *image.RGBA {
	return c.img
}

// Size returns the surface dimensions.
func (c *ImageContext) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// SetAlpha sets the global alpha for subsequent operations.
// Values are clamped to [0, 1].
func (c *ImageContext) SetAlpha(a float64) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.alpha = a
}

// Clear resets the surface to transparent.
func (c *ImageContext) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillRect fills a rectangle with a solid color at the current alpha.
func (c *ImageContext) FillRect(x, y, w, h float64, fill color.Color) {
	if fill == nil || w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(int(x), int(y), int(x+w), int(y+h)).Intersect(c.img.Bounds())
	src := image.NewUniform(c.withAlpha(fill))
	draw.Draw(c.img, r, src, image.Point{}, draw.Over)
}

// StrokeRect outlines a rectangle by filling its four edges.
func (c *ImageContext) StrokeRect(x, y, w, h float64, stroke color.Color, thickness float64) {
	if stroke == nil || thickness <= 0 || w <= 0 || h <= 0 {
		return
	}
	t := thickness
	c.FillRect(x, y, w, t, stroke)
	c.FillRect(x, y+h-t, w, t, stroke)
	c.FillRect(x, y+t, t, h-2*t, stroke)
	c.FillRect(x+w-t, y+t, t, h-2*t, stroke)
}

// DrawText draws one line of text with the built-in bitmap face.
func (c *ImageContext) DrawText(text string, x, y float64, col color.Color) {
	if col == nil || text == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.withAlpha(col)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
}

// DrawImage scales the source crop into the destination rectangle.
func (c *ImageContext) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if img == nil || sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	dst := image.Rect(int(dx), int(dy), int(dx+dw), int(dy+dh))
	src := image.Rect(int(sx), int(sy), int(sx+sw), int(sy+sh))

	if c.alpha >= 1 {
		xdraw.ApproxBiLinear.Scale(c.img, dst, img, src, xdraw.Over, nil)
		return
	}

	// Scale through a staging image so global alpha applies uniformly.
	staging := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	xdraw.ApproxBiLinear.Scale(staging, staging.Bounds(), img, src, xdraw.Src, nil)
	mask := image.NewUniform(color.Alpha{A: uint8(c.alpha * 255)})
	draw.DrawMask(c.img, dst, staging, image.Point{}, mask, image.Point{}, draw.Over)
}

// withAlpha scales a color's alpha channel by the current global alpha.
func (c *ImageContext) withAlpha(col color.Color) color.Color {
	if c.alpha >= 1 {
		return col
	}
	r, g, b, a := col.RGBA()
	scaled := uint16(float64(a) * c.alpha)
	return color.NRGBA64Model.Convert(color.RGBA64{
		R: uint16(float64(r) * c.alpha),
		G: uint16(float64(g) * c.alpha),
		B: uint16(float64(b) * c.alpha),
		A: scaled,
	})
}
