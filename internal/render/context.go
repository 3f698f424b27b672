package render

import (
	"image"
	"image/color"
)

// Context is the 2-D raster drawing contract a layer renders onto.
//
// The compositor treats the surface as an external collaborator: layers
// call these primitives with fully resolved values and never inspect the
// pixels behind them. Alpha set via SetAlpha applies to every subsequent
// operation until changed.
type Context interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h float64)

	// SetAlpha sets the global alpha in [0, 1] for subsequent operations.
	SetAlpha(a float64)

	// Clear resets the whole surface to transparent.
	Clear()

	// FillRect fills a rectangle with a solid color.
	FillRect(x, y, w, h float64, fill color.Color)

	// StrokeRect outlines a rectangle with the given edge thickness.
	StrokeRect(x, y, w, h float64, stroke color.Color, thickness float64)

	// DrawText draws a single line of text with its baseline at (x, y).
	DrawText(text string, x, y float64, col color.Color)

	// DrawImage draws the source rectangle (sx, sy, sw, sh) of img scaled
	// into the destination rectangle (dx, dy, dw, dh).
	DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64)
}
