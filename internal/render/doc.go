// Package render defines the raster drawing surface layers paint onto.
//
// Context is the primitive contract (fill, stroke, text, scaled image draw,
// per-operation global alpha). ImageContext is the in-memory implementation
// used by tests and the render CLI; a real presentation backend satisfies
// the same interface.
package render
