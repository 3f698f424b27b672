// Package layer implements the timed content elements of a movie: their
// construction from untyped option maps, their lifecycle on the timeline
// (attach, activate within the start/duration window, deactivate, detach),
// their animatable property tables, the three-stage raster render
// pipeline of the visual kinds, and the clock synchronization of the
// media-backed kinds.
//
// Property changes propagate as events on the owning movie's bus: a
// tracked assignment emits a change event targeted at the layer, which
// the layer forwards to the movie as a modify event carrying the original
// source and the changed root field.
package layer
