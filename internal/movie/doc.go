// Package movie implements the top-level container: the playback clock,
// the ordered layer list, the per-movie event bus, and the optional change
// journal. Driving a movie is explicit: callers advance time with Tick or
// Seek and the movie runs every layer's state machine synchronously.
package movie
