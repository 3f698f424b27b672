package media

import "image"

// Resource is an external playable media resource bound to a layer.
//
// A resource starts undecodable and becomes ready exactly once; OnReady
// callbacks fire synchronously if the resource is already decodable when
// registered. Everything else is plain synchronous state manipulation.
type Resource interface {
	// Ready reports whether the resource is decodable.
	Ready() bool

	// OnReady registers a one-shot readiness callback. If the resource is
	// already ready the callback is invoked synchronously before returning.
	OnReady(fn func())

	// Duration returns the resource's native duration.
	// Only meaningful once ready.
	Duration() float64

	// CurrentTime returns the playback position.
	CurrentTime() float64

	// SetTime sets the playback position.
	SetTime(t float64) error

	// Play starts playback.
	Play() error

	// Pause stops playback.
	Pause() error

	// SetRate sets the playback rate (1 is realtime).
	SetRate(r float64) error

	// SetVolume sets the output volume in [0, 1].
	SetVolume(v float64) error

	// SetMuted mutes or unmutes the output.
	SetMuted(m bool) error

	// Connect routes the resource's audio output to a destination.
	Connect(dst Destination) error

	// Disconnect detaches the resource's audio output.
	Disconnect() error
}

// VideoResource is a Resource that also produces picture.
type VideoResource interface {
	Resource

	// Frame returns the decoded frame at the current playback position.
	// Nil until ready.
	Frame() image.Image

	// NativeSize returns the resource's intrinsic dimensions.
	NativeSize() (w, h float64)
}

// Destination is an audio-graph output shared across layers.
type Destination interface {
	Name() string
}

// NullDestination is a destination that discards audio.
// The zero value is ready to use.
type NullDestination struct{}

// Name implements Destination.
func (NullDestination) Name() string { return "null" }
