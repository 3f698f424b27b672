package media

import (
	"fmt"
	"image"
	"image/color"
)

// Synthetic is an in-memory Resource used by tests and the render CLI in
// place of a real decoder. It renders solid-color frames and records every
// control call for assertions.
type Synthetic struct {
	duration float64
	ready    bool
	pending  []func()

	time    float64
	rate    float64
	volume  float64
	muted   bool
	playing bool
	dst     Destination

	width, height float64
	fill          color.Color

	// Calls records control operations in order, e.g. "play", "setTime(2)".
	Calls []string
}

// NewSynthetic creates a ready resource with the given native duration.
func NewSynthetic(duration float64) *Synthetic {
	return &Synthetic{
		duration: duration,
		ready:    true,
		rate:     1,
		volume:   1,
		width:    320,
		height:   240,
		fill:     color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff},
	}
}

// NewPending creates a resource that is not yet decodable.
// Call MakeReady to transition it.
func NewPending(duration float64) *Synthetic {
	s := NewSynthetic(duration)
	s.ready = false
	return s
}

// MakeReady marks the resource decodable and fires pending callbacks.
// Calling it on an already-ready resource is a no-op.
func (s *Synthetic) MakeReady() {
	if s.ready {
		return
	}
	s.ready = true
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// SetNativeSize overrides the synthetic frame dimensions.
func (s *Synthetic) SetNativeSize(w, h float64) {
	s.width, s.height = w, h
}

// SetFill overrides the synthetic frame color.
func (s *Synthetic) SetFill(c color.Color) {
	s.fill = c
}

// Ready implements Resource.
func (s *Synthetic) Ready() bool { return s.ready }

// OnReady implements Resource.
func (s *Synthetic) OnReady(fn func()) {
	if s.ready {
		fn()
		return
	}
	s.pending = append(s.pending, fn)
}

// Duration implements Resource.
func (s *Synthetic) Duration() float64 { return s.duration }

// CurrentTime implements Resource.
func (s *Synthetic) CurrentTime() float64 { return s.time }

// SetTime implements Resource.
func (s *Synthetic) SetTime(t float64) error {
	s.record("setTime(%g)", t)
	s.time = t
	return nil
}

// Play implements Resource.
func (s *Synthetic) Play() error {
	s.record("play")
	s.playing = true
	return nil
}

// Pause implements Resource.
func (s *Synthetic) Pause() error {
	s.record("pause")
	s.playing = false
	return nil
}

// Playing reports whether the resource is currently playing.
func (s *Synthetic) Playing() bool { return s.playing }

// SetRate implements Resource.
func (s *Synthetic) SetRate(r float64) error {
	s.record("setRate(%g)", r)
	s.rate = r
	return nil
}

// Rate returns the last applied playback rate.
func (s *Synthetic) Rate() float64 { return s.rate }

// SetVolume implements Resource.
func (s *Synthetic) SetVolume(v float64) error {
	s.record("setVolume(%g)", v)
	s.volume = v
	return nil
}

// Volume returns the last applied volume.
func (s *Synthetic) Volume() float64 { return s.volume }

// SetMuted implements Resource.
func (s *Synthetic) SetMuted(m bool) error {
	s.record("setMuted(%t)", m)
	s.muted = m
	return nil
}

// Muted returns the last applied mute state.
func (s *Synthetic) Muted() bool { return s.muted }

// Connect implements Resource.
func (s *Synthetic) Connect(dst Destination) error {
	s.record("connect(%s)", dst.Name())
	s.dst = dst
	return nil
}

// Disconnect implements Resource.
func (s *Synthetic) Disconnect() error {
	s.record("disconnect")
	s.dst = nil
	return nil
}

// Destination returns the currently connected destination, or nil.
func (s *Synthetic) Destination() Destination { return s.dst }

// Frame implements VideoResource with a solid-color frame.
func (s *Synthetic) Frame() image.Image {
	if !s.ready {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	for y := 0; y < int(s.height); y++ {
		for x := 0; x < int(s.width); x++ {
			img.Set(x, y, s.fill)
		}
	}
	return img
}

// NativeSize implements VideoResource.
func (s *Synthetic) NativeSize() (float64, float64) {
	return s.width, s.height
}

func (s *Synthetic) record(format string, args ...any) {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
}
