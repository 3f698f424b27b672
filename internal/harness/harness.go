package harness

import (
	"fmt"
	"image"

	"github.com/kinema-dev/kinema/internal/comp"
	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/media"
)

// TraceEvent is one sampled property at one tick.
//
// Value is the resolved property value while the layer is active and null
// otherwise, so a trace shows window entry and exit explicitly.
type TraceEvent struct {
	Seq      int64   `json:"seq"`
	Time     float64 `json:"time"`
	Layer    string  `json:"layer"`
	Property string  `json:"property"`
	Active   bool    `json:"active"`
	Value    any     `json:"value"`
}

// Result holds a completed scenario run.
type Result struct {
	Scenario *Scenario
	Built    *comp.Result
	Trace    []TraceEvent
}

// RunOption configures scenario execution.
type RunOption func(*runConfig)

type runConfig struct {
	buildOpts []comp.BuildOption
	opener    comp.MediaOpener
}

// WithBuildOptions forwards extra options to document building.
func WithBuildOptions(opts ...comp.BuildOption) RunOption {
	return func(c *runConfig) { c.buildOpts = append(c.buildOpts, opts...) }
}

// WithOpener overrides the synthetic media opener.
func WithOpener(opener comp.MediaOpener) RunOption {
	return func(c *runConfig) { c.opener = opener }
}

// SyntheticOpener serves synthetic resources for every source name, so
// scenarios run without codecs or files. All resources are ready
// immediately with the configured duration.
type SyntheticOpener struct {
	// Duration of every served resource. Zero means 10.
	Duration float64
}

func (o SyntheticOpener) duration() float64 {
	if o.Duration == 0 {
		return 10
	}
	return o.Duration
}

// OpenVideo implements comp.MediaOpener.
func (o SyntheticOpener) OpenVideo(string) (media.VideoResource, error) {
	return media.NewSynthetic(o.duration()), nil
}

// OpenAudio implements comp.MediaOpener.
func (o SyntheticOpener) OpenAudio(string) (media.Resource, error) {
	return media.NewSynthetic(o.duration()), nil
}

// OpenImage implements comp.MediaOpener.
func (o SyntheticOpener) OpenImage(string) (layer.ImageSource, error) {
	src := media.NewSynthetic(o.duration())
	return syntheticImage{src}, nil
}

// syntheticImage adapts a synthetic resource's frame as a still image.
type syntheticImage struct {
	src *media.Synthetic
}

func (s syntheticImage) Ready() bool       { return s.src.Ready() }
func (s syntheticImage) OnReady(fn func()) { s.src.OnReady(fn) }
func (s syntheticImage) Image() image.Image {
	return s.src.Frame()
}

// Run executes a scenario: load and build the composition, tick the movie
// across the scenario range, and sample every watched property at every
// tick.
func Run(s *Scenario, opts ...RunOption) (*Result, error) {
	cfg := runConfig{opener: SyntheticOpener{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := comp.Load(s.DocPath())
	if err != nil {
		return nil, err
	}

	buildOpts := append([]comp.BuildOption{comp.WithMedia(cfg.opener)}, cfg.buildOpts...)
	built, err := comp.Build(doc, buildOpts...)
	if err != nil {
		return nil, err
	}

	for _, w := range s.Watch {
		if _, ok := built.Named[w.Layer]; !ok {
			return nil, fmt.Errorf("scenario %s watches unknown layer %q", s.Name, w.Layer)
		}
	}

	res := &Result{Scenario: s, Built: built}
	var seq int64
	for t := s.From; t <= s.To+s.Step/2; t += s.Step {
		if err := built.Movie.Tick(t); err != nil {
			return nil, fmt.Errorf("scenario %s tick %g: %w", s.Name, t, err)
		}

		for _, w := range s.Watch {
			child := built.Named[w.Layer]
			base := child.Base()

			ev := TraceEvent{
				Time:     t,
				Layer:    w.Layer,
				Property: w.Property,
				Active:   base.Active(),
			}
			if base.Active() {
				v, err := base.Resolve(w.Property, t-base.StartTime())
				if err != nil {
					return nil, fmt.Errorf("scenario %s sample %s.%s: %w", s.Name, w.Layer, w.Property, err)
				}
				ev.Value = v
			}

			seq++
			ev.Seq = seq
			res.Trace = append(res.Trace, ev)
		}
	}
	return res, nil
}
