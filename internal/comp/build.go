package comp

import (
	"fmt"

	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/media"
	"github.com/kinema-dev/kinema/internal/movie"
)

// MediaOpener resolves document source names to live resources. The
// engine never touches codecs or the filesystem for media itself; the
// opener is the seam where a real decoder (or a synthetic test resource)
// plugs in.
type MediaOpener interface {
	OpenVideo(source string) (media.VideoResource, error)
	OpenAudio(source string) (media.Resource, error)
	OpenImage(source string) (layer.ImageSource, error)
}

// EffectFactory constructs one effect instance per referencing layer.
type EffectFactory func() layer.Effect

// BuildOption configures document building.
type BuildOption func(*buildConfig)

type buildConfig struct {
	opener    MediaOpener
	effects   map[string]EffectFactory
	movieOpts []movie.Option
}

// WithMedia supplies the resource opener for media and image layers.
func WithMedia(opener MediaOpener) BuildOption {
	return func(c *buildConfig) { c.opener = opener }
}

// WithEffect registers a named effect referenced from documents.
func WithEffect(name string, factory EffectFactory) BuildOption {
	return func(c *buildConfig) {
		if c.effects == nil {
			c.effects = map[string]EffectFactory{}
		}
		c.effects[name] = factory
	}
}

// WithMovieOptions forwards extra options to the movie constructor.
func WithMovieOptions(opts ...movie.Option) BuildOption {
	return func(c *buildConfig) { c.movieOpts = append(c.movieOpts, opts...) }
}

// Result is a built composition.
type Result struct {
	Movie *movie.Movie
	Doc   *Document

	// Named indexes built layers by their document name, when given.
	Named map[string]layer.Child
}

// Build constructs a movie and its layers from a validated document.
// Property values from the document keep their written shape; keyframe
// maps become interpolated specifications when assigned.
func Build(doc *Document, opts ...BuildOption) (*Result, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	movieOpts := append([]movie.Option{
		movie.WithSize(doc.Movie.Width, doc.Movie.Height),
	}, cfg.movieOpts...)
	m, err := movie.New(movieOpts...)
	if err != nil {
		return nil, err
	}

	res := &Result{Movie: m, Doc: doc, Named: map[string]layer.Child{}}
	for i, ld := range doc.Layers {
		path := fmt.Sprintf("layers[%d]", i)

		child, err := cfg.buildLayer(path, ld)
		if err != nil {
			return nil, err
		}

		for name, value := range ld.Properties {
			child.Base().SetProperty(name, value)
		}
		for _, effectName := range ld.Effects {
			factory, ok := cfg.effects[effectName]
			if !ok {
				return nil, NewSchemaError(path, fmt.Sprintf("unregistered effect %q", effectName))
			}
			child.Base().AddEffect(factory())
		}

		if err := m.AddLayer(child); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if ld.Name != "" {
			res.Named[ld.Name] = child
		}
	}
	return res, nil
}

func (c *buildConfig) buildLayer(path string, ld LayerDoc) (layer.Child, error) {
	opts := layer.Options{}
	for k, v := range ld.Options {
		opts[k] = v
	}
	opts["start"] = ld.Start
	if ld.Duration != nil {
		opts["duration"] = *ld.Duration
	}

	switch ld.Type {
	case "text":
		return layer.NewText(opts)

	case "image":
		src, err := c.openImage(path, ld.Source)
		if err != nil {
			return nil, err
		}
		return layer.NewImage(opts, src)

	case "video":
		if c.opener == nil {
			return nil, NewMediaError(path, "no media opener configured")
		}
		src, err := c.opener.OpenVideo(ld.Source)
		if err != nil {
			return nil, NewMediaError(path, fmt.Sprintf("open video %q: %v", ld.Source, err))
		}
		return layer.NewVideo(opts, src)

	case "audio":
		if c.opener == nil {
			return nil, NewMediaError(path, "no media opener configured")
		}
		src, err := c.opener.OpenAudio(ld.Source)
		if err != nil {
			return nil, NewMediaError(path, fmt.Sprintf("open audio %q: %v", ld.Source, err))
		}
		return layer.NewAudio(opts, src)

	default:
		return nil, NewUnknownLayerTypeError(path, ld.Type)
	}
}

func (c *buildConfig) openImage(path, source string) (layer.ImageSource, error) {
	if c.opener == nil {
		return nil, NewMediaError(path, "no media opener configured")
	}
	src, err := c.opener.OpenImage(source)
	if err != nil {
		return nil, NewMediaError(path, fmt.Sprintf("open image %q: %v", source, err))
	}
	return src, nil
}
