package comp

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/media"
)

const minimalDoc = `
movie:
  width: 320
  height: 240
  duration: 10
layers:
  - type: text
    name: title
    start: 1
    duration: 5
    options:
      text: "hello"
    properties:
      x:
        "0": 0
        "4": 100
`

// testOpener serves synthetic resources for every source name.
type testOpener struct {
	videoDuration float64
}

func (o testOpener) OpenVideo(string) (media.VideoResource, error) {
	d := o.videoDuration
	if d == 0 {
		d = 10
	}
	return media.NewSynthetic(d), nil
}

func (o testOpener) OpenAudio(string) (media.Resource, error) {
	return media.NewSynthetic(10), nil
}

func (o testOpener) OpenImage(string) (layer.ImageSource, error) {
	return layer.StaticImage{Img: image.NewRGBA(image.Rect(0, 0, 8, 8))}, nil
}

func TestParse_MinimalDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	assert.Equal(t, 320.0, doc.Movie.Width)
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "text", doc.Layers[0].Type)
	assert.Equal(t, "title", doc.Layers[0].Name)
	require.NotNil(t, doc.Layers[0].Duration)
	assert.Equal(t, 5.0, *doc.Layers[0].Duration)
}

func TestParse_RejectsUnknownField(t *testing.T) {
	bad := `
movie:
  width: 320
  height: 240
  duration: 10
  frames: 24
layers: []
`
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frames")
}

func TestParse_SchemaRejectsBadLayerType(t *testing.T) {
	bad := `
movie:
  width: 320
  height: 240
  duration: 10
layers:
  - type: sprite
`
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
}

func TestParse_SchemaRejectsNonPositiveCanvas(t *testing.T) {
	bad := `
movie:
  width: 0
  height: 240
  duration: 10
layers: []
`
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
}

func TestParse_NormalizesIdentifiers(t *testing.T) {
	// "café" (decomposed) must equal the composed "café".
	doc, err := Parse(strings.NewReader(`
movie:
  width: 320
  height: 240
  duration: 1
layers:
  - type: text
    name: "cafe` + "́" + `"
    options:
      text: "x"
`))
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Layers[0].Name)
}

func TestBuild_ConstructsMovieAndLayers(t *testing.T) {
	doc, err := Parse(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	res, err := Build(doc)
	require.NoError(t, err)

	w, h := res.Movie.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 240.0, h)
	require.Len(t, res.Movie.Layers(), 1)

	title, ok := res.Named["title"]
	require.True(t, ok)
	assert.Equal(t, 1.0, title.Base().StartTime())
	assert.Equal(t, 5.0, title.Base().Duration())
}

func TestBuild_DocumentKeyframesInterpolate(t *testing.T) {
	doc, err := Parse(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	res, err := Build(doc)
	require.NoError(t, err)

	title := res.Named["title"]
	x, err := title.Base().ResolveFloat("x", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, x)
}

func TestBuild_MediaLayersUseOpener(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
movie:
  width: 100
  height: 100
  duration: 10
layers:
  - type: video
    name: clip
    source: "clip.mp4"
    options:
      mediaStart: 2
  - type: audio
    source: "music.ogg"
    duration: 4
  - type: image
    name: logo
    source: "logo.png"
`))
	require.NoError(t, err)

	res, err := Build(doc, WithMedia(testOpener{videoDuration: 10}))
	require.NoError(t, err)

	clip := res.Named["clip"]
	assert.Equal(t, 8.0, clip.Base().Duration())

	logo := res.Named["logo"]
	wv, _ := logo.Base().Property("width")
	assert.Equal(t, 8.0, wv)
}

func TestBuild_MediaWithoutOpenerFails(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
movie:
  width: 100
  height: 100
  duration: 10
layers:
  - type: video
    source: "clip.mp4"
`))
	require.NoError(t, err)

	_, err = Build(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeMediaUnavailable)
}

type nopEffect struct{}

func (nopEffect) Apply(layer.Child, float64) error { return nil }

func TestBuild_Effects(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
movie:
  width: 100
  height: 100
  duration: 10
layers:
  - type: text
    name: t
    options:
      text: "x"
    effects: [fade]
`))
	require.NoError(t, err)

	res, err := Build(doc, WithEffect("fade", func() layer.Effect { return nopEffect{} }))
	require.NoError(t, err)
	assert.Len(t, res.Named["t"].Base().Effects(), 1)

	_, err = Build(doc)
	require.Error(t, err, "unregistered effect must fail")
}
