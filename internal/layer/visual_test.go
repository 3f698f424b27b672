package layer

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinema-dev/kinema/internal/render"
)

// recordingContext logs drawing primitives for pipeline assertions.
type recordingContext struct {
	w, h  float64
	alpha float64
	ops   []string
}

func (r *recordingContext) Size() (float64, float64) { return r.w, r.h }
func (r *recordingContext) SetAlpha(a float64)       { r.alpha = a }
func (r *recordingContext) Clear()                   { r.ops = append(r.ops, "clear") }

func (r *recordingContext) FillRect(x, y, w, h float64, fill color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("fill(%g,%g,%g,%g)", x, y, w, h))
}

func (r *recordingContext) StrokeRect(x, y, w, h float64, stroke color.Color, thickness float64) {
	r.ops = append(r.ops, fmt.Sprintf("stroke(%g,%g,%g,%g,%g)", x, y, w, h, thickness))
}

func (r *recordingContext) DrawText(text string, x, y float64, col color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("text(%q,%g,%g)", text, x, y))
}

func (r *recordingContext) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	r.ops = append(r.ops, fmt.Sprintf("image(%g,%g,%g,%g->%g,%g,%g,%g)", sx, sy, sw, sh, dx, dy, dw, dh))
}

func useRecorder(v *Visual) {
	v.SetSurfaceFactory(func(w, h float64) render.Context {
		return &recordingContext{w: w, h: h}
	})
}

func currentRecorder(t *testing.T, v *Visual) *recordingContext {
	t.Helper()
	rc, ok := v.Surface().(*recordingContext)
	require.True(t, ok, "surface is not the test recorder")
	return rc
}

func TestVisual_SizeFallsBackToMovie(t *testing.T) {
	m := newTestMovie()
	l := mustText(t, nil)
	useRecorder(&l.Visual)
	require.NoError(t, l.Attach(m))

	require.NoError(t, l.Render(0))

	rc := currentRecorder(t, &l.Visual)
	assert.Equal(t, 640.0, rc.w)
	assert.Equal(t, 480.0, rc.h)
}

func TestVisual_OpacityAppliedEachTick(t *testing.T) {
	l := mustText(t, Options{
		"width":   100.0,
		"height":  50.0,
		"opacity": map[float64]any{0.0: 1.0, 10.0: 0.0},
	})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(5))

	rc := currentRecorder(t, &l.Visual)
	assert.InDelta(t, 0.5, rc.alpha, 1e-9)
}

func TestVisual_SurfaceReusedAndCleared(t *testing.T) {
	l := mustText(t, Options{"width": 100.0, "height": 50.0})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))
	first := currentRecorder(t, &l.Visual)

	require.NoError(t, l.Render(1))
	second := currentRecorder(t, &l.Visual)

	assert.Same(t, first, second)
	assert.Contains(t, second.ops, "clear")
}

func TestVisual_SurfaceReallocatedOnResize(t *testing.T) {
	l := mustText(t, Options{
		"width":  map[float64]any{0.0: 100.0, 10.0: 200.0},
		"height": 50.0,
	})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))
	first := currentRecorder(t, &l.Visual)
	require.NoError(t, l.Render(10))
	second := currentRecorder(t, &l.Visual)

	assert.NotSame(t, first, second)
	assert.Equal(t, 200.0, second.w)
}

func TestVisual_BackgroundAndBorder(t *testing.T) {
	l := mustText(t, Options{
		"width":      100.0,
		"height":     50.0,
		"background": "#102030",
		"border":     map[string]any{"color": "red", "thickness": 2.0},
	})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))

	rc := currentRecorder(t, &l.Visual)
	assert.Contains(t, rc.ops, "fill(0,0,100,50)")
	assert.Contains(t, rc.ops, "stroke(0,0,100,50,2)")
}

func TestVisual_NoBackgroundDrawsNoFill(t *testing.T) {
	l := mustText(t, Options{"width": 100.0, "height": 50.0})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))

	for _, op := range currentRecorder(t, &l.Visual).ops {
		assert.NotContains(t, op, "fill(")
	}
}

func TestVisual_ZeroAreaSkipsEffects(t *testing.T) {
	l := mustText(t, Options{"width": 0.0, "height": 50.0})
	useRecorder(&l.Visual)

	fx := &countingEffect{}
	l.AddEffect(fx)

	require.NoError(t, l.Render(0))
	assert.Empty(t, fx.applied)
}

func TestText_DrawsResolvedTextAndOffsets(t *testing.T) {
	l := mustText(t, Options{
		"text":   "tick",
		"width":  100.0,
		"height": 50.0,
		"textX":  5.0,
		"textY":  20.0,
	})
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))

	rc := currentRecorder(t, &l.Visual)
	assert.Contains(t, rc.ops, `text("tick",5,20)`)
}

func TestText_RequiresText(t *testing.T) {
	_, err := NewText(Options{})
	require.Error(t, err)
}

func TestText_NonStringTextFails(t *testing.T) {
	l := mustText(t, Options{"width": 10.0, "height": 10.0})
	l.SetProperty("text", 42)
	useRecorder(&l.Visual)

	err := l.Render(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want string")
}

func TestImage_NativeDefaultsFromSource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	l, err := NewImage(Options{}, StaticImage{Img: img})
	require.NoError(t, err)

	w, _ := l.Property("width")
	cw, _ := l.Property("clipWidth")
	assert.Equal(t, 32.0, w)
	assert.Equal(t, 32.0, cw)

	ch, _ := l.Property("clipHeight")
	assert.Equal(t, 16.0, ch)
}

func TestImage_ExplicitOptionsNotOverridden(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	l, err := NewImage(Options{"width": 64.0}, StaticImage{Img: img})
	require.NoError(t, err)

	w, _ := l.Property("width")
	assert.Equal(t, 64.0, w)
}

func TestImage_DrawsCropScaledToLayer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	l, err := NewImage(Options{
		"width":      64.0,
		"height":     32.0,
		"clipX":      4.0,
		"clipY":      2.0,
		"clipWidth":  8.0,
		"clipHeight": 4.0,
	}, StaticImage{Img: img})
	require.NoError(t, err)
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))

	rc := currentRecorder(t, &l.Visual)
	assert.Contains(t, rc.ops, "image(4,2,8,4->0,0,64,32)")
}

func TestImage_PendingSourceDrawsNothing(t *testing.T) {
	l, err := NewImage(Options{"width": 10.0, "height": 10.0}, StaticImage{})
	require.NoError(t, err)
	useRecorder(&l.Visual)

	require.NoError(t, l.Render(0))

	for _, op := range currentRecorder(t, &l.Visual).ops {
		assert.NotContains(t, op, "image(")
	}
}
