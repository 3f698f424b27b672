package movie

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinema-dev/kinema/internal/event"
	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/media"
)

func mustMovie(t *testing.T, opts ...Option) *Movie {
	t.Helper()
	m, err := New(opts...)
	require.NoError(t, err)
	return m
}

func addText(t *testing.T, m *Movie, opts layer.Options) *layer.Text {
	t.Helper()
	if opts == nil {
		opts = layer.Options{}
	}
	if _, ok := opts["text"]; !ok {
		opts["text"] = "x"
	}
	l, err := layer.NewText(opts)
	require.NoError(t, err)
	require.NoError(t, m.AddLayer(l))
	return l
}

func TestNew_WithIDGenerator(t *testing.T) {
	want := uuid.Must(uuid.NewV7())
	m := mustMovie(t, WithIDGenerator(fixedGen{want}))
	assert.Equal(t, want, m.ID())
}

type fixedGen struct{ id uuid.UUID }

func (g fixedGen) NewID() (uuid.UUID, error) { return g.id, nil }

func TestAddLayer_AttachesAndPublishes(t *testing.T) {
	m := mustMovie(t, WithSize(320, 240))

	l, err := layer.NewText(layer.Options{"text": "x"})
	require.NoError(t, err)

	var attaches []event.Event
	m.Bus().Subscribe(l, event.KindAttach, func(ev event.Event) { attaches = append(attaches, ev) })

	require.NoError(t, m.AddLayer(l))

	assert.Same(t, m, l.Movie())
	require.Len(t, attaches, 1)
	assert.Same(t, m, attaches[0].Payload)
	assert.Len(t, m.Layers(), 1)
}

func TestAddLayer_SecondAttachFails(t *testing.T) {
	m := mustMovie(t)
	l := addText(t, m, nil)
	assert.Error(t, m.AddLayer(l))
}

func TestRemoveLayer_DetachesAndForgets(t *testing.T) {
	m := mustMovie(t)
	l := addText(t, m, nil)

	m.RemoveLayer(l)

	assert.Nil(t, l.Movie())
	assert.Empty(t, m.Layers())

	// Removing again is harmless.
	m.RemoveLayer(l)
}

func TestLayerByID(t *testing.T) {
	m := mustMovie(t)
	l := addText(t, m, nil)

	assert.Equal(t, layer.Child(l), m.LayerByID(l.ID()))
	assert.Nil(t, m.LayerByID(uuid.Must(uuid.NewV7())))
}

func TestTick_WindowTransitions(t *testing.T) {
	m := mustMovie(t, WithSize(100, 100))
	l := addText(t, m, layer.Options{"start": 0.0, "duration": 5.0})

	var starts, stops int
	m.Bus().Subscribe(l, event.KindLayerStart, func(event.Event) { starts++ })
	m.Bus().Subscribe(l, event.KindLayerStop, func(event.Event) { stops++ })

	require.NoError(t, m.Tick(3))
	assert.True(t, l.Active())
	assert.Equal(t, 1, starts)

	require.NoError(t, m.Tick(4))
	assert.Equal(t, 1, starts, "start fires once per window entry")

	require.NoError(t, m.Tick(6))
	assert.False(t, l.Active())
	assert.Equal(t, 1, stops)
}

func TestTick_RendersActiveAtRelativeTime(t *testing.T) {
	m := mustMovie(t, WithSize(100, 100))
	l := addText(t, m, layer.Options{
		"start":    2.0,
		"duration": 10.0,
		"width":    map[float64]any{0.0: 0.0, 10.0: 100.0},
		"height":   20.0,
	})

	require.NoError(t, m.Tick(7))

	// reltime 5 resolves the width keyframes to their midpoint.
	w, _ := l.Surface().Size()
	assert.Equal(t, 50.0, w)
}

func TestSeek_PublishesAfterTransitions(t *testing.T) {
	m := mustMovie(t)
	src := media.NewSynthetic(20)
	v, err := layer.NewVideo(layer.Options{
		"start":      1.0,
		"duration":   10.0,
		"mediaStart": 2.0,
		"width":      8.0,
		"height":     8.0,
	}, src)
	require.NoError(t, err)
	require.NoError(t, m.AddLayer(v))

	require.NoError(t, m.Seek(4))

	// Entry into the window plays from mediaStart; the seek then lands the
	// resource on the seek target before the render tick runs.
	require.GreaterOrEqual(t, len(src.Calls), 3)
	assert.Equal(t, []string{"setTime(2)", "play", "setTime(5)"}, src.Calls[:3])
}

func TestPlayRange_InclusiveTicks(t *testing.T) {
	m := mustMovie(t, WithSize(10, 10))
	l := addText(t, m, layer.Options{"start": 0.0, "duration": 3.0})

	var stops int
	m.Bus().Subscribe(l, event.KindLayerStop, func(event.Event) { stops++ })

	require.NoError(t, m.PlayRange(0, 4, 1))

	assert.Equal(t, 4.0, m.CurrentTime())
	assert.Equal(t, 1, stops)
}

func TestPlayRange_RejectsNonPositiveStep(t *testing.T) {
	m := mustMovie(t)
	assert.Error(t, m.PlayRange(0, 1, 0))
}

func TestSetAudioDestination_Reconnects(t *testing.T) {
	m := mustMovie(t)
	src := media.NewSynthetic(10)
	a, err := layer.NewAudio(layer.Options{}, src)
	require.NoError(t, err)
	require.NoError(t, m.AddLayer(a))

	m.SetAudioDestination(media.NullDestination{})

	assert.Contains(t, src.Calls, "connect(null)")
	assert.Equal(t, media.Destination(media.NullDestination{}), m.AudioDestination())
}

type memRecorder struct {
	changes []string
	frames  []string
}

func (r *memRecorder) RecordChange(tm float64, id uuid.UUID, property string, value any) error {
	r.changes = append(r.changes, property)
	return nil
}

func (r *memRecorder) RecordFrame(tm float64, id uuid.UUID, active bool) error {
	r.frames = append(r.frames, id.String())
	return nil
}

func TestJournal_RecordsChangesAndFrames(t *testing.T) {
	rec := &memRecorder{}
	m := mustMovie(t, WithSize(10, 10), WithJournal(rec))
	l := addText(t, m, layer.Options{"duration": 2.0})

	l.SetProperty("x", 9.0)
	require.NoError(t, m.Tick(1))

	assert.Equal(t, []string{"x"}, rec.changes)
	assert.Equal(t, []string{l.ID().String()}, rec.frames)
}
