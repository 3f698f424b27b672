package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRecordChange_RoundTrips(t *testing.T) {
	j := openTemp(t)
	id := uuid.Must(uuid.NewV7())

	require.NoError(t, j.RecordChange(1.5, id, "x", 25.0))
	require.NoError(t, j.RecordChange(2.0, id, "color", "#ff0000"))

	changes, err := j.Changes(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, int64(1), changes[0].Seq)
	assert.Equal(t, 1.5, changes[0].Time)
	assert.Equal(t, id, changes[0].LayerID)
	assert.Equal(t, "x", changes[0].Property)
	assert.Equal(t, 25.0, changes[0].Value)
	assert.Equal(t, "#ff0000", changes[1].Value)
}

func TestRecordChange_KeyframeMapSerializes(t *testing.T) {
	j := openTemp(t)
	id := uuid.Must(uuid.NewV7())

	require.NoError(t, j.RecordChange(0, id, "x", map[float64]any{0: 0.0, 10: 100.0}))

	changes, err := j.Changes(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	m, ok := changes[0].Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 100.0, m["10"])
}

func TestChanges_FiltersByLayer(t *testing.T) {
	j := openTemp(t)
	a := uuid.Must(uuid.NewV7())
	b := uuid.Must(uuid.NewV7())

	require.NoError(t, j.RecordChange(0, a, "x", 1.0))
	require.NoError(t, j.RecordChange(0, b, "x", 2.0))

	onlyA, err := j.Changes(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, a, onlyA[0].LayerID)

	all, err := j.Changes(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordFrame_RoundTrips(t *testing.T) {
	j := openTemp(t)
	id := uuid.Must(uuid.NewV7())

	require.NoError(t, j.RecordFrame(0, id, false))
	require.NoError(t, j.RecordFrame(1, id, true))

	frames, err := j.Frames(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.False(t, frames[0].Active)
	assert.True(t, frames[1].Active)
}

func TestReadTrace_MergesInSequenceOrder(t *testing.T) {
	j := openTemp(t)
	id := uuid.Must(uuid.NewV7())

	require.NoError(t, j.RecordChange(0, id, "x", 1.0))
	require.NoError(t, j.RecordFrame(0, id, true))
	require.NoError(t, j.RecordChange(1, id, "x", 2.0))

	trace, err := j.ReadTrace(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, trace, 3)

	assert.NotNil(t, trace[0].Change)
	assert.NotNil(t, trace[1].Frame)
	assert.NotNil(t, trace[2].Change)
	assert.Equal(t, []int64{1, 2, 3}, []int64{trace[0].Seq, trace[1].Seq, trace[2].Seq})
}

func TestOpen_ResumesSequenceClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	id := uuid.Must(uuid.NewV7())

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.RecordChange(0, id, "x", 1.0))
	require.NoError(t, j1.RecordFrame(0, id, true))
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	assert.Equal(t, int64(2), j2.Seq().Current())
	require.NoError(t, j2.RecordChange(1, id, "x", 2.0))

	changes, err := j2.Changes(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, int64(3), changes[1].Seq)
}

func TestSeq_Monotonic(t *testing.T) {
	s := NewSeq()
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())

	r := NewSeqAt(10)
	assert.Equal(t, int64(11), r.Next())
}
