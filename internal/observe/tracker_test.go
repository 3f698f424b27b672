package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []ChangeEvent
}

func (r *recorder) PublishChange(ev ChangeEvent) {
	r.events = append(r.events, ev)
}

func TestTracker_RootAssignmentEmitsOnce(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("x", 1.0)
	require.Empty(t, rec.events, "initialization must not emit")

	root.Set("x", 2.0)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "x", rec.events[0].Property)
	assert.Equal(t, 2.0, rec.events[0].NewValue)
}

func TestTracker_NewRootFieldIsSuppressed(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	// A field that did not previously exist emits nothing: this covers
	// assignments during construction.
	root.Set("fresh", 1.0)
	assert.Empty(t, rec.events)

	// The second assignment emits.
	root.Set("fresh", 2.0)
	assert.Len(t, rec.events, 1)
}

func TestTracker_PrivatePrefixSuppressed(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("_surface", "bookkeeping")
	root.Set("_surface", "replaced")
	assert.Empty(t, rec.events)
}

func TestTracker_ExclusionList(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, map[string]bool{"cache": true})
	root := tr.Root()

	root.Init("cache", 1)
	root.Set("cache", 2)
	assert.Empty(t, rec.events)
}

func TestMergeExclusions_Additive(t *testing.T) {
	base := map[string]bool{"id": true}
	sub := MergeExclusions(base, "surface", "cache")

	assert.True(t, sub["id"])
	assert.True(t, sub["surface"])
	assert.True(t, sub["cache"])
	assert.Len(t, base, 1, "base set must not be mutated")
}

func TestTracker_NestedAssignmentEmitsDottedPath(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("x", map[string]any{"a": 1.0})

	child, ok := root.Child("x")
	require.True(t, ok)
	assert.Equal(t, "x", child.Path())

	child.Set("a", 2.0)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "x.a", rec.events[0].Property)
	assert.Equal(t, 2.0, rec.events[0].NewValue)
}

func TestTracker_DeepNesting(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("border", map[string]any{
		"color": map[string]any{"r": 0.0, "g": 0.0},
	})

	border, ok := root.Child("border")
	require.True(t, ok)
	color, ok := border.Child("color")
	require.True(t, ok)

	color.Set("r", 255.0)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "border.color.r", rec.events[0].Property)
}

func TestTracker_AssigningCompositeEmitsThenWraps(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("x", 0.0)
	root.Set("x", map[string]any{"a": 1.0})
	require.Len(t, rec.events, 1)
	assert.Equal(t, "x", rec.events[0].Property)

	// The freshly wrapped child observes further mutation.
	child, ok := root.Child("x")
	require.True(t, ok)
	child.Set("a", 2.0)
	require.Len(t, rec.events, 2)
	assert.Equal(t, "x.a", rec.events[1].Property)
}

func TestTracker_ReplacingCompositeDropsOldSubtree(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("x", map[string]any{"a": map[string]any{"deep": 1.0}})
	root.Set("x", map[string]any{"b": 2.0})

	child, ok := root.Child("x")
	require.True(t, ok)
	_, ok = child.Get("a")
	assert.False(t, ok, "old subtree fields must be gone")
	_, ok = child.Get("b")
	assert.True(t, ok)
}

func TestTracker_RawEscapeHatch(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, nil)
	root := tr.Root()

	root.Init("x", 1.0)
	raw := root.Raw()
	assert.Equal(t, 1.0, raw["x"])
	assert.Empty(t, rec.events, "reading the raw object must not emit")
}

func TestTracker_Fields(t *testing.T) {
	tr := NewTracker(&recorder{}, nil)
	root := tr.Root()
	root.Init("b", 1)
	root.Init("a", 2)

	assert.Equal(t, []string{"a", "b"}, root.Fields())
}
