package observe

import (
	"sort"
	"strings"
)

// PrivatePrefix marks bookkeeping fields that never emit change events.
const PrivatePrefix = "_"

// ChangeEvent describes one tracked field mutation.
type ChangeEvent struct {
	// Property is the dotted path from the tracked root, e.g. "border.color".
	// Paths never include bookkeeping fields.
	Property string

	// NewValue is the value just assigned.
	NewValue any
}

// Publisher receives change events for a tracked root.
type Publisher interface {
	PublishChange(ev ChangeEvent)
}

// Tracker watches an object's public fields and turns mutations into change
// events with dotted-path identity.
//
// Rather than intercepting raw field writes, the tracker owns an arena of
// watched nodes keyed by path. Assignments go through Node.Set, which wraps
// nested composites into child nodes at insertion time and then emits on the
// tracker's publisher.
//
// One tracker per object, created after all fields intended to be observed
// have been installed with their initial values (via Node.Init).
type Tracker struct {
	pub     Publisher
	exclude map[string]bool
	nodes   map[string]*Node
}

// NewTracker creates a tracker publishing to pub.
//
// exclude lists root-level field names that never emit. Exclusion sets are
// additive down a type hierarchy; see MergeExclusions.
func NewTracker(pub Publisher, exclude map[string]bool) *Tracker {
	t := &Tracker{
		pub:     pub,
		exclude: exclude,
		nodes:   make(map[string]*Node),
	}
	t.nodes[""] = &Node{tr: t, path: "", fields: make(map[string]any)}
	return t
}

// Root returns the root node of the tracked object.
func (t *Tracker) Root() *Node {
	return t.nodes[""]
}

// MergeExclusions builds a subtype's excluded-field set from its supertype's
// set plus its own additions. The base set is not mutated.
func MergeExclusions(base map[string]bool, extra ...string) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k := range base {
		out[k] = true
	}
	for _, k := range extra {
		out[k] = true
	}
	return out
}

// Node is one watched object in the arena: the root, or a nested composite
// wrapped at insertion time.
type Node struct {
	tr     *Tracker
	path   string // "" at the root
	fields map[string]any
}

// Path returns the node's dotted path from the root ("" for the root).
func (n *Node) Path() string {
	return n.path
}

// Init installs a field with its initial value without emitting.
// Used during construction, before the object is considered observable.
func (n *Node) Init(field string, v any) {
	n.store(field, v)
}

// Set assigns a field and emits a change event on the tracker's publisher.
//
// Emission is suppressed when the assignment is root-level and the field
// name has the reserved private prefix, appears in the exclusion set, or did
// not already exist (which covers assignments during construction).
func (n *Node) Set(field string, v any) {
	_, existed := n.fields[field]
	n.store(field, v)

	if n.path == "" {
		if strings.HasPrefix(field, PrivatePrefix) {
			return
		}
		if n.tr.exclude[field] {
			return
		}
		if !existed {
			return
		}
	}

	n.tr.pub.PublishChange(ChangeEvent{
		Property: n.childPath(field),
		NewValue: v,
	})
}

// Get returns a field's current value.
func (n *Node) Get(field string) (any, bool) {
	v, ok := n.fields[field]
	return v, ok
}

// Child returns the wrapped node for a composite-valued field.
func (n *Node) Child(field string) (*Node, bool) {
	c, ok := n.tr.nodes[n.childPath(field)]
	return c, ok
}

// Raw returns the node's underlying field map. Reading it never emits;
// it is the escape hatch for identity checks against the unwrapped object.
func (n *Node) Raw() map[string]any {
	return n.fields
}

// Fields returns the node's field names in sorted order.
func (n *Node) Fields() []string {
	out := make([]string, 0, len(n.fields))
	for k := range n.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// store performs the assignment, wrapping composite values into child nodes.
func (n *Node) store(field string, v any) {
	if m, ok := v.(map[string]any); ok {
		n.wrapChild(field, m)
	}
	n.fields[field] = v
}

// wrapChild registers (or replaces) the child node for a nested composite,
// tagging it with its dotted path. The child's fields are installed silently:
// they carry their initial values and only later mutations emit.
func (n *Node) wrapChild(field string, m map[string]any) {
	path := n.childPath(field)

	child := &Node{tr: n.tr, path: path, fields: make(map[string]any, len(m))}
	n.tr.dropSubtree(path)
	n.tr.nodes[path] = child

	for k, v := range m {
		child.store(k, v)
	}
}

// dropSubtree removes a node and all nodes beneath it from the arena.
// Replacing a composite field abandons its previous wrapping.
func (t *Tracker) dropSubtree(path string) {
	prefix := path + "."
	for p := range t.nodes {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(t.nodes, p)
		}
	}
}

// childPath computes parentPath + "." + field, or just field at the root.
func (n *Node) childPath(field string) string {
	if n.path == "" {
		return field
	}
	return n.path + "." + field
}
