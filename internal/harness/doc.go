// Package harness runs scenario files: a composition document, a tick
// range, and a set of watched properties. A run produces a deterministic
// trace of resolved values and activity flags, compared against golden
// files, so timeline behavior is pinned end to end without a real media
// stack behind it.
package harness
