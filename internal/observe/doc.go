// Package observe implements the reactive change-propagation wrapper.
//
// A Tracker turns assignments to designated "public" fields into change
// events carrying a dotted path from the tracked root. Nested composite
// values are wrapped into child nodes at insertion time, so mutations deep
// in an object graph still emit with their full path ("border.color").
//
// The design is arena-style: a table of watched nodes keyed by path, not a
// live graph of write interceptors. Assignment goes through an explicit
// mutator (Node.Set); Node.Init installs initial values silently during
// construction, and root-level fields that are private-prefixed, excluded,
// or not yet installed never emit.
package observe
