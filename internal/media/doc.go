// Package media defines the external playable-resource contract bound to
// audio and video layers, plus a synthetic in-memory implementation.
//
// Readiness is the only asynchronous boundary in the system: a resource
// becomes decodable exactly once, with no ordering guarantee relative to
// other resources. A not-yet-ready resource is a valid transient state,
// never an error.
package media
