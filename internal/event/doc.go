// Package event implements the movie-scoped typed event bus.
//
// Every movie owns its own Bus; there is no process-wide singleton. Event
// categories are a typed Kind enum rather than free-form strings, and every
// subscription is an explicit handle released on layer detach.
//
// Delivery model:
//
// Synchronous, single-goroutine, cooperative. Publish delivers to matching
// subscribers in subscription order within the caller's goroutine. Events
// published from inside a handler are queued and delivered after the current
// event finishes, so one event's delivery never interleaves with another's.
//
// Targeting: a subscription names the object it listens on (a layer or a
// movie); a nil target is a wildcard for its Kind. Matching is by identity.
package event
