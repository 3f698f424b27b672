// Package journal persists a movie's runtime history to SQLite: every
// property change that reaches the movie bus and every layer's activity
// at each clock tick, all stamped by one monotonic sequence clock so a
// trace replays in the exact order the engine produced it.
package journal
