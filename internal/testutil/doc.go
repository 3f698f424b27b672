// Package testutil provides deterministic test doubles: fixed and
// sequential identity generators for golden comparison, and an event
// collector for bus assertions. Synthetic media resources live in the
// media package itself, next to the interface they implement.
package testutil
