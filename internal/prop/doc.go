// Package prop implements the property resolution and interpolation engine.
//
// A layer property is one of three variants, fixed at assignment time:
//
//   - Constant: a plain value of any type
//   - Func: a function of (owner, time)
//   - Keyframes: a sparse time-indexed table blended as the clock advances
//
// Resolution is on demand and never cached across time values. Keyframe
// storage is unsorted; each resolution scans for the greatest key at or
// below the requested time and the least key at or above it, then blends
// the two bounding values with the set's blend function (Linear by default).
//
// Non-numeric, non-composite keyframe values hold flat ("step" semantics)
// until the next keyframe, with no upper bound required.
//
// All failures are synchronous ResolutionErrors with a structured code.
// There is no partial result or degraded fallback: a failed resolution
// fails the render tick that requested it.
package prop
