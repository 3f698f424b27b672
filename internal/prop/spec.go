package prop

import (
	"fmt"
	"strconv"
)

// Spec is a sealed interface representing the three property specification
// variants. Only Constant, Func, and *Keyframes implement it.
//
// The variant is fixed at assignment time. Structural detection of keyframe
// sets happens once, in Classify, rather than on every resolution.
type Spec interface {
	propSpec() // Sealed - only these types implement it
}

// Constant is a property fixed to a single value of any type.
type Constant struct {
	Value any
}

func (Constant) propSpec() {}

// Func is a property computed from its owner and the current time.
// The result is returned directly by Resolve, with no recursion into it.
type Func func(owner any, time float64) any

func (Func) propSpec() {}

// Keyframes is a sparse, time-indexed table of values. Values between two
// keyframes are blended by the set's Interpolate function (Linear when nil).
//
// Keys lists the field names used when blending composite values whose own
// keys cannot be enumerated. It is passed through to the blend function.
type Keyframes struct {
	Frames      map[float64]any
	Interpolate Blend
	Keys        []string
}

func (*Keyframes) propSpec() {}

// NewKeyframes builds a keyframe set from a frame table.
// A set with zero entries is not a keyframe set; this returns an error.
func NewKeyframes(frames map[float64]any) (*Keyframes, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("keyframe set must have at least one entry")
	}
	return &Keyframes{Frames: frames}, nil
}

// Reserved field names recognized inside an untyped keyframe map.
const (
	fieldInterpolate       = "interpolate"
	fieldInterpolationKeys = "interpolationKeys"
)

// Classify converts an untyped value to its Spec variant.
//
// Detection is structural, matching the historical contract:
//   - an existing Spec is returned unchanged
//   - a func(owner, time) becomes Func
//   - a map[float64]any with at least one entry becomes Keyframes
//   - a map[string]any whose keys are all numeric strings or the reserved
//     names "interpolate"/"interpolationKeys", with at least one numeric
//     entry, becomes Keyframes
//   - everything else, including an empty map, becomes Constant
//
// KNOWN LIMITATION: a hand-built option map that happens to use only
// numeric-like keys is indistinguishable from a keyframe set. Callers that
// need such a map as a constant must wrap it in Constant explicitly.
func Classify(v any) Spec {
	switch tv := v.(type) {
	case nil:
		return Constant{Value: nil}
	case Spec:
		return tv
	case func(owner any, time float64) any:
		return Func(tv)
	case map[float64]any:
		if len(tv) == 0 {
			return Constant{Value: v}
		}
		frames := make(map[float64]any, len(tv))
		for k, fv := range tv {
			frames[k] = fv
		}
		return &Keyframes{Frames: frames}
	case map[string]any:
		if kf, ok := classifyStringMap(tv); ok {
			return kf
		}
		return Constant{Value: v}
	default:
		return Constant{Value: v}
	}
}

// classifyStringMap applies keyframe detection to a string-keyed map,
// the shape YAML composition documents decode to.
func classifyStringMap(m map[string]any) (*Keyframes, bool) {
	if len(m) == 0 {
		return nil, false
	}

	frames := make(map[float64]any)
	kf := &Keyframes{}

	for k, v := range m {
		switch k {
		case fieldInterpolate:
			blend, ok := blendFor(v)
			if !ok {
				return nil, false
			}
			kf.Interpolate = blend
		case fieldInterpolationKeys:
			keys, ok := stringSlice(v)
			if !ok {
				return nil, false
			}
			kf.Keys = keys
		default:
			t, err := strconv.ParseFloat(k, 64)
			if err != nil {
				return nil, false
			}
			frames[t] = v
		}
	}

	// Reserved fields alone do not make a keyframe set.
	if len(frames) == 0 {
		return nil, false
	}

	kf.Frames = frames
	return kf, true
}

// blendFor maps an untyped interpolate field to a Blend.
// Accepts a Blend directly or the names "linear" and "cosine".
func blendFor(v any) (Blend, bool) {
	switch bv := v.(type) {
	case Blend:
		return bv, true
	case func(a, b any, t float64, keys []string) (any, error):
		return Blend(bv), true
	case string:
		switch bv {
		case "linear":
			return Linear, true
		case "cosine":
			return Cosine, true
		}
	}
	return nil, false
}

// stringSlice converts an untyped interpolationKeys field to []string.
func stringSlice(v any) ([]string, bool) {
	switch sv := v.(type) {
	case []string:
		return sv, true
	case []any:
		out := make([]string, 0, len(sv))
		for _, e := range sv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
