package prop

import (
	"math"
	"reflect"
)

// Resolve computes the concrete value of a property specification at a time.
//
// Constants are returned unchanged. Functions are invoked with (owner, time)
// and their result is returned directly. Keyframe sets are interpolated; the
// result is never cached across time values.
//
// A nil spec resolves to nil.
func Resolve(s Spec, owner any, time float64) (any, error) {
	switch sv := s.(type) {
	case nil:
		return nil, nil
	case Constant:
		return sv.Value, nil
	case Func:
		return sv(owner, time), nil
	case *Keyframes:
		return resolveKeyframes(sv, time)
	default:
		// Unreachable for sealed implementations; treat as constant.
		return s, nil
	}
}

// resolveKeyframes finds the bounding keyframes around time and blends them.
//
// Frame storage is unsorted; resolution is a full scan for the greatest key
// at or below time and the least key at or above it.
func resolveKeyframes(k *Keyframes, time float64) (any, error) {
	lowerTime, upperTime := 0.0, math.Inf(1)
	var lowerVal, upperVal any
	var haveLower, haveUpper bool

	for kt, kv := range k.Frames {
		if kt <= time && kt >= lowerTime {
			lowerTime = kt
			lowerVal = kv
			haveLower = true
		}
		if kt >= time && kt <= upperTime {
			upperTime = kt
			upperVal = kv
			haveUpper = true
		}
	}

	if !haveLower {
		return nil, NewNoLowerKeyframeError(time)
	}

	// Non-numeric, non-composite values hold flat until the next keyframe.
	// No upper bound is required for them.
	if !isNumber(lowerVal) && !isComposite(lowerVal) {
		return lowerVal, nil
	}

	if !haveUpper {
		return nil, NewNoUpperKeyframeError(time)
	}
	if !sameRuntimeType(lowerVal, upperVal) {
		return nil, NewTypeMismatchError(time, lowerVal, upperVal)
	}

	// Equal bounds cover the exact-hit case and guard division by zero.
	if lowerTime == upperTime {
		return upperVal, nil
	}

	t := (time - lowerTime) / (upperTime - lowerTime)
	blend := k.Interpolate
	if blend == nil {
		blend = Linear
	}
	return blend(lowerVal, upperVal, t, k.Keys)
}

// isNumber reports whether v is any numeric kind.
func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isComposite reports whether v is an object-like value: a map, slice,
// array, struct, or pointer to struct.
func isComposite(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}

// sameRuntimeType reports whether a and b share a runtime type for
// interpolation purposes. All numeric kinds count as one type, and all
// composite kinds count as one type: two composites of differing concrete
// shape pass this gate and fail later with a shape mismatch, which names
// the actual problem.
func sameRuntimeType(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return true
	}
	if isComposite(a) && isComposite(b) {
		return true
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// toFloat converts any numeric kind to float64.
// The ok result is false for non-numeric values.
func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// ToFloat converts a resolved property value to float64.
// The ok result is false for non-numeric values.
func ToFloat(v any) (float64, bool) {
	return toFloat(v)
}
