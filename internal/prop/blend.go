package prop

import (
	"math"
	"reflect"
	"sort"
)

// Blend combines two keyframe values at a progress t in [0, 1].
//
// All blend functions share one contract:
//   - a scalar and a value of a different runtime type fail with a type
//     mismatch
//   - values that are neither numeric nor composite return a unchanged,
//     regardless of t (flat/step fallback)
//   - composite values must share the same structural shape, failing with
//     a shape mismatch otherwise; the result contains only the fields
//     present in both inputs, each blended recursively at the same t
//
// keys supplies the field names to blend for composite values whose own
// keys cannot be enumerated; it may be nil.
type Blend func(a, b any, t float64, keys []string) (any, error)

// Linear blends numbers as (1-t)*a + t*b.
func Linear(a, b any, t float64, keys []string) (any, error) {
	return blendWith(a, b, t, keys, Linear, func(x, y float64) float64 {
		return (1-t)*x + t*y
	})
}

// Cosine blends numbers with an eased weight w = cos(pi/2 * t), returning
// w*a + (1-w)*b.
//
// This is an ease-in/out weighting, not a matched-phase cosine crossfade.
// Kept exactly as historically specified for compatibility.
func Cosine(a, b any, t float64, keys []string) (any, error) {
	return blendWith(a, b, t, keys, Cosine, func(x, y float64) float64 {
		w := math.Cos(math.Pi / 2 * t)
		return w*x + (1-w)*y
	})
}

// blendWith implements the shared blend contract, dispatching scalar math to
// num and composite recursion back to self.
func blendWith(a, b any, t float64, keys []string, self Blend, num func(x, y float64) float64) (any, error) {
	if !sameRuntimeType(a, b) {
		return nil, NewTypeMismatchError(t, a, b)
	}

	if isNumber(a) {
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return num(x, y), nil
	}

	if isComposite(a) {
		return blendComposite(a, b, t, keys, self)
	}

	// Neither number nor composite: hold the first value flat.
	return a, nil
}

// blendComposite blends two composite values field by field.
// Both values are required to share the same concrete type.
func blendComposite(a, b any, t float64, keys []string, self Blend) (any, error) {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return nil, NewShapeMismatchError(a, b)
	}

	switch av := a.(type) {
	case map[string]any:
		return blendMap(av, b.(map[string]any), t, keys, self)
	case []any:
		return blendSlice(av, b.([]any), t, self)
	}

	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return blendStruct(a, b, t, keys, self)
	}

	return nil, NewShapeMismatchError(a, b)
}

// blendMap blends the intersection of both maps' keys.
// The field list is taken from a's keys, or from the supplied keys when given.
func blendMap(a, b map[string]any, t float64, keys []string, self Blend) (any, error) {
	fields := keys
	if fields == nil {
		fields = make([]string, 0, len(a))
		for k := range a {
			fields = append(fields, k)
		}
		sort.Strings(fields)
	}

	out := make(map[string]any, len(fields))
	for _, k := range fields {
		x, okA := a[k]
		y, okB := b[k]
		if !okA || !okB {
			// Fields present in only one input are dropped.
			continue
		}
		blended, err := self(x, y, t, nil)
		if err != nil {
			return nil, err
		}
		out[k] = blended
	}
	return out, nil
}

// blendSlice blends elements index by index over the shared prefix.
func blendSlice(a, b []any, t float64, self Blend) (any, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		blended, err := self(a[i], b[i], t, nil)
		if err != nil {
			return nil, err
		}
		out[i] = blended
	}
	return out, nil
}

// blendStruct blends two struct values of the same type, producing a new
// struct of that type. Only exported fields are blended; when keys is given,
// blending is restricted to the named fields and the rest are copied from a.
func blendStruct(a, b any, t float64, keys []string, self Blend) (any, error) {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	wasPtr := av.Kind() == reflect.Pointer
	if wasPtr {
		av = av.Elem()
		bv = bv.Elem()
	}

	var keySet map[string]bool
	if keys != nil {
		keySet = make(map[string]bool, len(keys))
		for _, k := range keys {
			keySet[k] = true
		}
	}

	out := reflect.New(av.Type()).Elem()
	for i := 0; i < av.NumField(); i++ {
		field := av.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		if keySet != nil && !keySet[field.Name] {
			out.Field(i).Set(av.Field(i))
			continue
		}
		blended, err := self(av.Field(i).Interface(), bv.Field(i).Interface(), t, nil)
		if err != nil {
			return nil, err
		}
		rb := reflect.ValueOf(blended)
		if rb.Type() != field.Type && rb.CanConvert(field.Type) {
			rb = rb.Convert(field.Type)
		}
		out.Field(i).Set(rb)
	}

	if wasPtr {
		p := reflect.New(av.Type())
		p.Elem().Set(out)
		return p.Interface(), nil
	}
	return out.Interface(), nil
}
