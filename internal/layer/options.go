package layer

// Options is the untyped configuration surface of a layer: a map from
// recognized option names to values, any of which may itself be a property
// specification (constant, function, or keyframe map).
type Options map[string]any

// baseDefaults enumerates the option names every layer recognizes.
func baseDefaults() Options {
	return Options{
		"id":       nil,
		"start":    0.0,
		"duration": 0.0,
	}
}

// mergeDefaults overlays extra recognized options onto a defaults set.
func mergeDefaults(defaults Options, extra Options) Options {
	out := make(Options, len(defaults)+len(extra))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// resolveOptions merges supplied options over defaults.
// Option names outside the defaults set are a configuration error: the
// defaults enumerate exactly the recognized surface of the layer kind.
func resolveOptions(layerKind string, defaults Options, supplied Options) (Options, error) {
	merged := make(Options, len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range supplied {
		if _, ok := defaults[k]; !ok {
			return nil, NewUnknownOptionError(layerKind, k)
		}
		merged[k] = v
	}
	return merged, nil
}

// floatOption reads a numeric option, tolerating any numeric kind.
// Returns the fallback when the option is absent or nil.
func floatOption(o Options, name string, fallback float64) (float64, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return fallback, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, NewInvalidValueError("", name, "expected a number")
	}
	return f, nil
}

// stringOption reads a string option, returning the fallback when absent.
func stringOption(o Options, name, fallback string) (string, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", NewInvalidValueError("", name, "expected a string")
	}
	return s, nil
}

// toFloat converts any numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
