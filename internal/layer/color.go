package layer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the handful of names composition documents use.
var namedColors = map[string]color.NRGBA{
	"black":       {A: 0xff},
	"white":       {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"red":         {R: 0xff, A: 0xff},
	"green":       {G: 0xff, A: 0xff},
	"blue":        {B: 0xff, A: 0xff},
	"transparent": {},
}

// toColor converts a resolved property value to a color.
//
// Accepted shapes: nil (no color), a color.Color, a "#rgb"/"#rrggbb"/
// "#rrggbbaa" or named string, or an r/g/b(/a) component map in 0-255,
// the shape keyframe blending produces for animated colors.
func toColor(kind, option string, v any) (color.Color, error) {
	switch cv := v.(type) {
	case nil:
		return nil, nil
	case color.Color:
		return cv, nil
	case string:
		c, err := parseColorString(cv)
		if err != nil {
			return nil, NewInvalidValueError(kind, option, err.Error())
		}
		return c, nil
	case map[string]any:
		return componentColor(kind, option, cv)
	default:
		return nil, NewInvalidValueError(kind, option, fmt.Sprintf("cannot use %T as a color", v))
	}
}

// componentColor builds a color from an r/g/b(/a) map with 0-255 components.
func componentColor(kind, option string, m map[string]any) (color.Color, error) {
	chn := func(name string, fallback float64) (uint8, error) {
		f, err := floatOption(Options(m), name, fallback)
		if err != nil {
			return 0, NewInvalidValueError(kind, option, fmt.Sprintf("color component %q is not a number", name))
		}
		if f < 0 {
			f = 0
		}
		if f > 255 {
			f = 255
		}
		return uint8(f), nil
	}

	r, err := chn("r", 0)
	if err != nil {
		return nil, err
	}
	g, err := chn("g", 0)
	if err != nil {
		return nil, err
	}
	b, err := chn("b", 0)
	if err != nil {
		return nil, err
	}
	a, err := chn("a", 255)
	if err != nil {
		return nil, err
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// parseColorString parses hex and named color strings.
func parseColorString(s string) (color.Color, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return nil, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex color %q", s)
			}
			out[i] = uint8(n * 17)
		}
		return color.NRGBA{R: out[0], G: out[1], B: out[2], A: 0xff}, nil
	case 6, 8:
		var out [4]uint8
		out[3] = 0xff
		for i := 0; i*2 < len(hex); i++ {
			n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex color %q", s)
			}
			out[i] = uint8(n)
		}
		return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
	default:
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
}
