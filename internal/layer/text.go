package layer

import (
	"fmt"

	"github.com/kinema-dev/kinema/internal/render"
)

// Text is a visual layer that draws a line of text.
// The text, its color, and its offsets are all animatable properties.
type Text struct {
	Visual
}

// textDefaults enumerates the text layer's recognized options.
func textDefaults() Options {
	return mergeDefaults(mergeDefaults(baseDefaults(), visualDefaults()), Options{
		"text":  nil,
		"font":  "",
		"color": "#ffffff",
		"textX": 0.0,
		"textY": 13.0,
	})
}

// NewText constructs a text layer.
// The "text" option is required; unrecognized options fail construction.
func NewText(opts Options) (*Text, error) {
	merged, err := resolveOptions("text", textDefaults(), opts)
	if err != nil {
		return nil, err
	}
	if merged["text"] == nil {
		return nil, NewInvalidValueError("text", "text", "text is required")
	}

	t := &Text{}
	if err := t.initVisual("text", merged, visualExclusions()); err != nil {
		return nil, err
	}
	t.content = t.drawText
	t.bind(t)
	return t, nil
}

// drawText resolves the text and color properties and draws the line.
func (t *Text) drawText(ctx render.Context, reltime float64) error {
	raw, err := t.Resolve("text", reltime)
	if err != nil {
		return err
	}
	s, ok := raw.(string)
	if !ok {
		return NewInvalidValueError("text", "text", fmt.Sprintf("resolved to %T, want string", raw))
	}

	rawColor, err := t.Resolve("color", reltime)
	if err != nil {
		return err
	}
	c, err := toColor("text", "color", rawColor)
	if err != nil {
		return err
	}

	x, err := t.ResolveFloat("textX", reltime, 0)
	if err != nil {
		return err
	}
	y, err := t.ResolveFloat("textY", reltime, 13)
	if err != nil {
		return err
	}

	ctx.DrawText(s, x, y, c)
	return nil
}
