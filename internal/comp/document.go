package comp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Document is a parsed composition: one movie plus its layers.
type Document struct {
	Movie  MovieDoc   `yaml:"movie"`
	Layers []LayerDoc `yaml:"layers"`
}

// MovieDoc declares the movie's canvas and timeline.
type MovieDoc struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Duration float64 `yaml:"duration"`

	// Step is the tick increment for range playback. Zero means 1.
	Step float64 `yaml:"step,omitempty"`
}

// LayerDoc declares one layer. Property values may be constants or
// keyframe maps; their variant is detected when the layer is built.
type LayerDoc struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`

	// Source names the media or image resource for layers that need one.
	Source string `yaml:"source,omitempty"`

	Start    float64  `yaml:"start,omitempty"`
	Duration *float64 `yaml:"duration,omitempty"`

	Options    map[string]any `yaml:"options,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
	Effects    []string       `yaml:"effects,omitempty"`
}

// Load reads, parses, and validates a composition document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(fmt.Sprintf("read %s: %v", path, err))
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a composition document.
//
// Decoding is strict: unknown fields are rejected rather than ignored, so
// a misspelled option name fails loudly instead of silently dropping.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewParseError(err.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, NewParseError(err.Error())
	}

	doc.normalize()

	if err := validate(data); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize canonicalizes document identifiers to Unicode NFC so layer
// names compare byte-wise regardless of how the source file composed them.
func (d *Document) normalize() {
	for i := range d.Layers {
		d.Layers[i].Type = norm.NFC.String(d.Layers[i].Type)
		d.Layers[i].Name = norm.NFC.String(d.Layers[i].Name)
		d.Layers[i].Source = norm.NFC.String(d.Layers[i].Source)
	}
}
