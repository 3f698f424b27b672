package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario drives a composition through a tick range and watches a set of
// properties, producing a deterministic trace for golden comparison.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Doc is the composition document path, relative to the scenario file.
	Doc string `yaml:"doc"`

	// From, To, Step bound the tick range (inclusive of To).
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step"`

	// Watch lists the properties sampled at every tick.
	Watch []WatchSpec `yaml:"watch"`

	// dir is the scenario file's directory, for resolving Doc.
	dir string
}

// WatchSpec names one sampled property by document layer name.
type WatchSpec struct {
	Layer    string `yaml:"layer"`
	Property string `yaml:"property"`
}

// LoadScenario reads a scenario file. Decoding is strict; unknown fields
// fail rather than silently dropping.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Doc == "" {
		return nil, fmt.Errorf("scenario %s: doc is required", path)
	}
	if s.Step <= 0 {
		return nil, fmt.Errorf("scenario %s: step must be positive", path)
	}

	s.dir = filepath.Dir(path)
	return &s, nil
}

// DocPath resolves the composition document path against the scenario
// file location.
func (s *Scenario) DocPath() string {
	if filepath.IsAbs(s.Doc) || s.dir == "" {
		return s.Doc
	}
	return filepath.Join(s.dir, s.Doc)
}
