package comp

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// validate unifies the raw document with the embedded CUE schema.
// Runs on the untyped YAML value so extra shape constraints (layer type
// enum, non-negative ranges) are checked against exactly what the author
// wrote.
func validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return NewParseError(err.Error())
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Document"))
	if !def.Exists() {
		return fmt.Errorf("document schema has no #Document definition")
	}

	unified := def.Unify(ctx.Encode(raw))
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return NewSchemaError("", err.Error())
	}
	return nil
}
