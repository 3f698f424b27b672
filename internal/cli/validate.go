package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinema-dev/kinema/internal/comp"
)

// ValidationResult holds document validation results.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Doc    string `json:"doc"`
	Layers int    `json:"layers,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <doc>",
		Short: "Validate a composition document",
		Long: `Validate a composition document without building it.

Checks strict YAML decoding, identifier normalization, and the embedded
schema (layer types, canvas and timing ranges).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := comp.Load(path)
	if err != nil {
		var de *comp.DocumentError
		if errors.As(err, &de) {
			if outErr := formatter.Error(de.Code, de.Message, de.Path); outErr != nil {
				return outErr
			}
			return NewExitError(ExitFailure, de.Error())
		}
		return WrapExitError(ExitCommandError, fmt.Sprintf("load %s", path), err)
	}

	formatter.VerboseLog("Validated %d layer(s)", len(doc.Layers))

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Doc: path, Layers: len(doc.Layers)})
	}
	return formatter.Success(fmt.Sprintf("%s: valid (%d layers)", path, len(doc.Layers)))
}
