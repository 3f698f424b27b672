package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinema-dev/kinema/internal/comp"
	"github.com/kinema-dev/kinema/internal/harness"
)

// ResolveResult holds one resolved property value.
type ResolveResult struct {
	Layer    string  `json:"layer"`
	Property string  `json:"property"`
	Time     float64 `json:"time"`
	Value    any     `json:"value"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		layerName string
		property  string
		time      float64
	)

	cmd := &cobra.Command{
		Use:   "resolve <doc>",
		Short: "Resolve one property at a point in time",
		Long: `Build a composition and resolve a single property through the
interpolation engine at a given movie time.

Media sources resolve to synthetic resources, so resolution works without
decoders or files present.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], layerName, property, time, cmd)
		},
	}

	cmd.Flags().StringVar(&layerName, "layer", "", "document layer name (required)")
	cmd.Flags().StringVar(&property, "property", "", "property name (required)")
	cmd.Flags().Float64Var(&time, "time", 0, "movie time to resolve at")
	cmd.MarkFlagRequired("layer")
	cmd.MarkFlagRequired("property")

	return cmd
}

func runResolve(opts *RootOptions, path, layerName, property string, time float64, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := comp.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("load %s", path), err)
	}

	built, err := comp.Build(doc, comp.WithMedia(harness.SyntheticOpener{}))
	if err != nil {
		return WrapExitError(ExitCommandError, "build composition", err)
	}

	child, ok := built.Named[layerName]
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("no layer named %q", layerName))
	}

	base := child.Base()
	value, err := base.Resolve(property, time-base.StartTime())
	if err != nil {
		if outErr := formatter.Error("RESOLVE_FAILED", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "resolve", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ResolveResult{
			Layer:    layerName,
			Property: property,
			Time:     time,
			Value:    value,
		})
	}
	return formatter.Success(fmt.Sprintf("%s.%s @ %g = %v", layerName, property, time, value))
}
