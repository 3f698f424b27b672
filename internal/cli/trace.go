package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kinema-dev/kinema/internal/journal"
)

// TraceRow is one printed journal entry.
type TraceRow struct {
	Seq      int64   `json:"seq"`
	Kind     string  `json:"kind"`
	Time     float64 `json:"time"`
	Layer    string  `json:"layer"`
	Property string  `json:"property,omitempty"`
	Value    any     `json:"value,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		journalPath string
		layerID     string
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Replay a recorded journal",
		Long: `Read a SQLite journal written by the render command and print its
entries in the exact sequence the engine produced them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, journalPath, layerID, cmd)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal path (required)")
	cmd.Flags().StringVar(&layerID, "layer", "", "filter by layer UUID")
	cmd.MarkFlagRequired("journal")

	return cmd
}

func runTrace(opts *RootOptions, journalPath, layerID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	filter := uuid.Nil
	if layerID != "" {
		parsed, err := uuid.Parse(layerID)
		if err != nil {
			return WrapExitError(ExitCommandError, "parse layer id", err)
		}
		filter = parsed
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	entries, err := j.ReadTrace(cmd.Context(), filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "read trace", err)
	}

	rows := make([]TraceRow, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Change != nil:
			rows = append(rows, TraceRow{
				Seq:      e.Seq,
				Kind:     "change",
				Time:     e.Change.Time,
				Layer:    e.Change.LayerID.String(),
				Property: e.Change.Property,
				Value:    e.Change.Value,
			})
		case e.Frame != nil:
			active := e.Frame.Active
			rows = append(rows, TraceRow{
				Seq:    e.Seq,
				Kind:   "frame",
				Time:   e.Frame.Time,
				Layer:  e.Frame.LayerID.String(),
				Active: &active,
			})
		}
	}

	if opts.Format == "json" {
		return formatter.Success(rows)
	}
	for _, r := range rows {
		switch r.Kind {
		case "change":
			fmt.Fprintf(cmd.OutOrStdout(), "%6d  %8.3f  change  %s  %s = %v\n", r.Seq, r.Time, r.Layer, r.Property, r.Value)
		case "frame":
			fmt.Fprintf(cmd.OutOrStdout(), "%6d  %8.3f  frame   %s  active=%t\n", r.Seq, r.Time, r.Layer, *r.Active)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d entr(ies)\n", len(rows))
	return nil
}
