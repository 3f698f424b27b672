package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kinema-dev/kinema/internal/comp"
	"github.com/kinema-dev/kinema/internal/harness"
	"github.com/kinema-dev/kinema/internal/journal"
	"github.com/kinema-dev/kinema/internal/layer"
	"github.com/kinema-dev/kinema/internal/movie"
	"github.com/kinema-dev/kinema/internal/render"
)

// RenderSummary reports a completed render run.
type RenderSummary struct {
	Doc    string  `json:"doc"`
	Ticks  int     `json:"ticks"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Step   float64 `json:"step"`
	Frames int     `json:"frames_written,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outDir      string
		journalPath string
		from, to    float64
		step        float64
	)

	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Tick a composition across its timeline",
		Long: `Build a composition and tick it from start to end.

With --out, each active visual layer's surface is written as a PNG per
tick. With --journal, property changes and frame activity are recorded
to a SQLite journal for later replay with the trace command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, args[0], outDir, journalPath, from, to, step, cmd)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory for frame PNGs")
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal path")
	cmd.Flags().Float64Var(&from, "from", 0, "first tick")
	cmd.Flags().Float64Var(&to, "to", -1, "last tick (default: document duration)")
	cmd.Flags().Float64Var(&step, "step", 0, "tick increment (default: document step, then 1)")

	return cmd
}

func runRender(opts *RootOptions, path, outDir, journalPath string, from, to, step float64, cmd *cobra.Command) error {
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

	if to < 0 {
		to = doc.Movie.Duration
	}
	if step <= 0 {
		step = doc.Movie.Step
	}
	if step <= 0 {
		step = 1
	}

	buildOpts := []comp.BuildOption{comp.WithMedia(harness.SyntheticOpener{})}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open journal", err)
		}
		defer j.Close()
		buildOpts = append(buildOpts, comp.WithMovieOptions(movie.WithJournal(j)))
	}

	built, err := comp.Build(doc, buildOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "build composition", err)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return WrapExitError(ExitCommandError, "create output directory", err)
		}
	}

	summary := RenderSummary{Doc: path, From: from, To: to, Step: step}
	for t := from; t <= to+step/2; t += step {
		if err := built.Movie.Tick(t); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("tick %g", t), err)
		}
		summary.Ticks++
		formatter.VerboseLog("tick %g", t)

		if outDir == "" {
			continue
		}
		written, err := writeFrames(outDir, built, summary.Ticks-1)
		if err != nil {
			return WrapExitError(ExitCommandError, "write frames", err)
		}
		summary.Frames += written
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	return formatter.Success(fmt.Sprintf("%s: %d tick(s), %d frame(s) written", path, summary.Ticks, summary.Frames))
}

// writeFrames encodes every active visual layer's surface as a PNG.
func writeFrames(dir string, built *comp.Result, tick int) (int, error) {
	written := 0
	for _, child := range built.Movie.Layers() {
		base := child.Base()
		if !base.Active() {
			continue
		}
		visual, ok := child.(interface{ Surface() render.Context })
		if !ok {
			continue
		}
		img, ok := visual.Surface().(*render.ImageContext)
		if !ok || img == nil {
			continue
		}

		name := fmt.Sprintf("%s_%s_%04d.png", base.Kind(), layerFileID(base), tick)
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return written, err
		}
		if err := png.Encode(f, img.Image()); err != nil {
			f.Close()
			return written, err
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// layerFileID shortens a layer's UUID for file names.
func layerFileID(base *layer.Layer) string {
	id := base.ID().String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
