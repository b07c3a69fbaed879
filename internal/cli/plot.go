package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evisynth/nmakit/pkg/pipeline"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	formats  string // comma-separated output formats
	output   string // output base path
	detailed bool   // annotate nodes and edges with study counts
}

// newPlotCmd creates the plot command.
// It renders the comparison network as a graph drawing.
func newPlotCmd() *cobra.Command {
	opts := plotOpts{formats: pipeline.FormatSVG, output: "network"}

	cmd := &cobra.Command{
		Use:   "plot <comparisons-file>",
		Short: "Render the comparison network as DOT, SVG, or PNG",
		Long: `Render the treatment comparison network as a graph drawing. Edge
thickness reflects the number of backing studies; sparse comparisons
are drawn dashed, and the hub of a star-shaped network is highlighted.

Examples:
  nmakit plot trials.json                         # writes network.svg
  nmakit plot trials.json -f png -o geometry      # writes geometry.png
  nmakit plot trials.json -f dot,svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runPlot(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output base path (extension is appended per format)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "annotate nodes and edges with study counts")

	return cmd
}

func runPlot(ctx context.Context, opts *plotOpts, path string) error {
	logger := loggerFromContext(ctx)
	formats := parseFormats(opts.formats)

	logger.Infof("Plotting comparison network from %s", path)
	runner := pipeline.NewRunner(nil, logger)

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ComparisonsPath: path,
		Formats:         formats,
		Detailed:        opts.detailed,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d treatments in %s",
		result.Geometry.Characteristics.NTreatments, strings.Join(formats, ", ")))

	for _, format := range formats {
		out := opts.output + "." + format
		if err := os.WriteFile(out, result.Plots[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
