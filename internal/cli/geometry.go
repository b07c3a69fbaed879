package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evisynth/nmakit/pkg/nma"
	"github.com/evisynth/nmakit/pkg/pipeline"
	"github.com/evisynth/nmakit/pkg/store"
)

// geometryOpts holds the command-line flags for the geometry command.
type geometryOpts struct {
	output     string // output file path (stdout if empty)
	minStudies int    // sparse-comparison threshold
	save       bool   // archive the assessment locally
}

// newGeometryCmd creates the geometry command.
// It reads pairwise comparisons from a JSON or CSV dataset, builds the
// comparison network, and classifies its topology.
func newGeometryCmd() *cobra.Command {
	opts := geometryOpts{minStudies: nma.DefaultMinStudiesPerEdge}

	cmd := &cobra.Command{
		Use:   "geometry <comparisons-file>",
		Short: "Build and classify the treatment comparison network",
		Long: `Build the treatment comparison network from pairwise comparisons and
classify its geometry: connectivity, density, star shape, sparse edges,
and multi-arm trials.

The input is a JSON dataset ({"comparisons": [...]}) or a CSV file with
study_id, treatment_a and treatment_b columns.

Examples:
  nmakit geometry trials.json
  nmakit geometry trials.csv -o geometry.json
  nmakit geometry trials.json --min-studies 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGeometry(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&opts.minStudies, "min-studies", opts.minStudies, "studies per comparison below which an edge counts as sparse")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive the assessment under ~/.config/nmakit")

	return cmd
}

func runGeometry(ctx context.Context, opts *geometryOpts, path string) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Assessing network geometry from %s", path)

	st, err := localStore(opts.save)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(st, logger)

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ComparisonsPath:   path,
		MinStudiesPerEdge: opts.minStudies,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	geometry := result.Geometry
	prog.done(fmt.Sprintf("Assessed %d treatments across %d studies",
		geometry.Characteristics.NTreatments, geometry.Characteristics.NStudies))

	printGeometrySummary(geometry)
	if result.GeometryID != "" {
		printDetail("archived as %s", result.GeometryID)
	}

	return writeAssessment(geometry, opts.output)
}

// printGeometrySummary prints the human-readable geometry report.
func printGeometrySummary(g *nma.NetworkGeometryAssessment) {
	printTitle("Network geometry")
	printNetworkStats(g.Characteristics.NTreatments, g.Characteristics.NEdges, g.Characteristics.NStudies)

	if g.Connectivity.IsConnected {
		printSuccess("network is connected")
	} else {
		printWarning("network is disconnected (%d components)", g.Connectivity.NComponents)
	}
	if g.Characteristics.IsStarShaped {
		printInfo("star-shaped network centered on %s", StyleHighlight.Render(g.Characteristics.CentralTreatment))
	}
	for _, issue := range g.Issues {
		printWarning("%s", issue)
	}
	for _, w := range g.Warnings {
		printDetail("%s", w)
	}
	printKeyValue("confidence", fmt.Sprintf("%.2f", g.Confidence))
	printNewline()
}

// localStore returns a file store when save is requested, nil otherwise.
func localStore(save bool) (store.Store, error) {
	if !save {
		return nil, nil
	}
	return store.NewFileStore("")
}
