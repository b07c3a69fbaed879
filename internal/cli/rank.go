package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evisynth/nmakit/pkg/nma"
	"github.com/evisynth/nmakit/pkg/pipeline"
)

// rankOpts holds the command-line flags for the rank command.
type rankOpts struct {
	simulations   int    // Monte Carlo iterations
	seed          uint64 // random seed (0 = non-deterministic)
	lowerIsBetter bool   // smaller effect sizes rank higher
	output        string // output file path (stdout if empty)
	save          bool   // archive the assessment locally
}

// newRankCmd creates the rank command.
// It reads treatment effect estimates and ranks treatments by simulating
// rank distributions under sampling uncertainty.
func newRankCmd() *cobra.Command {
	opts := rankOpts{simulations: nma.DefaultSimulations}

	cmd := &cobra.Command{
		Use:   "rank <effects-file>",
		Short: "Rank treatments via Monte Carlo rank simulation",
		Long: `Rank treatments by repeatedly perturbing effect estimates with their
standard errors and tallying how often each treatment lands at each
rank. Reports SUCRA, P-score, probability of being best, and mean and
median ranks.

The input is a JSON dataset ({"effects": [...]}) with one effect size
and standard error per treatment.

Examples:
  nmakit rank effects.json
  nmakit rank effects.json --simulations 50000 --seed 42
  nmakit rank effects.json --lower-is-better   # e.g. mortality outcomes`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runRank(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.simulations, "simulations", opts.simulations, "number of Monte Carlo iterations")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible rankings (0 = random)")
	cmd.Flags().BoolVar(&opts.lowerIsBetter, "lower-is-better", false, "treat smaller effect sizes as better")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive the assessment under ~/.config/nmakit")

	return cmd
}

func runRank(ctx context.Context, opts *rankOpts, path string) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Ranking treatments from %s with %d simulations", path, opts.simulations)

	st, err := localStore(opts.save)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(st, logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("simulating %d rank permutations", opts.simulations))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		EffectsPath:   path,
		Simulations:   opts.simulations,
		Seed:          opts.seed,
		LowerIsBetter: opts.lowerIsBetter,
		Logger:        logger,
	})
	if err != nil {
		spinner.StopWithError(err.Error())
		return err
	}
	ranking := result.Ranking
	spinner.StopWithSuccess(fmt.Sprintf("Ranked %d treatments (%s)",
		len(ranking.Rankings), result.Stats.RankingTime.Round(time.Millisecond)))

	printRankingSummary(ranking)
	if result.RankingID != "" {
		printDetail("archived as %s", result.RankingID)
	}

	return writeAssessment(ranking, opts.output)
}

// printRankingSummary prints the human-readable ranking report.
func printRankingSummary(r *nma.TreatmentRankingAssessment) {
	printTitle("Treatment rankings")
	for i, t := range r.Rankings {
		printDetail("%d. %s  SUCRA %.1f · P-score %.2f · P(best) %.2f · mean rank %.2f",
			i+1, StyleValue.Render(t.Treatment), t.SUCRA, t.PScore, t.ProbBest, t.MeanRank)
	}
	printNewline()
	printKeyValue("best", r.BestTreatment)
	printKeyValue("worst", r.WorstTreatment)
	printKeyValue("confidence", fmt.Sprintf("%.2f", r.Confidence))
	printInfo("%s", r.Interpretation)
	for _, w := range r.Warnings {
		printWarning("%s", w)
	}
	printNewline()
}
