package nma

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/evisynth/nmakit/pkg/errors"
)

// DefaultSimulations is the number of Monte-Carlo draws used when
// RankOptions.Simulations is zero.
const DefaultSimulations = 10000

// RankOptions configures the rank simulation.
type RankOptions struct {
	// Simulations is the number of Monte-Carlo draws.
	// Zero means DefaultSimulations.
	Simulations int `json:"simulations,omitempty"`

	// LowerIsBetter declares the direction convention of the effect
	// scale. The zero value treats larger effect sizes as better; when
	// true, effect sizes are negated before simulating so "better"
	// always sorts first.
	LowerIsBetter bool `json:"lower_is_better,omitempty"`

	// Seed makes the simulation reproducible. Zero derives a seed from
	// entropy.
	Seed uint64 `json:"seed,omitempty"`
}

// TreatmentRanking is the per-treatment output of the rank simulation.
//
// RankProbabilities has one entry per treatment in the input: index i
// holds the probability of finishing at rank i+1. Each treatment's
// vector sums to 1, and across treatments each rank position's
// probabilities sum to 1 (within simulation tolerance).
type TreatmentRanking struct {
	Treatment string `json:"treatment"`

	// SUCRA is the surface under the cumulative ranking curve on a
	// 0-100 scale: certainly best scores 100, certainly worst 0.
	SUCRA float64 `json:"sucra"`

	// PScore is the deterministic analog of SUCRA derived from mean
	// rank, on a 0-1 scale. It should closely track SUCRA/100 for
	// well-behaved inputs; a large divergence is surfaced as a warning
	// by the composer rather than reconciled here.
	PScore float64 `json:"p_score"`

	ProbBest   float64 `json:"prob_best"`
	MeanRank   float64 `json:"mean_rank"`
	MedianRank int     `json:"median_rank"`

	RankProbabilities []float64 `json:"rank_probabilities"`
}

// SimulateRankings draws joint samples of all treatment effects and
// derives each treatment's rank-probability distribution.
//
// Per draw, every treatment's effect is perturbed by z*SE with z drawn
// from a standard normal distribution, and treatments are sorted by
// perturbed effect with "better" first. Counters accumulate locally per
// rank position and are folded into probabilities after the final draw.
//
// Runs in O(Simulations * n log n). Fails with INVALID_INPUT on fewer
// than two effects or a negative standard error.
func SimulateRankings(effects []TreatmentEffect, opts RankOptions) ([]TreatmentRanking, error) {
	if err := ValidateEffects(effects); err != nil {
		return nil, err
	}
	if err := errors.ValidateSimulations(opts.Simulations); err != nil {
		return nil, err
	}

	sims := opts.Simulations
	if sims == 0 {
		sims = DefaultSimulations
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	n := len(effects)
	sign := 1.0
	if opts.LowerIsBetter {
		sign = -1.0
	}

	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}

	perturbed := make([]float64, n)
	order := make([]int, n)

	for range sims {
		for i, e := range effects {
			perturbed[i] = sign*e.EffectSize + rng.NormFloat64()*e.StandardError
		}
		for i := range order {
			order[i] = i
		}
		slices.SortFunc(order, func(a, b int) int {
			return cmp.Compare(perturbed[b], perturbed[a])
		})
		for rank, i := range order {
			counts[i][rank]++
		}
	}

	rankings := make([]TreatmentRanking, n)
	for i, e := range effects {
		probs := make([]float64, n)
		for r, c := range counts[i] {
			probs[r] = float64(c) / float64(sims)
		}
		rankings[i] = summarize(e.Treatment, probs)
	}
	return rankings, nil
}

// summarize derives the scalar statistics from a treatment's
// rank-probability vector.
func summarize(treatment string, probs []float64) TreatmentRanking {
	n := len(probs)

	var meanRank float64
	for r, p := range probs {
		meanRank += p * float64(r+1)
	}

	// Median: smallest 1-based rank where cumulative probability
	// first reaches 0.5.
	medianRank := n
	cum := 0.0
	for r, p := range probs {
		cum += p
		if cum >= 0.5 {
			medianRank = r + 1
			break
		}
	}

	// SUCRA: normalized area under the cumulative ranking curve,
	// excluding the final point (always 1 by definition).
	sucra := 0.0
	if n > 1 {
		cum = 0.0
		area := 0.0
		for r := 0; r < n-1; r++ {
			cum += probs[r]
			area += cum
		}
		sucra = 100 * area / float64(n-1)
	}

	pScore := 0.0
	if n > 1 {
		pScore = clamp((float64(n)-meanRank)/float64(n-1), 0, 1)
	}

	return TreatmentRanking{
		Treatment:         treatment,
		SUCRA:             sucra,
		PScore:            pScore,
		ProbBest:          probs[0],
		MeanRank:          meanRank,
		MedianRank:        medianRank,
		RankProbabilities: probs,
	}
}
