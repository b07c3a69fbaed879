package nma

import (
	"fmt"
	"math"
	"slices"
)

// NetworkGeometryAssessment is the complete geometry report for one
// comparison network. It is a plain, JSON-serializable record intended
// to be embedded verbatim into larger reports.
//
// Confidence is the classifier's coarse additive heuristic on
// [0.1, 0.9], not a statistical confidence interval.
type NetworkGeometryAssessment struct {
	Nodes           []TreatmentNode `json:"nodes"`
	Edges           []NetworkEdge   `json:"edges"`
	MultiArmTrials  []MultiArmTrial `json:"multi_arm_trials,omitempty"`
	Connectivity    Connectivity    `json:"connectivity"`
	Characteristics Characteristics `json:"characteristics"`
	Issues          []string        `json:"issues,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Confidence      float64         `json:"confidence"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// TreatmentRankingAssessment is the complete ranking report. Rankings
// are sorted by SUCRA descending.
type TreatmentRankingAssessment struct {
	Rankings       []TreatmentRanking `json:"rankings"`
	BestTreatment  string             `json:"best_treatment"`
	WorstTreatment string             `json:"worst_treatment"`
	Interpretation string             `json:"interpretation"`

	Simulations    int  `json:"simulations"`
	HigherIsBetter bool `json:"higher_is_better"`

	Recommendations []string `json:"recommendations,omitempty"`
	Confidence      float64  `json:"confidence"`
	Warnings        []string `json:"warnings,omitempty"`
}

// AssessNetworkGeometry builds the comparison network and classifies
// its topology with default thresholds. Fails with INVALID_INPUT on an
// empty comparison list.
func AssessNetworkGeometry(comparisons []TreatmentComparison) (*NetworkGeometryAssessment, error) {
	return AssessNetworkGeometryWithConfig(comparisons, Config{})
}

// AssessNetworkGeometryWithConfig is AssessNetworkGeometry with
// explicit classifier thresholds.
func AssessNetworkGeometryWithConfig(comparisons []TreatmentComparison, cfg Config) (*NetworkGeometryAssessment, error) {
	network, err := BuildNetwork(comparisons)
	if err != nil {
		return nil, err
	}
	c := ClassifyTopology(network, cfg)

	return &NetworkGeometryAssessment{
		Nodes:           network.Nodes(),
		Edges:           network.Edges(),
		MultiArmTrials:  network.MultiArmTrials(),
		Connectivity:    c.Connectivity,
		Characteristics: c.Characteristics,
		Issues:          c.Issues,
		Recommendations: c.Recommendations,
		Confidence:      c.Confidence,
		Warnings:        c.Warnings,
	}, nil
}

// Interpretation thresholds on the best treatment's probability of
// ranking first.
const (
	probBestStrong = 0.8
	probBestLikely = 0.5
)

// pscoreDivergenceWarn is the SUCRA-scale gap between P-score*100 and
// SUCRA beyond which the two summaries disagree enough to surface.
const pscoreDivergenceWarn = 10.0

// RankTreatments runs the rank simulation and packages the result.
// Fails with INVALID_INPUT on fewer than two effects or a negative
// standard error.
func RankTreatments(effects []TreatmentEffect, opts RankOptions) (*TreatmentRankingAssessment, error) {
	rankings, err := SimulateRankings(effects, opts)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(rankings, func(a, b TreatmentRanking) int {
		switch {
		case a.SUCRA > b.SUCRA:
			return -1
		case a.SUCRA < b.SUCRA:
			return 1
		default:
			return 0
		}
	})

	sims := opts.Simulations
	if sims == 0 {
		sims = DefaultSimulations
	}

	best := rankings[0]
	worst := rankings[len(rankings)-1]

	a := &TreatmentRankingAssessment{
		Rankings:       rankings,
		BestTreatment:  best.Treatment,
		WorstTreatment: worst.Treatment,
		Interpretation: interpret(best),
		Simulations:    sims,
		HigherIsBetter: !opts.LowerIsBetter,
		Confidence:     0.7,
	}

	switch {
	case best.ProbBest > probBestStrong:
		a.Confidence += 0.1
	case best.ProbBest < probBestLikely:
		a.Confidence -= 0.1
		a.Recommendations = append(a.Recommendations,
			"rankings are uncertain: report rank probabilities alongside point ranks rather than a single winner")
	}

	for _, r := range rankings {
		if gap := math.Abs(r.PScore*100 - r.SUCRA); gap > pscoreDivergenceWarn {
			a.Warnings = append(a.Warnings, fmt.Sprintf(
				"P-score and SUCRA diverge for %q (%.1f vs %.1f): rank distribution may be multimodal",
				r.Treatment, r.PScore*100, r.SUCRA))
			a.Confidence -= 0.1
			break
		}
	}

	a.Confidence = clamp(a.Confidence, 0.1, 0.9)
	return a, nil
}

func interpret(best TreatmentRanking) string {
	switch {
	case best.ProbBest > probBestStrong:
		return fmt.Sprintf(
			"strong evidence that %s is the best treatment (%.0f%% probability of ranking first, SUCRA %.1f)",
			best.Treatment, best.ProbBest*100, best.SUCRA)
	case best.ProbBest > probBestLikely:
		return fmt.Sprintf(
			"%s is likely the best treatment (%.0f%% probability of ranking first, SUCRA %.1f)",
			best.Treatment, best.ProbBest*100, best.SUCRA)
	default:
		return fmt.Sprintf(
			"no treatment is clearly best: %s ranks highest by SUCRA (%.1f) but has only a %.0f%% probability of ranking first",
			best.Treatment, best.SUCRA, best.ProbBest*100)
	}
}
