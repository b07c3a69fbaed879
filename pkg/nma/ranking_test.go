package nma

import (
	"math"
	"slices"
	"testing"

	"github.com/evisynth/nmakit/pkg/errors"
)

func TestSimulateRankingsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		effects []TreatmentEffect
	}{
		{
			name:    "Empty",
			effects: nil,
		},
		{
			name: "SingleEffect",
			effects: []TreatmentEffect{
				{Treatment: "A", EffectSize: 1},
			},
		},
		{
			name: "NegativeStandardError",
			effects: []TreatmentEffect{
				{Treatment: "A", EffectSize: 1, StandardError: -0.5},
				{Treatment: "B", EffectSize: 0, StandardError: 0.5},
			},
		},
		{
			name: "DuplicateTreatment",
			effects: []TreatmentEffect{
				{Treatment: "A", EffectSize: 1, StandardError: 0.5},
				{Treatment: "A", EffectSize: 0, StandardError: 0.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateRankings(tt.effects, RankOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestTwoTreatmentSanity(t *testing.T) {
	rankings, err := SimulateRankings([]TreatmentEffect{
		{Treatment: "A", EffectSize: 10, StandardError: 0.01},
		{Treatment: "B", EffectSize: 0, StandardError: 0.01},
	}, RankOptions{Seed: 42})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	a, b := rankings[0], rankings[1]
	if a.ProbBest < 0.999 {
		t.Errorf("A.ProbBest = %g, want ~1", a.ProbBest)
	}
	if a.SUCRA < 99.9 {
		t.Errorf("A.SUCRA = %g, want ~100", a.SUCRA)
	}
	if b.ProbBest > 0.001 {
		t.Errorf("B.ProbBest = %g, want ~0", b.ProbBest)
	}
	if b.SUCRA > 0.1 {
		t.Errorf("B.SUCRA = %g, want ~0", b.SUCRA)
	}
}

func TestRankProbabilityNormalization(t *testing.T) {
	effects := []TreatmentEffect{
		{Treatment: "A", EffectSize: 0.4, StandardError: 0.3},
		{Treatment: "B", EffectSize: 0.2, StandardError: 0.3},
		{Treatment: "C", EffectSize: 0.0, StandardError: 0.3},
		{Treatment: "D", EffectSize: -0.1, StandardError: 0.3},
	}

	rankings, err := SimulateRankings(effects, RankOptions{Seed: 7})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	const tol = 1e-6

	// Per treatment, probabilities across ranks sum to 1.
	for _, r := range rankings {
		sum := 0.0
		for _, p := range r.RankProbabilities {
			sum += p
		}
		if math.Abs(sum-1) > tol {
			t.Errorf("%s rank probabilities sum = %g, want 1", r.Treatment, sum)
		}
	}

	// Per rank position, probabilities across treatments sum to 1.
	for pos := range effects {
		sum := 0.0
		for _, r := range rankings {
			sum += r.RankProbabilities[pos]
		}
		if math.Abs(sum-1) > tol {
			t.Errorf("rank position %d probabilities sum = %g, want 1", pos+1, sum)
		}
	}

	for _, r := range rankings {
		if r.SUCRA < 0 || r.SUCRA > 100 {
			t.Errorf("%s SUCRA = %g, want within [0, 100]", r.Treatment, r.SUCRA)
		}
		if r.PScore < 0 || r.PScore > 1 {
			t.Errorf("%s PScore = %g, want within [0, 1]", r.Treatment, r.PScore)
		}
	}
}

func TestDeterministicRanks(t *testing.T) {
	// With zero standard errors the ordering is fixed, so every
	// derived statistic is exact.
	rankings, err := SimulateRankings([]TreatmentEffect{
		{Treatment: "A", EffectSize: 3},
		{Treatment: "B", EffectSize: 2},
		{Treatment: "C", EffectSize: 1},
	}, RankOptions{Seed: 1, Simulations: 100})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	tests := []struct {
		ranking    TreatmentRanking
		wantMean   float64
		wantMedian int
		wantSUCRA  float64
		wantPScore float64
		wantBest   float64
	}{
		{rankings[0], 1, 1, 100, 1, 1},
		{rankings[1], 2, 2, 50, 0.5, 0},
		{rankings[2], 3, 3, 0, 0, 0},
	}

	for _, tt := range tests {
		r := tt.ranking
		if r.MeanRank != tt.wantMean {
			t.Errorf("%s MeanRank = %g, want %g", r.Treatment, r.MeanRank, tt.wantMean)
		}
		if r.MedianRank != tt.wantMedian {
			t.Errorf("%s MedianRank = %d, want %d", r.Treatment, r.MedianRank, tt.wantMedian)
		}
		if r.SUCRA != tt.wantSUCRA {
			t.Errorf("%s SUCRA = %g, want %g", r.Treatment, r.SUCRA, tt.wantSUCRA)
		}
		if r.PScore != tt.wantPScore {
			t.Errorf("%s PScore = %g, want %g", r.Treatment, r.PScore, tt.wantPScore)
		}
		if r.ProbBest != tt.wantBest {
			t.Errorf("%s ProbBest = %g, want %g", r.Treatment, r.ProbBest, tt.wantBest)
		}
	}
}

func TestZeroValueOptionsRankHigherFirst(t *testing.T) {
	// The zero value of RankOptions follows the conventional direction:
	// larger effect sizes rank first without setting any field.
	rankings, err := SimulateRankings([]TreatmentEffect{
		{Treatment: "A", EffectSize: 10, StandardError: 0.01},
		{Treatment: "B", EffectSize: 0, StandardError: 0.01},
	}, RankOptions{})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	if a := rankings[0]; a.ProbBest < 0.999 {
		t.Errorf("A.ProbBest = %g, want ~1 with zero-value options", a.ProbBest)
	}
}

func TestLowerIsBetter(t *testing.T) {
	// On a lower-is-better scale (e.g., symptom scores) the smaller
	// effect must win.
	rankings, err := SimulateRankings([]TreatmentEffect{
		{Treatment: "A", EffectSize: 10, StandardError: 0.01},
		{Treatment: "B", EffectSize: 0, StandardError: 0.01},
	}, RankOptions{LowerIsBetter: true, Seed: 42})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	b := rankings[1]
	if b.Treatment != "B" {
		t.Fatalf("rankings[1].Treatment = %q, want B (input order preserved)", b.Treatment)
	}
	if b.ProbBest < 0.999 {
		t.Errorf("B.ProbBest = %g, want ~1 on a lower-is-better scale", b.ProbBest)
	}
}

func TestSeedReproducibility(t *testing.T) {
	effects := []TreatmentEffect{
		{Treatment: "A", EffectSize: 0.3, StandardError: 0.5},
		{Treatment: "B", EffectSize: 0.1, StandardError: 0.5},
		{Treatment: "C", EffectSize: -0.2, StandardError: 0.5},
	}
	opts := RankOptions{Seed: 99, Simulations: 2000}

	first, err := SimulateRankings(effects, opts)
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}
	second, err := SimulateRankings(effects, opts)
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	for i := range first {
		if !slices.Equal(first[i].RankProbabilities, second[i].RankProbabilities) {
			t.Errorf("%s rank probabilities differ across runs with the same seed", first[i].Treatment)
		}
	}
}

func TestDominantTreatmentConverges(t *testing.T) {
	// A treatment far ahead of the field with negligible uncertainty
	// must converge to SUCRA ~100 and prob_best ~1.
	rankings, err := SimulateRankings([]TreatmentEffect{
		{Treatment: "A", EffectSize: 1000, StandardError: 1e-9},
		{Treatment: "B", EffectSize: 0, StandardError: 1},
		{Treatment: "C", EffectSize: 0.1, StandardError: 1},
	}, RankOptions{Seed: 3})
	if err != nil {
		t.Fatalf("SimulateRankings: %v", err)
	}

	a := rankings[0]
	if a.ProbBest != 1 {
		t.Errorf("A.ProbBest = %g, want 1", a.ProbBest)
	}
	if a.SUCRA != 100 {
		t.Errorf("A.SUCRA = %g, want 100", a.SUCRA)
	}
}
