package nma

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/evisynth/nmakit/pkg/errors"
)

func TestAssessNetworkGeometry(t *testing.T) {
	a, err := AssessNetworkGeometry([]TreatmentComparison{
		{StudyID: "S1", TreatmentA: "A", TreatmentB: "B", NA: 50, NB: 50},
		{StudyID: "S2", TreatmentA: "B", TreatmentB: "C", NA: 40, NB: 40},
		{StudyID: "S3", TreatmentA: "A", TreatmentB: "C", NA: 30, NB: 30},
	})
	if err != nil {
		t.Fatalf("AssessNetworkGeometry: %v", err)
	}

	if len(a.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(a.Nodes))
	}
	if len(a.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(a.Edges))
	}
	if !a.Connectivity.IsConnected {
		t.Error("IsConnected = false, want true")
	}
	if a.Characteristics.Completeness != 1.0 {
		t.Errorf("Completeness = %g, want 1.0", a.Characteristics.Completeness)
	}
	if a.Confidence <= 0 {
		t.Errorf("Confidence = %g, want positive", a.Confidence)
	}
}

func TestAssessNetworkGeometryEmpty(t *testing.T) {
	_, err := AssessNetworkGeometry(nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRankTreatmentsSorted(t *testing.T) {
	a, err := RankTreatments([]TreatmentEffect{
		{Treatment: "Worst", EffectSize: -5, StandardError: 0.1},
		{Treatment: "Best", EffectSize: 5, StandardError: 0.1},
		{Treatment: "Middle", EffectSize: 0, StandardError: 0.1},
	}, RankOptions{Seed: 11})
	if err != nil {
		t.Fatalf("RankTreatments: %v", err)
	}

	if a.BestTreatment != "Best" {
		t.Errorf("BestTreatment = %q, want Best", a.BestTreatment)
	}
	if a.WorstTreatment != "Worst" {
		t.Errorf("WorstTreatment = %q, want Worst", a.WorstTreatment)
	}
	for i := 1; i < len(a.Rankings); i++ {
		if a.Rankings[i-1].SUCRA < a.Rankings[i].SUCRA {
			t.Errorf("rankings not sorted by SUCRA descending at %d", i)
		}
	}
	if !strings.Contains(a.Interpretation, "strong evidence") {
		t.Errorf("Interpretation = %q, want strong-evidence phrasing", a.Interpretation)
	}
	if a.Simulations != DefaultSimulations {
		t.Errorf("Simulations = %d, want %d", a.Simulations, DefaultSimulations)
	}
}

func TestRankTreatmentsUncertain(t *testing.T) {
	// Three indistinguishable treatments: no winner, uncertain
	// interpretation, a recommendation to report distributions.
	a, err := RankTreatments([]TreatmentEffect{
		{Treatment: "A", EffectSize: 0, StandardError: 2},
		{Treatment: "B", EffectSize: 0, StandardError: 2},
		{Treatment: "C", EffectSize: 0, StandardError: 2},
	}, RankOptions{Seed: 5})
	if err != nil {
		t.Fatalf("RankTreatments: %v", err)
	}

	if !strings.Contains(a.Interpretation, "no treatment is clearly best") {
		t.Errorf("Interpretation = %q, want uncertain phrasing", a.Interpretation)
	}
	if len(a.Recommendations) == 0 {
		t.Error("want a recommendation for uncertain rankings")
	}
	if a.Confidence >= 0.7 {
		t.Errorf("Confidence = %g, want below the 0.7 baseline", a.Confidence)
	}
}

func TestRankTreatmentsInvalid(t *testing.T) {
	_, err := RankTreatments([]TreatmentEffect{{Treatment: "A"}}, RankOptions{})
	if err == nil {
		t.Fatal("expected error for a single effect")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestAssessmentJSONShape(t *testing.T) {
	// Assessments are embedded verbatim into reports, so the field
	// names are part of the contract.
	geo, err := AssessNetworkGeometry([]TreatmentComparison{
		{StudyID: "S1", TreatmentA: "A", TreatmentB: "B"},
	})
	if err != nil {
		t.Fatalf("AssessNetworkGeometry: %v", err)
	}
	data, err := json.Marshal(geo)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"nodes", "edges", "connectivity", "characteristics", "confidence", "is_connected", "n_components"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("geometry JSON missing key %q", key)
		}
	}

	rank, err := RankTreatments([]TreatmentEffect{
		{Treatment: "A", EffectSize: 1, StandardError: 0.1},
		{Treatment: "B", EffectSize: 0, StandardError: 0.1},
	}, RankOptions{Seed: 1})
	if err != nil {
		t.Fatalf("RankTreatments: %v", err)
	}
	data, err = json.Marshal(rank)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"rankings", "sucra", "p_score", "prob_best", "mean_rank", "median_rank", "rank_probabilities", "best_treatment", "interpretation"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("ranking JSON missing key %q", key)
		}
	}
}
