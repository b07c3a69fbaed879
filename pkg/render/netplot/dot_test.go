package netplot

import (
	"strings"
	"testing"

	"github.com/evisynth/nmakit/pkg/nma"
)

func geometry(t *testing.T, comparisons []nma.TreatmentComparison) *nma.NetworkGeometryAssessment {
	t.Helper()
	a, err := nma.AssessNetworkGeometry(comparisons)
	if err != nil {
		t.Fatalf("AssessNetworkGeometry: %v", err)
	}
	return a
}

func TestToDOT(t *testing.T) {
	a := geometry(t, []nma.TreatmentComparison{
		{StudyID: "S1", TreatmentA: "A", TreatmentB: "B"},
		{StudyID: "S2", TreatmentA: "A", TreatmentB: "B"},
		{StudyID: "S3", TreatmentA: "B", TreatmentB: "C"},
	})

	dot := ToDOT(a, Options{})

	if !strings.HasPrefix(dot, "graph nma {") {
		t.Errorf("DOT should declare an undirected graph, got prefix %q", dot[:20])
	}
	for _, want := range []string{`"A"`, `"B"`, `"C"`, `"A" -- "B"`, `"B" -- "C"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	// A-B has two studies, B-C one: only B-C is dashed.
	if !strings.Contains(dot, `"A" -- "B" [penwidth=2]`) {
		t.Errorf("A-B edge should have penwidth 2:\n%s", dot)
	}
	if !strings.Contains(dot, `"B" -- "C" [penwidth=1, style=dashed]`) {
		t.Errorf("B-C edge should be dashed:\n%s", dot)
	}
}

func TestToDOTHighlightsHub(t *testing.T) {
	a := geometry(t, []nma.TreatmentComparison{
		{StudyID: "S1", TreatmentA: "Hub", TreatmentB: "X"},
		{StudyID: "S2", TreatmentA: "Hub", TreatmentB: "Y"},
		{StudyID: "S3", TreatmentA: "Hub", TreatmentB: "Z"},
	})

	dot := ToDOT(a, Options{})
	if !strings.Contains(dot, "lightgoldenrod") {
		t.Errorf("star hub should be highlighted:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	a := geometry(t, []nma.TreatmentComparison{
		{StudyID: "S1", TreatmentA: "A", TreatmentB: "B", NA: 50, NB: 48},
	})

	dot := ToDOT(a, Options{Detailed: true})
	if !strings.Contains(dot, "1 studies, 50 participants") {
		t.Errorf("detailed node labels missing:\n%s", dot)
	}
}
