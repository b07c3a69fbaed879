package nma

import (
	"fmt"
	"slices"
)

// DefaultMinStudiesPerEdge is the default threshold below which a direct
// comparison is flagged as sparse. A single study per comparison leaves
// no way to check consistency of that edge.
const DefaultMinStudiesPerEdge = 2

// Config holds the tunable thresholds of the topology classifier.
//
// The defaults are provisional, hand-picked cutoffs rather than
// empirically validated guidance; they are exposed here precisely so
// callers can align them with whatever methodological standard applies
// to their review.
type Config struct {
	// MinStudiesPerEdge flags edges with fewer direct studies as
	// sparse. Zero means DefaultMinStudiesPerEdge.
	MinStudiesPerEdge int
}

func (c Config) minStudies() int {
	if c.MinStudiesPerEdge <= 0 {
		return DefaultMinStudiesPerEdge
	}
	return c.MinStudiesPerEdge
}

// Issue labels attached to a geometry classification. Each maps to a
// human-readable warning and, usually, a recommendation.
const (
	IssueDisconnected      = "disconnected_network"
	IssueSparseComparisons = "sparse_comparisons"
	IssueStarShaped        = "star_shaped"
	IssueIsolatedTreatment = "isolated_treatments"
	IssueTooFewTreatments  = "too_few_treatments"
)

// Characteristics summarizes the structural shape of the comparison
// network.
type Characteristics struct {
	NTreatments    int     `json:"n_treatments"`
	NComparisons   int     `json:"n_comparisons"`
	NEdges         int     `json:"n_edges"`
	NStudies       int     `json:"n_studies"`
	AvgConnections float64 `json:"avg_connections"`

	// Completeness is the fraction of all possible pairwise
	// comparisons with direct evidence: |E| / (n*(n-1)/2).
	Completeness float64 `json:"completeness"`

	IsStarShaped     bool   `json:"is_star_shaped"`
	CentralTreatment string `json:"central_treatment,omitempty"`

	// SparseComparisons lists edges backed by fewer studies than the
	// configured threshold, formatted "A vs B".
	SparseComparisons []string `json:"sparse_comparisons,omitempty"`

	// IsolatedTreatments lists treatments with exactly one direct
	// neighbor. Their rankings lean entirely on indirect evidence.
	IsolatedTreatments []string `json:"isolated_treatments,omitempty"`
}

// Classification is the full topology classifier output: structural
// characteristics plus the issues, warnings and recommendations derived
// from them.
//
// Confidence is a deliberately coarse additive heuristic on [0.1, 0.9],
// not a statistical confidence interval: it starts at 0.7 and loses
// fixed penalties per structural risk factor.
type Classification struct {
	Characteristics Characteristics
	Connectivity    Connectivity
	Issues          []string
	Warnings        []string
	Recommendations []string
	Confidence      float64
}

// ClassifyTopology analyzes the network's structure under the given
// configuration.
func ClassifyTopology(n *Network, cfg Config) Classification {
	conn := n.Components()
	nTreatments := n.TreatmentCount()
	nEdges := n.EdgeCount()

	chars := Characteristics{
		NTreatments:    nTreatments,
		NComparisons:   n.ComparisonCount(),
		NEdges:         nEdges,
		NStudies:       n.StudyCount(),
		AvgConnections: meanDegree(n),
		Completeness:   completeness(nTreatments, nEdges),
	}

	chars.IsStarShaped, chars.CentralTreatment = detectStar(n)
	chars.SparseComparisons = sparseEdges(n, cfg.minStudies())
	if nTreatments >= 3 {
		chars.IsolatedTreatments = isolatedTreatments(n)
	}

	c := Classification{
		Characteristics: chars,
		Connectivity:    conn,
		Confidence:      0.7,
	}

	if !conn.IsConnected {
		c.flag(IssueDisconnected,
			fmt.Sprintf("network is disconnected (%d components): treatments in different components cannot be compared, even indirectly", conn.NComponents),
			"analyze components separately or source bridging studies that connect them")
		c.Confidence -= 0.2
	}
	if nTreatments < 3 {
		c.flag(IssueTooFewTreatments,
			"network has fewer than 3 treatments: a pairwise meta-analysis is more appropriate",
			"")
		c.Confidence -= 0.2
	}
	if len(chars.SparseComparisons) > 0 {
		c.flag(IssueSparseComparisons,
			fmt.Sprintf("%d comparison(s) rest on fewer than %d studies", len(chars.SparseComparisons), cfg.minStudies()),
			"treat sparse comparisons as low-reliability evidence")
		c.Confidence -= 0.1
	}
	if chars.IsStarShaped {
		c.flag(IssueStarShaped,
			fmt.Sprintf("network is star-shaped around %q: all indirect comparisons pass through a single hub, maximizing the risk of undetectable inconsistency", chars.CentralTreatment),
			"run coherence/consistency checks and sensitivity analyses before trusting indirect estimates")
		c.Confidence -= 0.1
	}
	if len(chars.IsolatedTreatments) > 0 {
		c.flag(IssueIsolatedTreatment,
			fmt.Sprintf("treatment(s) %v have a single direct comparison and rely on indirect evidence only", chars.IsolatedTreatments),
			"downweight ranking confidence for isolated treatments")
	}

	c.Confidence = clamp(c.Confidence, 0.1, 0.9)
	return c
}

func (c *Classification) flag(issue, warning, recommendation string) {
	c.Issues = append(c.Issues, issue)
	if warning != "" {
		c.Warnings = append(c.Warnings, warning)
	}
	if recommendation != "" {
		c.Recommendations = append(c.Recommendations, recommendation)
	}
}

func meanDegree(n *Network) float64 {
	count := n.TreatmentCount()
	if count == 0 {
		return 0
	}
	total := 0
	for _, t := range n.names {
		total += n.Degree(t)
	}
	return float64(total) / float64(count)
}

func completeness(nTreatments, nEdges int) float64 {
	possible := nTreatments * (nTreatments - 1) / 2
	if possible == 0 {
		return 0
	}
	return float64(nEdges) / float64(possible)
}

// detectStar applies the strict hub-and-spoke test: one node connected
// to all n-1 others, while every other node's only neighbor is that
// hub. This is a structural test, not a density heuristic; a single
// spoke-to-spoke edge defeats it.
func detectStar(n *Network) (bool, string) {
	count := n.TreatmentCount()
	if count < 3 {
		return false, ""
	}

	hub := -1
	for i := range n.names {
		if len(n.adj[i]) == count-1 {
			hub = i
			break
		}
	}
	if hub == -1 {
		return false, ""
	}

	for i := range n.names {
		if i == hub {
			continue
		}
		if len(n.adj[i]) != 1 || n.adj[i][0] != hub {
			return false, ""
		}
	}
	return true, n.names[hub]
}

func sparseEdges(n *Network, minStudies int) []string {
	var sparse []string
	for _, e := range n.Edges() {
		if e.NStudies < minStudies {
			sparse = append(sparse, fmt.Sprintf("%s vs %s", e.TreatmentA, e.TreatmentB))
		}
	}
	return sparse
}

func isolatedTreatments(n *Network) []string {
	var isolated []string
	for _, t := range n.names {
		if n.Degree(t) == 1 {
			isolated = append(isolated, t)
		}
	}
	slices.Sort(isolated)
	return isolated
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
