package nma

import (
	"cmp"
	"slices"
)

// TreatmentNode is the per-treatment aggregate derived from the
// comparison list. NComparisons is the node's degree in the network:
// the number of distinct treatments it has direct evidence against.
type TreatmentNode struct {
	Treatment         string   `json:"treatment"`
	NStudies          int      `json:"n_studies"`
	TotalParticipants int      `json:"total_participants"`
	NComparisons      int      `json:"n_comparisons"`
	ConnectedTo       []string `json:"connected_to"`
}

// NetworkEdge is the aggregate for one unordered treatment pair with at
// least one direct comparison. TreatmentA sorts lexicographically before
// TreatmentB, so (A,B) and (B,A) collapse to a single edge.
type NetworkEdge struct {
	TreatmentA        string `json:"treatment_a"`
	TreatmentB        string `json:"treatment_b"`
	NStudies          int    `json:"n_studies"`
	TotalParticipants int    `json:"total_participants"`
}

// MultiArmTrial flags a study contributing three or more distinct
// treatments. Such studies induce correlation between their pairwise
// comparisons; the engine detects and reports the condition but does
// not adjust variances for it.
type MultiArmTrial struct {
	StudyID    string   `json:"study_id"`
	Treatments []string `json:"treatments"`
	NArms      int      `json:"n_arms"`
}

// Connectivity describes the connected components of the network.
// Every treatment appears in exactly one component; the union of all
// components is the full treatment set.
type Connectivity struct {
	IsConnected bool       `json:"is_connected"`
	NComponents int        `json:"n_components"`
	Components  [][]string `json:"components"`
}

// Network is the comparison graph implied by a list of pairwise
// comparisons. Treatments are interned to dense indices at build time,
// so adjacency and the canonical edge key are index-based rather than
// string tricks; all exported views use treatment names.
//
// A Network is immutable after BuildNetwork returns and safe for
// concurrent reads.
type Network struct {
	names []string       // index -> treatment name, insertion order
	index map[string]int // treatment name -> dense index

	adj      [][]int // index -> neighbor indices, insertion order, deduped
	adjSet   []map[int]struct{}
	studies  []map[string]struct{} // index -> distinct study IDs touching it
	patients []int                 // index -> summed participant counts

	edges    map[[2]int]*edgeAgg // canonical key: sorted index pair
	edgeKeys [][2]int            // insertion order of first appearance

	studyArms  map[string]map[int]struct{} // study -> treatment indices
	studyOrder []string                    // studies in first-seen order

	nComparisons int
}

type edgeAgg struct {
	nStudies          int
	totalParticipants int
	studies           map[string]struct{}
}

// BuildNetwork constructs the comparison network in a single pass over
// the input. Fails with INVALID_INPUT when the list is empty or a
// record is structurally broken. The input is never mutated.
func BuildNetwork(comparisons []TreatmentComparison) (*Network, error) {
	if err := ValidateComparisons(comparisons); err != nil {
		return nil, err
	}

	n := &Network{
		index:        make(map[string]int),
		edges:        make(map[[2]int]*edgeAgg),
		studyArms:    make(map[string]map[int]struct{}),
		nComparisons: len(comparisons),
	}

	for _, c := range comparisons {
		a := n.intern(c.TreatmentA)
		b := n.intern(c.TreatmentB)

		n.connect(a, b)
		n.connect(b, a)

		n.studies[a][c.StudyID] = struct{}{}
		n.studies[b][c.StudyID] = struct{}{}
		n.patients[a] += c.NA
		n.patients[b] += c.NB

		key := edgeKey(a, b)
		e, ok := n.edges[key]
		if !ok {
			e = &edgeAgg{studies: make(map[string]struct{})}
			n.edges[key] = e
			n.edgeKeys = append(n.edgeKeys, key)
		}
		if _, dup := e.studies[c.StudyID]; !dup {
			e.studies[c.StudyID] = struct{}{}
			e.nStudies++
		}
		e.totalParticipants += c.NA + c.NB

		arms, ok := n.studyArms[c.StudyID]
		if !ok {
			arms = make(map[int]struct{})
			n.studyArms[c.StudyID] = arms
			n.studyOrder = append(n.studyOrder, c.StudyID)
		}
		arms[a] = struct{}{}
		arms[b] = struct{}{}
	}

	return n, nil
}

// intern returns the dense index for a treatment name, assigning the
// next index on first sight.
func (n *Network) intern(name string) int {
	if i, ok := n.index[name]; ok {
		return i
	}
	i := len(n.names)
	n.index[name] = i
	n.names = append(n.names, name)
	n.adj = append(n.adj, nil)
	n.adjSet = append(n.adjSet, make(map[int]struct{}))
	n.studies = append(n.studies, make(map[string]struct{}))
	n.patients = append(n.patients, 0)
	return i
}

func (n *Network) connect(from, to int) {
	if _, ok := n.adjSet[from][to]; ok {
		return
	}
	n.adjSet[from][to] = struct{}{}
	n.adj[from] = append(n.adj[from], to)
}

// edgeKey is the canonical key for an unordered treatment pair: the
// index pair sorted ascending.
func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// TreatmentCount returns the number of distinct treatments.
func (n *Network) TreatmentCount() int { return len(n.names) }

// EdgeCount returns the number of distinct direct comparisons.
func (n *Network) EdgeCount() int { return len(n.edgeKeys) }

// ComparisonCount returns the number of input comparison records.
func (n *Network) ComparisonCount() int { return n.nComparisons }

// Treatments returns all treatment names in first-seen order.
func (n *Network) Treatments() []string { return slices.Clone(n.names) }

// Degree returns the number of distinct neighbors of a treatment, or 0
// if the treatment is unknown.
func (n *Network) Degree(treatment string) int {
	i, ok := n.index[treatment]
	if !ok {
		return 0
	}
	return len(n.adj[i])
}

// Neighbors returns the treatments directly compared against the given
// one, in first-seen order. Returns nil for unknown treatments.
func (n *Network) Neighbors(treatment string) []string {
	i, ok := n.index[treatment]
	if !ok {
		return nil
	}
	out := make([]string, len(n.adj[i]))
	for j, k := range n.adj[i] {
		out[j] = n.names[k]
	}
	return out
}

// Nodes returns the per-treatment aggregates in first-seen order.
// ConnectedTo is sorted lexicographically for deterministic output.
func (n *Network) Nodes() []TreatmentNode {
	nodes := make([]TreatmentNode, len(n.names))
	for i, name := range n.names {
		connected := make([]string, len(n.adj[i]))
		for j, k := range n.adj[i] {
			connected[j] = n.names[k]
		}
		slices.Sort(connected)
		nodes[i] = TreatmentNode{
			Treatment:         name,
			NStudies:          len(n.studies[i]),
			TotalParticipants: n.patients[i],
			NComparisons:      len(n.adj[i]),
			ConnectedTo:       connected,
		}
	}
	return nodes
}

// Edges returns the per-pair aggregates in first-seen order, with each
// pair's names sorted lexicographically.
func (n *Network) Edges() []NetworkEdge {
	edges := make([]NetworkEdge, len(n.edgeKeys))
	for i, key := range n.edgeKeys {
		a, b := n.names[key[0]], n.names[key[1]]
		if a > b {
			a, b = b, a
		}
		agg := n.edges[key]
		edges[i] = NetworkEdge{
			TreatmentA:        a,
			TreatmentB:        b,
			NStudies:          agg.nStudies,
			TotalParticipants: agg.totalParticipants,
		}
	}
	return edges
}

// StudyCount returns the number of distinct studies in the input.
func (n *Network) StudyCount() int { return len(n.studyOrder) }

// MultiArmTrials returns the studies contributing three or more
// distinct treatments, in first-seen study order. Treatment lists are
// sorted lexicographically.
func (n *Network) MultiArmTrials() []MultiArmTrial {
	var trials []MultiArmTrial
	for _, study := range n.studyOrder {
		arms := n.studyArms[study]
		if len(arms) < 3 {
			continue
		}
		treatments := make([]string, 0, len(arms))
		for i := range arms {
			treatments = append(treatments, n.names[i])
		}
		slices.Sort(treatments)
		trials = append(trials, MultiArmTrial{
			StudyID:    study,
			Treatments: treatments,
			NArms:      len(arms),
		})
	}
	return trials
}

// Components computes the connected components via depth-first
// traversal, visiting treatments in first-seen order so the result is
// deterministic for a given input. Runs in O(V+E).
//
// A degree-0 node cannot occur: every treatment originates from at
// least one comparison.
func (n *Network) Components() Connectivity {
	visited := make([]bool, len(n.names))
	var components [][]string

	for start := range n.names {
		if visited[start] {
			continue
		}
		var component []string
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, n.names[i])
			for _, j := range n.adj[i] {
				if !visited[j] {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
		components = append(components, component)
	}

	// Larger components first; ties broken by first member for stability.
	slices.SortStableFunc(components, func(a, b []string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a[0], b[0])
	})

	return Connectivity{
		IsConnected: len(components) == 1,
		NComponents: len(components),
		Components:  components,
	}
}
