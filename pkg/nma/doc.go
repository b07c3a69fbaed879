// Package nma implements the network meta-analysis topology and ranking
// engine at the core of nmakit.
//
// # Overview
//
// A network meta-analysis (NMA) synthesizes evidence across trials that
// compare different subsets of treatments. Before any model is fit, two
// questions need answers: what does the comparison network actually look
// like (geometry), and how do the treatments rank once sampling
// uncertainty is taken into account (ranking)?
//
// This package answers both with pure, in-memory, synchronous
// computations over caller-supplied data:
//
//   - [AssessNetworkGeometry] reconstructs the comparison graph from a
//     flat list of pairwise [TreatmentComparison] records, analyzes its
//     connectivity and structural risk factors (star shape, sparse
//     edges, multi-arm trials, isolated treatments), and packages the
//     result as a [NetworkGeometryAssessment].
//   - [RankTreatments] takes per-treatment effect estimates
//     ([TreatmentEffect]) and derives rank-probability distributions by
//     Monte-Carlo simulation, summarized as SUCRA, P-score,
//     probability-of-best and mean/median rank in a
//     [TreatmentRankingAssessment].
//
// The two paths share no mutable state and may run in either order or
// concurrently.
//
// # Basic Usage
//
//	geo, err := nma.AssessNetworkGeometry(comparisons)
//	if err != nil { ... }
//
//	rank, err := nma.RankTreatments(effects, nma.RankOptions{
//	    Simulations: 10000,
//	    Seed:        42,
//	})
//
// Both assessments are plain JSON-serializable records intended to be
// embedded verbatim into larger reports.
//
// # Scope
//
// The engine characterizes network structure; it does not fit an NMA
// consistency model. In particular, multi-arm trials are detected and
// surfaced because they induce within-study correlation, but no variance
// adjustment is performed here.
//
// # Errors
//
// All precondition violations (empty comparison list, fewer than two
// treatment effects, negative standard errors) are reported with the
// INVALID_INPUT error code from the errors package. There is no
// partial-result mode: either the full assessment is returned or an
// error is.
//
// # Concurrency
//
// All entry points are pure functions over their inputs; separate calls
// are safe to run concurrently without locking.
package nma
