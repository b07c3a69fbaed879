// Package netio reads comparison and effect datasets and writes
// assessment records.
//
// Datasets are JSON documents with a single top-level key:
//
//	{"comparisons": [{"study_id": "S1", "treatment_a": "A", "treatment_b": "B", "n_a": 50, "n_b": 48}]}
//	{"effects": [{"treatment": "A", "effect_size": 0.4, "standard_error": 0.1}]}
//
// Comparisons can also be read from CSV with a header row; columns are
// matched by name so order does not matter, and the participant and
// effect columns are optional.
//
// Assessments are written as indented JSON, ready to embed in reports.
package netio
