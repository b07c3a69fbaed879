// Package pipeline provides the core assessment pipeline for nmakit.
//
// This package implements the complete load → geometry → ranking → plot
// pipeline shared by the CLI and the HTTP API. Centralizing this logic
// keeps behavior consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Geometry: build the comparison network and classify its topology
//  2. Ranking: run the Monte Carlo rank simulation over effect estimates
//  3. Plot: render the network geometry as DOT, SVG or PNG
//
// Stages run independently depending on which inputs are provided:
// comparisons drive geometry and plots, effects drive rankings.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, logger)
//	opts := pipeline.Options{
//	    ComparisonsPath: "trials.csv",
//	    EffectsPath:     "effects.json",
//	    Formats:         []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evisynth/nmakit/pkg/errors"
	"github.com/evisynth/nmakit/pkg/nma"
)

// Format constants for plot outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported plot formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a plot format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid plot format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all plot formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the assessment pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Inline data takes precedence over paths.
	ComparisonsPath string                    `json:"comparisons_path,omitempty"`
	EffectsPath     string                    `json:"effects_path,omitempty"`
	Comparisons     []nma.TreatmentComparison `json:"comparisons,omitempty"`
	Effects         []nma.TreatmentEffect     `json:"effects,omitempty"`

	// Geometry options
	MinStudiesPerEdge int `json:"min_studies_per_edge,omitempty"`

	// Ranking options
	Simulations   int    `json:"simulations,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
	LowerIsBetter bool   `json:"lower_is_better,omitempty"`

	// Plot options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Geometry is the network geometry assessment, when comparisons
	// were provided.
	Geometry *nma.NetworkGeometryAssessment

	// Ranking is the treatment ranking assessment, when effects were
	// provided.
	Ranking *nma.TreatmentRankingAssessment

	// Plots contains rendered network plots keyed by format.
	Plots map[string][]byte

	// GeometryID and RankingID are set when the runner archived the
	// assessments in its store.
	GeometryID string
	RankingID  string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NComparisons int
	NTreatments  int
	NEffects     int
	GeometryTime time.Duration
	RankingTime  time.Duration
	PlotTime     time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if !o.HasComparisons() && !o.HasEffects() {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to do: provide comparisons, effects, or both")
	}
	if len(o.Formats) > 0 && !o.HasComparisons() {
		return errors.New(errors.ErrCodeInvalidInput, "plots require comparison data")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateSimulations(o.Simulations); err != nil {
		return err
	}

	if o.MinStudiesPerEdge == 0 {
		o.MinStudiesPerEdge = nma.DefaultMinStudiesPerEdge
	}
	if o.MinStudiesPerEdge < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_studies_per_edge must be at least 1")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// HasComparisons reports whether comparison data is available, inline
// or via path.
func (o *Options) HasComparisons() bool {
	return len(o.Comparisons) > 0 || o.ComparisonsPath != ""
}

// HasEffects reports whether effect data is available, inline or via
// path.
func (o *Options) HasEffects() bool {
	return len(o.Effects) > 0 || o.EffectsPath != ""
}

// RankOptions converts pipeline options into simulation options.
func (o *Options) RankOptions() nma.RankOptions {
	return nma.RankOptions{
		Simulations:   o.Simulations,
		Seed:          o.Seed,
		LowerIsBetter: o.LowerIsBetter,
	}
}

// GeometryConfig converts pipeline options into classifier thresholds.
func (o *Options) GeometryConfig() nma.Config {
	return nma.Config{MinStudiesPerEdge: o.MinStudiesPerEdge}
}

func describeStats(s Stats) string {
	return fmt.Sprintf("comparisons=%d treatments=%d effects=%d", s.NComparisons, s.NTreatments, s.NEffects)
}
