package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evisynth/nmakit/pkg/netio"
	"github.com/evisynth/nmakit/pkg/nma"
	"github.com/evisynth/nmakit/pkg/observability"
	"github.com/evisynth/nmakit/pkg/render/netplot"
	"github.com/evisynth/nmakit/pkg/store"
)

// Runner encapsulates pipeline execution. Both CLI and API use it to
// avoid duplicating orchestration logic.
//
// The Runner is stateless except for the store and logger - it doesn't
// keep pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner.
// If st is nil, assessments are not archived.
// If logger is nil, the default logger is used.
func NewRunner(st store.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: st, Logger: logger}
}

// Execute runs the complete load → geometry → ranking → plot pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	comparisons, effects, err := r.loadInputs(opts)
	if err != nil {
		return nil, err
	}
	result.Stats.NComparisons = len(comparisons)
	result.Stats.NEffects = len(effects)

	// Gate on the options, not the loaded slices: a dataset that parses
	// to zero records should fail in the engine, not be skipped.
	if opts.HasComparisons() {
		if err := r.runGeometry(ctx, comparisons, opts, result); err != nil {
			return nil, err
		}
	}
	if opts.HasEffects() {
		if err := r.runRanking(ctx, effects, opts, result); err != nil {
			return nil, err
		}
	}
	if len(opts.Formats) > 0 {
		if err := r.runPlots(ctx, opts, result); err != nil {
			return nil, err
		}
	}

	r.Logger.Debug("pipeline complete", "stats", describeStats(result.Stats))
	return result, nil
}

func (r *Runner) loadInputs(opts Options) ([]nma.TreatmentComparison, []nma.TreatmentEffect, error) {
	comparisons := opts.Comparisons
	if len(comparisons) == 0 && opts.ComparisonsPath != "" {
		loaded, err := netio.ReadComparisonsFile(opts.ComparisonsPath)
		if err != nil {
			return nil, nil, err
		}
		comparisons = loaded
		r.Logger.Debug("loaded comparisons", "path", opts.ComparisonsPath, "count", len(loaded))
	}

	effects := opts.Effects
	if len(effects) == 0 && opts.EffectsPath != "" {
		loaded, err := netio.ReadEffectsFile(opts.EffectsPath)
		if err != nil {
			return nil, nil, err
		}
		effects = loaded
		r.Logger.Debug("loaded effects", "path", opts.EffectsPath, "count", len(loaded))
	}

	return comparisons, effects, nil
}

func (r *Runner) runGeometry(ctx context.Context, comparisons []nma.TreatmentComparison, opts Options, result *Result) error {
	observability.Engine().OnGeometryStart(ctx, len(comparisons))
	start := time.Now()

	geometry, err := nma.AssessNetworkGeometryWithConfig(comparisons, opts.GeometryConfig())
	result.Stats.GeometryTime = time.Since(start)
	if err != nil {
		observability.Engine().OnGeometryComplete(ctx, 0, 0, result.Stats.GeometryTime, err)
		return err
	}
	observability.Engine().OnGeometryComplete(ctx,
		geometry.Characteristics.NTreatments,
		geometry.Characteristics.NEdges,
		result.Stats.GeometryTime, nil)

	result.Geometry = geometry
	result.Stats.NTreatments = geometry.Characteristics.NTreatments

	r.Logger.Info("assessed network geometry",
		"treatments", geometry.Characteristics.NTreatments,
		"edges", geometry.Characteristics.NEdges,
		"connected", geometry.Connectivity.IsConnected,
		"duration", result.Stats.GeometryTime)

	if r.Store != nil {
		rec, err := store.NewRecord(store.KindGeometry, geometry)
		if err != nil {
			return err
		}
		if err := r.Store.Save(ctx, rec); err != nil {
			return err
		}
		result.GeometryID = rec.ID
	}
	return nil
}

func (r *Runner) runRanking(ctx context.Context, effects []nma.TreatmentEffect, opts Options, result *Result) error {
	rankOpts := opts.RankOptions()
	observability.Engine().OnRankingStart(ctx, len(effects), rankOpts.Simulations)
	start := time.Now()

	ranking, err := nma.RankTreatments(effects, rankOpts)
	result.Stats.RankingTime = time.Since(start)
	observability.Engine().OnRankingComplete(ctx, len(effects), result.Stats.RankingTime, err)
	if err != nil {
		return err
	}

	result.Ranking = ranking

	r.Logger.Info("ranked treatments",
		"treatments", len(effects),
		"best", ranking.BestTreatment,
		"simulations", ranking.Simulations,
		"duration", result.Stats.RankingTime)

	if r.Store != nil {
		rec, err := store.NewRecord(store.KindRanking, ranking)
		if err != nil {
			return err
		}
		if err := r.Store.Save(ctx, rec); err != nil {
			return err
		}
		result.RankingID = rec.ID
	}
	return nil
}

func (r *Runner) runPlots(ctx context.Context, opts Options, result *Result) error {
	start := time.Now()
	result.Plots = make(map[string][]byte, len(opts.Formats))

	dot := netplot.ToDOT(result.Geometry, netplot.Options{Detailed: opts.Detailed})

	for _, format := range opts.Formats {
		observability.Engine().OnPlotStart(ctx, format)
		plotStart := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = netplot.RenderSVG(dot)
		case FormatPNG:
			data, err = netplot.RenderPNG(dot)
		}
		observability.Engine().OnPlotComplete(ctx, format, len(data), time.Since(plotStart), err)
		if err != nil {
			return err
		}
		result.Plots[format] = data
	}

	result.Stats.PlotTime = time.Since(start)
	r.Logger.Info("rendered network plots",
		"formats", opts.Formats,
		"duration", result.Stats.PlotTime)
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
