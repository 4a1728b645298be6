// Package engine runs the daily pipeline: collect headlines, write
// captions, render cards and index them in a manifest.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/IshaanNene/sportscard/internal/caption"
	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/render"
	"github.com/IshaanNene/sportscard/internal/source"
	"github.com/IshaanNene/sportscard/internal/storage"
	"github.com/IshaanNene/sportscard/internal/types"
)

// DateLayout names the per-day output directory.
const DateLayout = "2006-01-02"

// Report describes a finished run.
type Report struct {
	RunID    string
	Dir      string
	Posts    []types.Post
	Started  time.Time
	Duration time.Duration
	Stats    map[string]int64
}

// Runner executes one pipeline run. It is not safe for concurrent use;
// the scheduler serializes runs.
type Runner struct {
	cfg      *config.Config
	sources  []source.Source
	captions *caption.Generator
	renderer *render.Renderer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewRunner wires a Runner. metrics may be nil.
func NewRunner(
	cfg *config.Config,
	sources []source.Source,
	captions *caption.Generator,
	renderer *render.Renderer,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Runner {
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}
	return &Runner{
		cfg:      cfg,
		sources:  sources,
		captions: captions,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger.With("component", "runner"),
	}
}

// DatedDir returns <base>/<YYYY-MM-DD> for now.
func DatedDir(base string, now time.Time) string {
	return filepath.Join(base, now.Format(DateLayout))
}

// Run performs one full run dated now. It returns types.ErrNoDataCollected
// when no source produced an item and types.ErrNoCaptions when captioning
// produced nothing; in both cases no output directory is created.
func (r *Runner) Run(ctx context.Context, now time.Time) (*Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	r.metrics.RunsTotal.Add(1)

	report, err := r.run(ctx, now, logger)
	r.metrics.ObserveRun(time.Since(started))
	if err != nil {
		r.metrics.RunsFailed.Add(1)
		return nil, err
	}

	report.RunID = runID
	report.Started = started
	report.Duration = time.Since(started)
	report.Stats = r.metrics.Snapshot()
	logger.Info("run complete",
		"posts", len(report.Posts),
		"dir", report.Dir,
		"duration", report.Duration,
		"metrics", r.metrics,
	)
	return report, nil
}

func (r *Runner) run(ctx context.Context, now time.Time, logger *slog.Logger) (*Report, error) {
	logger.Info("collecting sports news", "sources", len(r.sources), "limit_per_source", r.cfg.Sources.LimitPerSource)
	items := source.CollectDaily(ctx, r.sources, r.cfg.Sources.LimitPerSource, logger)
	if len(items) == 0 {
		return nil, types.ErrNoDataCollected
	}
	r.countItems(items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("generating captions", "items", len(items))
	captions := r.captions.Captions(ctx, items)
	if len(captions) == 0 {
		return nil, types.ErrNoCaptions
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := DatedDir(r.cfg.Output.BaseDir, now)
	posts, err := r.renderer.RenderCards(items, captions, dir)
	if err != nil {
		return nil, fmt.Errorf("render cards: %w", err)
	}

	manifest, err := storage.NewManifest(r.cfg.Output.Manifest, dir, logger)
	if err != nil {
		return nil, &types.StorageError{Backend: r.cfg.Output.Manifest, Err: err}
	}
	if err := storage.WriteAll(manifest, posts); err != nil {
		return nil, err
	}

	return &Report{Dir: dir, Posts: posts}, nil
}

func (r *Runner) countItems(items []types.NewsItem) {
	r.metrics.ItemsCollected.Add(int64(len(items)))
	for _, item := range items {
		if !item.HasSummary() {
			r.metrics.SummariesUnavailable.Add(1)
		}
	}
}
