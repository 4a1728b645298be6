package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IshaanNene/sportscard/internal/caption"
	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/render"
	"github.com/IshaanNene/sportscard/internal/source"
	"github.com/IshaanNene/sportscard/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type staticSource struct {
	name  string
	items []types.NewsItem
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) ListHeadlines(_ context.Context, limit int) []types.NewsItem {
	return s.items[:min(limit, len(s.items))]
}

func newRunner(t *testing.T, sources []source.Source) (*Runner, *config.Config, *observability.Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.BaseDir = t.TempDir()
	metrics := observability.NewMetrics(testLogger)

	renderer, err := render.NewRenderer(cfg.Render, metrics, testLogger)
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}
	captions := caption.NewGenerator(nil, cfg.Caption.FallbackSummaryLen, metrics, testLogger)
	return NewRunner(cfg, sources, captions, renderer, metrics, testLogger), cfg, metrics
}

func TestRunnerWritesDatedOutput(t *testing.T) {
	naver := staticSource{name: source.NaverName, items: []types.NewsItem{
		types.MustNewsItem("손흥민 멀티골", types.SummaryUnavailable, source.NaverName, "https://sports.news.naver.com/a"),
	}}
	espn := staticSource{name: source.ESPNName, items: []types.NewsItem{
		types.MustNewsItem("Lakers win", "LeBron scored 40.", source.ESPNName, "https://www.espn.com/b"),
		types.MustNewsItem("Chiefs lose", "Upset in Kansas City.", source.ESPNName, "https://www.espn.com/c"),
	}}
	runner, cfg, metrics := newRunner(t, []source.Source{naver, espn})

	now := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	report, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.RunID == "" {
		t.Error("expected a run id")
	}
	wantDir := filepath.Join(cfg.Output.BaseDir, "2025-03-09")
	if report.Dir != wantDir {
		t.Errorf("expected dir %s, got %s", wantDir, report.Dir)
	}
	if len(report.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(report.Posts))
	}
	if report.Posts[0].Item.Source() != source.NaverName || report.Posts[2].Item.Title() != "Chiefs lose" {
		t.Error("posts are not in aggregation order")
	}
	for _, name := range []string{"post_1.jpg", "post_1.txt", "post_3.jpg", "post_3.txt", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(wantDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	caption1, _ := os.ReadFile(filepath.Join(wantDir, "post_2.txt"))
	if string(caption1) != "Lakers win\n출처: ESPN\n\n핵심 요약: LeBron scored 40." {
		t.Errorf("unexpected caption %q", caption1)
	}

	stats := report.Stats
	if stats["items_collected"] != 3 || stats["summaries_unavailable"] != 1 || stats["cards_written"] != 3 {
		t.Errorf("unexpected stats %v", stats)
	}
	if metrics.RunsTotal.Load() != 1 || metrics.RunsFailed.Load() != 0 {
		t.Errorf("unexpected run counters %v", stats)
	}
}

func TestRunnerNoData(t *testing.T) {
	runner, cfg, metrics := newRunner(t, []source.Source{staticSource{name: source.NaverName}})

	_, err := runner.Run(context.Background(), time.Now())
	if !errors.Is(err, types.ErrNoDataCollected) {
		t.Fatalf("expected ErrNoDataCollected, got %v", err)
	}
	entries, _ := os.ReadDir(cfg.Output.BaseDir)
	if len(entries) != 0 {
		t.Errorf("no output directory should be created, found %d entries", len(entries))
	}
	if metrics.RunsFailed.Load() != 1 {
		t.Errorf("expected failed run to be counted")
	}
}

func TestRunnerCancelled(t *testing.T) {
	items := []types.NewsItem{types.MustNewsItem("t", "s", source.ESPNName, "")}
	runner, _, _ := newRunner(t, []source.Source{staticSource{name: source.ESPNName, items: items}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, time.Now()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDatedDir(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	if got := DatedDir("out", now); got != filepath.Join("out", "2024-12-31") {
		t.Errorf("unexpected dir %s", got)
	}
}

type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (j *countingJob) Run(context.Context, time.Time) (*Report, error) {
	if j.runs.Add(1) == 1 {
		close(j.done)
	}
	return &Report{}, nil
}

func TestSchedulerRunsJob(t *testing.T) {
	job := &countingJob{done: make(chan struct{})}
	s, err := NewScheduler(config.ScheduleConfig{Spec: "@every 1s", Timezone: "UTC"}, job, testLogger)
	if err != nil {
		t.Fatalf("create scheduler: %v", err)
	}
	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-job.done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job did not run")
	}
}

func TestSchedulerRunNow(t *testing.T) {
	job := &countingJob{done: make(chan struct{})}
	s, err := NewScheduler(config.DefaultConfig().Schedule, job, testLogger)
	if err != nil {
		t.Fatalf("create scheduler: %v", err)
	}
	if _, err := s.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}
	if job.runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", job.runs.Load())
	}
}

func TestSchedulerRejectsBadConfig(t *testing.T) {
	job := &countingJob{done: make(chan struct{})}
	if _, err := NewScheduler(config.ScheduleConfig{Spec: "not a cron", Timezone: "UTC"}, job, testLogger); err == nil {
		t.Error("expected error for invalid spec")
	}
	if _, err := NewScheduler(config.ScheduleConfig{Spec: "0 8 * * *", Timezone: "Mars/Olympus"}, job, testLogger); err == nil {
		t.Error("expected error for invalid timezone")
	}
	if _, err := NewScheduler(config.ScheduleConfig{Spec: "0 8 * * *", Timezone: "UTC"}, nil, testLogger); err == nil {
		t.Error("expected error for nil job")
	}
}
