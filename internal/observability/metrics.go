package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts what the scraper and the renderers did. Counters are
// cumulative across runs in scheduled mode.
type Metrics struct {
	// Fetch metrics
	PagesRequested  atomic.Int64
	PagesFailed     atomic.Int64
	BytesDownloaded atomic.Int64

	// Scrape metrics
	ItemsCollected       atomic.Int64
	SummariesUnavailable atomic.Int64

	// Output metrics
	CaptionsGenerated atomic.Int64
	CaptionsFallback  atomic.Int64
	CardsWritten      atomic.Int64

	// Run metrics
	RunsTotal  atomic.Int64
	RunsFailed atomic.Int64

	runDuration prometheus.Histogram
	registry    *prometheus.Registry
	handler     http.Handler
	logger      *slog.Logger
}

const namespace = "sportscard"

// NewMetrics creates a new Metrics instance with its own registry, so
// several instances can coexist in one process.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full pipeline run",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics"),
	}
	m.register()
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// ObserveRun records the wall time of one pipeline run.
func (m *Metrics) ObserveRun(d time.Duration) {
	m.runDuration.Observe(d.Seconds())
}

// register exposes the atomic counters through a private registry.
func (m *Metrics) register() {
	counters := []struct {
		name  string
		help  string
		value *atomic.Int64
	}{
		{"pages_requested_total", "Total pages requested", &m.PagesRequested},
		{"pages_failed_total", "Total page fetches that failed", &m.PagesFailed},
		{"bytes_downloaded_total", "Total bytes downloaded", &m.BytesDownloaded},
		{"items_collected_total", "Total news items collected", &m.ItemsCollected},
		{"summaries_unavailable_total", "Total items with placeholder summaries", &m.SummariesUnavailable},
		{"captions_generated_total", "Total captions written by the LLM backend", &m.CaptionsGenerated},
		{"captions_fallback_total", "Total template fallback captions", &m.CaptionsFallback},
		{"cards_written_total", "Total image cards written", &m.CardsWritten},
		{"runs_total", "Total runs started", &m.RunsTotal},
		{"runs_failed_total", "Total runs that produced no output", &m.RunsFailed},
	}
	for _, c := range counters {
		value := c.value
		m.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      c.name,
			Help:      c.help,
		}, func() float64 { return float64(value.Load()) }))
	}
	m.registry.MustRegister(m.runDuration)
}

// StartServer serves the metrics and a /health probe on port in the
// background. Shut the returned server down to stop it.
func (m *Metrics) StartServer(port int, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.logger.Info("metrics server starting", "addr", srv.Addr, "path", path)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return srv
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_requested":       m.PagesRequested.Load(),
		"pages_failed":          m.PagesFailed.Load(),
		"bytes_downloaded":      m.BytesDownloaded.Load(),
		"items_collected":       m.ItemsCollected.Load(),
		"summaries_unavailable": m.SummariesUnavailable.Load(),
		"captions_generated":    m.CaptionsGenerated.Load(),
		"captions_fallback":     m.CaptionsFallback.Load(),
		"cards_written":         m.CardsWritten.Load(),
		"runs_total":            m.RunsTotal.Load(),
		"runs_failed":           m.RunsFailed.Load(),
	}
}

// LogValue lets a *Metrics be passed straight to slog.
func (m *Metrics) LogValue() slog.Value {
	snap := m.Snapshot()
	attrs := make([]slog.Attr, 0, len(snap))
	for _, key := range []string{
		"pages_requested", "pages_failed", "bytes_downloaded",
		"items_collected", "summaries_unavailable",
		"captions_generated", "captions_fallback", "cards_written",
		"runs_total", "runs_failed",
	} {
		attrs = append(attrs, slog.Int64(key, snap[key]))
	}
	return slog.GroupValue(attrs...)
}
