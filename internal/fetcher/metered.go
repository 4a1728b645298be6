package fetcher

import (
	"context"

	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/types"
)

// Metered wraps a Fetcher and records page counters.
type Metered struct {
	Fetcher
	metrics *observability.Metrics
}

// WithMetrics returns f instrumented with m. A nil m returns f unchanged.
func WithMetrics(f Fetcher, m *observability.Metrics) Fetcher {
	if m == nil {
		return f
	}
	return &Metered{Fetcher: f, metrics: m}
}

// Fetch implements Fetcher.
func (f *Metered) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	f.metrics.PagesRequested.Add(1)
	resp, err := f.Fetcher.Fetch(ctx, req)
	if err != nil {
		f.metrics.PagesFailed.Add(1)
		return nil, err
	}
	f.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
	return resp, nil
}
