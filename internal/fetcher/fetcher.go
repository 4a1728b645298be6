package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

// Fetcher is the interface for all page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New creates the fetcher selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "http", "":
		return NewHTTPFetcher(cfg, logger)
	case "browser":
		return NewBrowserFetcher(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", cfg.Fetcher.Type)
	}
}

// FetchDocument fetches rawURL and parses it as HTML.
func FetchDocument(ctx context.Context, f Fetcher, rawURL string, headers http.Header) (*goquery.Document, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, err
	}
	for key, values := range headers {
		for _, v := range values {
			req.Headers.Add(key, v)
		}
	}

	resp, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Document()
}

// Document is FetchDocument for callers that only need "page or nothing":
// any failure is logged as a warning and reported as a nil document.
func Document(ctx context.Context, f Fetcher, rawURL string, headers http.Header, logger *slog.Logger) *goquery.Document {
	doc, err := FetchDocument(ctx, f, rawURL, headers)
	if err != nil {
		logger.Warn("failed to fetch", "url", rawURL, "error", err)
		return nil
	}
	return doc
}
