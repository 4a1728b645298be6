// Package source scrapes headline lists and article bodies from the news
// sites and aggregates them into one list per run.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/fetcher"
	"github.com/IshaanNene/sportscard/internal/types"
)

// Source lists the current headlines of one news site.
type Source interface {
	// Name is the label stored in NewsItem.Source.
	Name() string

	// ListHeadlines returns at most limit items. A site that cannot be
	// reached yields an empty list, never an error.
	ListHeadlines(ctx context.Context, limit int) []types.NewsItem
}

// FromConfig builds the enabled sources in scrape order: Naver Sports, then
// ESPN.
func FromConfig(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger) []Source {
	var sources []Source
	if cfg.Sources.Naver.Enabled {
		sources = append(sources, NewNaver(cfg.Sources.Naver, cfg.Summary.MaxLen, f, logger))
	}
	if cfg.Sources.ESPN.Enabled {
		sources = append(sources, NewESPN(cfg.Sources.ESPN, cfg.Summary.MaxLen, f, logger))
	}
	return sources
}

// CollectDaily runs every source in order and concatenates their headlines.
// A source that panics is logged and contributes nothing; the remaining
// sources still run.
func CollectDaily(ctx context.Context, sources []Source, limitPerSource int, logger *slog.Logger) []types.NewsItem {
	logger = logger.With("component", "aggregator")

	var all []types.NewsItem
	for _, src := range sources {
		if ctx.Err() != nil {
			logger.Warn("collection cancelled", "error", ctx.Err())
			break
		}
		items := listSafely(ctx, src, limitPerSource, logger)
		logger.Info("source collected", "source", src.Name(), "items", len(items))
		all = append(all, items...)
	}
	return all
}

func listSafely(ctx context.Context, src Source, limit int, logger *slog.Logger) (items []types.NewsItem) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("source failed", "source", src.Name(), "panic", fmt.Sprint(r))
			items = nil
		}
	}()
	return src.ListHeadlines(ctx, limit)
}

// resolveURL makes href absolute against the scheme and host of base.
// Root-relative paths are prefixed with that origin; anything else is
// returned unchanged and left for validation to reject.
func resolveURL(base, href string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return href
	}
	switch {
	case strings.HasPrefix(href, "//"):
		return u.Scheme + ":" + href
	case strings.HasPrefix(href, "/"):
		return u.Scheme + "://" + u.Host + href
	}
	return href
}

// summaryOrPlaceholder maps an extraction result onto the text stored in a
// NewsItem.
func summaryOrPlaceholder(summary string, err error, url string, logger *slog.Logger) string {
	if err != nil {
		logger.Warn("article summary unavailable", "url", url, "error", err)
		return types.SummaryUnavailable
	}
	return summary
}
