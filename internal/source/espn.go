package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/fetcher"
	"github.com/IshaanNene/sportscard/internal/parser"
	"github.com/IshaanNene/sportscard/internal/types"
)

// ESPNName is the source label for ESPN items.
const ESPNName = "ESPN"

// ESPN scrapes the headline stack of the ESPN homepage.
type ESPN struct {
	cfg        config.ESPNConfig
	summaryLen int
	fetcher    fetcher.Fetcher
	logger     *slog.Logger
}

// NewESPN creates the ESPN source.
func NewESPN(cfg config.ESPNConfig, summaryLen int, f fetcher.Fetcher, logger *slog.Logger) *ESPN {
	return &ESPN{
		cfg:        cfg,
		summaryLen: summaryLen,
		fetcher:    f,
		logger:     logger.With("component", "espn"),
	}
}

func (e *ESPN) Name() string { return ESPNName }

// ListHeadlines implements Source.
func (e *ESPN) ListHeadlines(ctx context.Context, limit int) []types.NewsItem {
	if limit <= 0 {
		return nil
	}
	doc := fetcher.Document(ctx, e.fetcher, e.cfg.HomeURL, nil, e.logger)
	if doc == nil {
		return nil
	}

	items := make([]types.NewsItem, 0, limit)
	doc.Find(e.cfg.HeadlineSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		link := resolveURL(e.cfg.HomeURL, strings.TrimSpace(href))
		if err := config.ValidateURL(link); err != nil {
			e.logger.Debug("skipping headline", "href", href, "error", err)
			return true
		}

		title := parser.Clean(s.Text())
		summary := e.FetchArticleSummary(ctx, link)
		item, err := types.NewNewsItem(title, summary, ESPNName, link)
		if err != nil {
			e.logger.Debug("skipping headline", "url", link, "error", err)
			return true
		}
		items = append(items, item)
		return len(items) < limit
	})

	return items
}

// FetchArticleSummary joins the article's substantial paragraphs and cuts
// the result to the summary length, or returns types.SummaryUnavailable.
// Unlike Naver the cut is not sentence-aware.
func (e *ESPN) FetchArticleSummary(ctx context.Context, articleURL string) string {
	summary, err := e.articleSummary(ctx, articleURL)
	return summaryOrPlaceholder(summary, err, articleURL, e.logger)
}

func (e *ESPN) articleSummary(ctx context.Context, articleURL string) (string, error) {
	doc, err := fetcher.FetchDocument(ctx, e.fetcher, articleURL, nil)
	if err != nil {
		return "", err
	}

	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		raw := p.Text()
		if parser.RuneLen(raw) <= e.cfg.MinParagraphLen {
			return
		}
		if cleaned := parser.Clean(raw); cleaned != "" {
			parts = append(parts, cleaned)
		}
	})

	text := strings.Join(parts, " ")
	if text == "" {
		return "", fmt.Errorf("%w: no paragraph longer than %d characters", types.ErrContentNotFound, e.cfg.MinParagraphLen)
	}
	return parser.Cut(text, e.summaryLen), nil
}
