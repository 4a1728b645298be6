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

// NaverName is the source label for Naver Sports items.
const NaverName = "Naver Sports"

// Naver scrapes the "today" headline block of the Naver Sports index.
type Naver struct {
	cfg        config.NaverConfig
	summaryLen int
	fetcher    fetcher.Fetcher
	logger     *slog.Logger
}

// NewNaver creates the Naver Sports source.
func NewNaver(cfg config.NaverConfig, summaryLen int, f fetcher.Fetcher, logger *slog.Logger) *Naver {
	return &Naver{
		cfg:        cfg,
		summaryLen: summaryLen,
		fetcher:    f,
		logger:     logger.With("component", "naver"),
	}
}

func (n *Naver) Name() string { return NaverName }

// ListHeadlines implements Source. Nodes without a linked anchor are skipped
// and do not count toward limit.
func (n *Naver) ListHeadlines(ctx context.Context, limit int) []types.NewsItem {
	if limit <= 0 {
		return nil
	}
	doc := fetcher.Document(ctx, n.fetcher, n.cfg.IndexURL, nil, n.logger)
	if doc == nil {
		return nil
	}

	items := make([]types.NewsItem, 0, limit)
	doc.Find(n.cfg.HeadlineSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		title := parser.Clean(s.Text())
		link := n.articleURL(strings.TrimSpace(href))
		if err := config.ValidateURL(link); err != nil {
			n.logger.Debug("skipping headline", "href", href, "error", err)
			return true
		}

		summary := n.FetchArticleSummary(ctx, link)
		item, err := types.NewNewsItem(title, summary, NaverName, link)
		if err != nil {
			n.logger.Debug("skipping headline", "url", link, "error", err)
			return true
		}
		items = append(items, item)
		return len(items) < limit
	})

	return items
}

// FetchArticleSummary returns the cleaned article body cut at a sentence
// boundary, or types.SummaryUnavailable.
func (n *Naver) FetchArticleSummary(ctx context.Context, articleURL string) string {
	summary, err := n.articleSummary(ctx, articleURL)
	return summaryOrPlaceholder(summary, err, articleURL, n.logger)
}

func (n *Naver) articleSummary(ctx context.Context, articleURL string) (string, error) {
	doc, err := fetcher.FetchDocument(ctx, n.fetcher, articleURL, nil)
	if err != nil {
		return "", err
	}

	raw, err := parser.FirstText(doc, n.cfg.BodyRules)
	if err != nil {
		return "", err
	}
	text := parser.Clean(raw)
	if text == "" {
		return "", fmt.Errorf("%w: article body is empty", types.ErrContentNotFound)
	}
	return parser.TruncateSentence(text, n.summaryLen), nil
}

// articleURL joins the site origin with a headline href. The index links
// are root-relative.
func (n *Naver) articleURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(n.cfg.Origin, "/") + href
}
