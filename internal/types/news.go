package types

import (
	"fmt"
	"net/url"
	"strings"
)

// SummaryUnavailable is substituted for an article body that could not be
// fetched or located.
const SummaryUnavailable = "기사 내용을 불러오지 못했습니다."

// NewsItem is one scraped headline. The zero value is not valid; build items
// with NewNewsItem. Fields are unexported so an item cannot change after
// construction.
type NewsItem struct {
	title   string
	summary string
	source  string
	url     string
}

// NewNewsItem validates and builds a NewsItem. Title and summary must be
// non-empty; rawURL may be empty, otherwise it must be absolute.
func NewNewsItem(title, summary, source, rawURL string) (NewsItem, error) {
	if strings.TrimSpace(title) == "" {
		return NewsItem{}, fmt.Errorf("%w: empty title", ErrInvalidItem)
	}
	if strings.TrimSpace(summary) == "" {
		return NewsItem{}, fmt.Errorf("%w: empty summary", ErrInvalidItem)
	}
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return NewsItem{}, fmt.Errorf("%w: url %q is not absolute", ErrInvalidItem, rawURL)
		}
	}
	return NewsItem{title: title, summary: summary, source: source, url: rawURL}, nil
}

// MustNewsItem is NewNewsItem for fixtures; it panics on invalid input.
func MustNewsItem(title, summary, source, rawURL string) NewsItem {
	item, err := NewNewsItem(title, summary, source, rawURL)
	if err != nil {
		panic(err)
	}
	return item
}

func (n NewsItem) Title() string   { return n.title }
func (n NewsItem) Summary() string { return n.summary }
func (n NewsItem) Source() string  { return n.source }

// URL returns the article link, or "" when the source gave none.
func (n NewsItem) URL() string { return n.url }

// HasSummary reports whether the summary is real article text rather than
// the unavailable placeholder.
func (n NewsItem) HasSummary() bool { return n.summary != SummaryUnavailable }

// Post is one rendered output of a run.
type Post struct {
	Index       int      `json:"index"`
	Item        NewsItem `json:"-"`
	Caption     string   `json:"caption"`
	ImagePath   string   `json:"image"`
	CaptionPath string   `json:"caption_file"`
}

// ToFlatMap returns the post as string columns for CSV/JSON export.
func (p Post) ToFlatMap() map[string]string {
	return map[string]string{
		"index":        fmt.Sprintf("%d", p.Index),
		"title":        p.Item.Title(),
		"source":       p.Item.Source(),
		"url":          p.Item.URL(),
		"summary":      p.Item.Summary(),
		"caption":      p.Caption,
		"image":        p.ImagePath,
		"caption_file": p.CaptionPath,
	}
}
