package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/fetcher"
	"github.com/IshaanNene/sportscard/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newFetcher(t *testing.T) fetcher.Fetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Fetcher.RequestTimeout = 2 * time.Second
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("create fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func serveHTML(pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, body)
	}))
}

func naverFor(t *testing.T, srv *httptest.Server) *Naver {
	cfg := config.DefaultConfig().Sources.Naver
	cfg.IndexURL = srv.URL + "/index"
	cfg.Origin = srv.URL
	return NewNaver(cfg, 300, newFetcher(t), testLogger)
}

func espnFor(t *testing.T, srv *httptest.Server) *ESPN {
	cfg := config.DefaultConfig().Sources.ESPN
	cfg.HomeURL = srv.URL
	return NewESPN(cfg, 300, newFetcher(t), testLogger)
}

const naverIndex = `<html><body><ul>
<li class="today_item"><div class="text">no link here</div></li>
<li class="today_item"><div class="text"><a href="/news/1">  First
  headline </a></div></li>
<li class="today_item"><div class="text"><a href="/news/2">Second headline</a></div></li>
<li class="today_item"><div class="text"><a href="/news/3">Third headline</a></div></li>
</ul></body></html>`

func TestNaverListHeadlines(t *testing.T) {
	body := strings.Repeat(".", 400)
	srv := serveHTML(map[string]string{
		"/index":  naverIndex,
		"/news/1": `<div class="news_end">` + body + `</div>`,
		"/news/2": `<div id="newsEndContents">` + body + `</div>`,
		"/news/3": `<div class="news_end">third</div>`,
	})
	defer srv.Close()

	items := naverFor(t, srv).ListHeadlines(context.Background(), 2)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title() != "First headline" {
		t.Errorf("unexpected title %q", items[0].Title())
	}
	if items[0].URL() != srv.URL+"/news/1" {
		t.Errorf("unexpected url %q", items[0].URL())
	}
	for i, item := range items {
		if item.Source() != NaverName {
			t.Errorf("item %d: source %q", i, item.Source())
		}
		if got := len([]rune(item.Summary())); got != 300 {
			t.Errorf("item %d: expected summary of 300 characters, got %d", i, got)
		}
	}
}

func TestNaverSummaryMissingContainer(t *testing.T) {
	srv := serveHTML(map[string]string{
		"/news/1": `<html><body><div class="other">text</div></body></html>`,
	})
	defer srv.Close()

	got := naverFor(t, srv).FetchArticleSummary(context.Background(), srv.URL+"/news/1")
	if got != "기사 내용을 불러오지 못했습니다." {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestNaverSummarySentenceCut(t *testing.T) {
	text := strings.Repeat("가", 150) + "다. " + strings.Repeat("나", 200)
	srv := serveHTML(map[string]string{"/a": `<div class="news_end">` + text + `</div>`})
	defer srv.Close()

	got := naverFor(t, srv).FetchArticleSummary(context.Background(), srv.URL+"/a")
	want := strings.Repeat("가", 150) + "다."
	if got != want {
		t.Errorf("expected cut at sentence end, got %q", got)
	}
}

func TestNaverFetchFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	items := naverFor(t, srv).ListHeadlines(context.Background(), 5)
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestNaverZeroLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	if items := naverFor(t, srv).ListHeadlines(context.Background(), 0); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if hits != 0 {
		t.Errorf("expected no requests, got %d", hits)
	}
}

func TestESPNSummaryFiltersShortParagraphs(t *testing.T) {
	long := strings.Repeat("a", 60)
	short := strings.Repeat("b", 40)
	srv := serveHTML(map[string]string{
		"/story": "<html><body><p>" + long + "</p><p>" + short + "</p></body></html>",
	})
	defer srv.Close()

	got := espnFor(t, srv).FetchArticleSummary(context.Background(), srv.URL+"/story")
	if got != long {
		t.Errorf("expected only the long paragraph, got %q", got)
	}
}

func TestESPNSummaryTruncates(t *testing.T) {
	para := strings.Repeat("word ", 30)
	srv := serveHTML(map[string]string{
		"/story": "<p>" + para + "</p><p>" + para + "</p><p>" + para + "</p>",
	})
	defer srv.Close()

	got := espnFor(t, srv).FetchArticleSummary(context.Background(), srv.URL+"/story")
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n != 303 {
		t.Errorf("expected 303 characters, got %d", n)
	}
}

func TestESPNSummaryNoParagraphs(t *testing.T) {
	srv := serveHTML(map[string]string{"/story": "<p>short</p>"})
	defer srv.Close()

	got := espnFor(t, srv).FetchArticleSummary(context.Background(), srv.URL+"/story")
	if got != types.SummaryUnavailable {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestESPNListHeadlines(t *testing.T) {
	home := `<html><body>
<section class="col-three headlineStack"><ul>
<li><a href="/nba/story/1">NBA story</a></li>
<li><a>missing href</a></li>
<li><a href="%s/nfl/story/2">NFL story</a></li>
</ul></section>
<section class="other"><ul><li><a href="/ignored">Ignored</a></li></ul></section>
</body></html>`
	pages := map[string]string{
		"/nba/story/1": "<p>" + strings.Repeat("x", 80) + "</p>",
		"/nfl/story/2": "<p>" + strings.Repeat("y", 80) + "</p>",
	}
	srv := serveHTML(pages)
	defer srv.Close()
	pages["/"] = fmt.Sprintf(home, srv.URL)

	items := espnFor(t, srv).ListHeadlines(context.Background(), 5)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].URL() != srv.URL+"/nba/story/1" {
		t.Errorf("relative href not resolved: %q", items[0].URL())
	}
	if items[0].Summary() != strings.Repeat("x", 80) {
		t.Errorf("unexpected summary %q", items[0].Summary())
	}
	if items[1].URL() != srv.URL+"/nfl/story/2" {
		t.Errorf("absolute href changed: %q", items[1].URL())
	}
	if items[1].Source() != ESPNName {
		t.Errorf("unexpected source %q", items[1].Source())
	}
}

type stubSource struct {
	name  string
	items []types.NewsItem
	panic bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) ListHeadlines(_ context.Context, limit int) []types.NewsItem {
	if s.panic {
		panic("selector exploded")
	}
	if len(s.items) > limit {
		return s.items[:limit]
	}
	return s.items
}

func TestCollectDailyIsolatesFailures(t *testing.T) {
	espnItems := []types.NewsItem{
		types.MustNewsItem("one", "s1", ESPNName, "https://www.espn.com/1"),
		types.MustNewsItem("two", "s2", ESPNName, "https://www.espn.com/2"),
	}

	for _, naver := range []*stubSource{
		{name: NaverName},
		{name: NaverName, panic: true},
	} {
		got := CollectDaily(context.Background(), []Source{naver, &stubSource{name: ESPNName, items: espnItems}}, 5, testLogger)
		if len(got) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got))
		}
		if got[0].Title() != "one" || got[1].Title() != "two" {
			t.Errorf("order not preserved: %q, %q", got[0].Title(), got[1].Title())
		}
	}
}

func TestCollectDailyPreservesSourceOrder(t *testing.T) {
	a := &stubSource{name: "a", items: []types.NewsItem{types.MustNewsItem("a1", "s", "a", "")}}
	b := &stubSource{name: "b", items: []types.NewsItem{types.MustNewsItem("b1", "s", "b", "")}}

	got := CollectDaily(context.Background(), []Source{a, b}, 1, testLogger)
	if len(got) != 2 || got[0].Source() != "a" || got[1].Source() != "b" {
		t.Errorf("unexpected aggregation %+v", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources.ESPN.Enabled = false
	sources := FromConfig(cfg, nil, testLogger)
	if len(sources) != 1 || sources[0].Name() != NaverName {
		t.Errorf("expected only naver, got %d sources", len(sources))
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct{ base, href, want string }{
		{"https://www.espn.com", "/nba/story", "https://www.espn.com/nba/story"},
		{"https://www.espn.com/home/", "/nba", "https://www.espn.com/nba"},
		{"https://www.espn.com", "//cdn.espn.com/x", "https://cdn.espn.com/x"},
		{"https://www.espn.com", "https://abc.com/y", "https://abc.com/y"},
		{"https://www.espn.com", "story", "story"},
	}
	for _, tt := range tests {
		if got := resolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
