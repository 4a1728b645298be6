package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

const articleHTML = `<!DOCTYPE html>
<html><body>
  <div id="newsEndContents">  본문
    두 번째 줄  </div>
  <div class="sidebar">광고</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestFirstTextFallsBackInOrder(t *testing.T) {
	doc := mustDoc(t, articleHTML)
	rules := []config.ParseRule{
		{Selector: ".news_end", Type: "css"},
		{Selector: "#newsEndContents", Type: "css"},
	}
	got, err := FirstText(doc, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Clean(got) != "본문 두 번째 줄" {
		t.Errorf("got %q", got)
	}
}

func TestFirstTextXPath(t *testing.T) {
	doc := mustDoc(t, articleHTML)
	got, err := FirstText(doc, []config.ParseRule{{Selector: "//div[@class='sidebar']", Type: "xpath"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "광고" {
		t.Errorf("got %q", got)
	}
}

func TestFirstTextNotFound(t *testing.T) {
	doc := mustDoc(t, articleHTML)
	_, err := FirstText(doc, []config.ParseRule{{Selector: ".news_end"}, {Selector: "//article", Type: "xpath"}})
	if !errors.Is(err, types.ErrContentNotFound) {
		t.Errorf("expected ErrContentNotFound, got %v", err)
	}
}

func TestFirstTextBadXPath(t *testing.T) {
	doc := mustDoc(t, articleHTML)
	_, err := FirstText(doc, []config.ParseRule{{Selector: "//div[", Type: "xpath"}})
	var perr *types.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}
