package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

// FirstText returns the raw text of the first element matched by any of the
// rules, trying them in order. It returns types.ErrContentNotFound when no
// rule matches.
func FirstText(doc *goquery.Document, rules []config.ParseRule) (string, error) {
	for _, rule := range rules {
		text, ok, err := firstText(doc, rule)
		if err != nil {
			return "", err
		}
		if ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %s", types.ErrContentNotFound, describe(rules))
}

func firstText(doc *goquery.Document, rule config.ParseRule) (string, bool, error) {
	switch rule.Type {
	case "", "css":
		sel := doc.Find(rule.Selector).First()
		if sel.Length() == 0 {
			return "", false, nil
		}
		return sel.Text(), true, nil
	case "xpath":
		if len(doc.Nodes) == 0 {
			return "", false, nil
		}
		node, err := htmlquery.Query(doc.Nodes[0], rule.Selector)
		if err != nil {
			return "", false, &types.ParseError{Selector: rule.Selector, Err: err}
		}
		if node == nil {
			return "", false, nil
		}
		return htmlquery.InnerText(node), true, nil
	default:
		return "", false, &types.ParseError{
			Selector: rule.Selector,
			Err:      fmt.Errorf("unsupported rule type %q", rule.Type),
		}
	}
}

func describe(rules []config.ParseRule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.Selector
	}
	return strings.Join(parts, ", ")
}
