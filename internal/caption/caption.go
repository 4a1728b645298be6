// Package caption writes one social-media caption per news item, using an
// LLM backend when one is available and a fixed template otherwise.
package caption

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/parser"
	"github.com/IshaanNene/sportscard/internal/types"
)

// postMarker ends the prompt. Models tend to echo the prompt, so only the
// text after its last occurrence is kept.
const postMarker = "Instagram Post:"

// Prompt builds the caption request for one item.
func Prompt(item types.NewsItem) string {
	var b strings.Builder
	b.WriteString("You are a sports journalist creating short and engaging Instagram-style news posts.\n\n")
	b.WriteString("Write a stylish short paragraph (in <100 words) based on the following:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", item.Title())
	fmt.Fprintf(&b, "Summary: %s\n\n", item.Summary())
	b.WriteString(postMarker)
	return b.String()
}

// ExtractPost returns the generated post from a model reply.
func ExtractPost(reply string) string {
	if i := strings.LastIndex(reply, postMarker); i >= 0 {
		reply = reply[i+len(postMarker):]
	}
	return strings.TrimSpace(reply)
}

// Fallback is the template caption used when no backend can be reached.
// The summary is cut to summaryLen characters.
func Fallback(item types.NewsItem, summaryLen int) string {
	return fmt.Sprintf("%s\n출처: %s\n\n핵심 요약: %s",
		item.Title(), item.Source(), parser.Cut(item.Summary(), summaryLen))
}

// Generator produces captions for a run.
type Generator struct {
	load        Loader
	fallbackLen int
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewGenerator creates a Generator. load may be nil, in which case every
// caption is a template caption. metrics may be nil.
func NewGenerator(load Loader, fallbackLen int, metrics *observability.Metrics, logger *slog.Logger) *Generator {
	return &Generator{
		load:        load,
		fallbackLen: fallbackLen,
		metrics:     metrics,
		logger:      logger.With("component", "caption"),
	}
}

// Captions returns one caption per item, in item order. It never fails: an
// unavailable backend or a failed completion yields the template caption
// for the affected items.
func (g *Generator) Captions(ctx context.Context, items []types.NewsItem) []string {
	backend := g.backend(ctx)

	captions := make([]string, 0, len(items))
	for _, item := range items {
		captions = append(captions, g.caption(ctx, backend, item))
	}
	return captions
}

func (g *Generator) backend(ctx context.Context) Backend {
	if g.load == nil {
		return nil
	}
	backend, err := g.load()
	if err != nil {
		g.logger.Warn("falling back to template captions", "error", err)
		return nil
	}
	if backend == nil {
		return nil
	}
	if err := backend.Available(ctx); err != nil {
		g.logger.Warn("falling back to template captions", "backend", backend.Name(), "error", err)
		return nil
	}
	return backend
}

func (g *Generator) caption(ctx context.Context, backend Backend, item types.NewsItem) string {
	if backend != nil && ctx.Err() == nil {
		reply, err := backend.Complete(ctx, Prompt(item))
		if err == nil {
			if post := ExtractPost(reply); post != "" {
				g.count(true)
				return post
			}
			err = fmt.Errorf("empty reply")
		}
		g.logger.Warn("caption generation failed, using template",
			"backend", backend.Name(),
			"title", item.Title(),
			"error", err,
		)
	}
	g.count(false)
	return Fallback(item, g.fallbackLen)
}

func (g *Generator) count(generated bool) {
	if g.metrics == nil {
		return
	}
	if generated {
		g.metrics.CaptionsGenerated.Add(1)
	} else {
		g.metrics.CaptionsFallback.Add(1)
	}
}
