// Package render draws headline cards and writes them next to their
// captions in the run's output directory.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/types"
)

// Renderer draws one JPEG card per news item.
type Renderer struct {
	cfg     config.RenderConfig
	face    font.Face
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRenderer creates a Renderer. Without render.font_path the card uses
// the built-in 7x13 bitmap font.
func NewRenderer(cfg config.RenderConfig, metrics *observability.Metrics, logger *slog.Logger) (*Renderer, error) {
	face, err := loadFace(cfg)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:     cfg,
		face:    face,
		metrics: metrics,
		logger:  logger.With("component", "render"),
	}, nil
}

func loadFace(cfg config.RenderConfig) (font.Face, error) {
	if cfg.FontPath == "" {
		return basicfont.Face7x13, nil
	}
	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", cfg.FontPath, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// DrawCard returns a white card with the wrapped title in black. Each line
// starts at (MarginX, StartY + n*LineHeight), measured to the top of the
// text.
func (r *Renderer) DrawCard(title string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.Black, Face: r.face}
	ascent := r.face.Metrics().Ascent

	y := r.cfg.StartY
	for _, line := range Wrap(title, r.cfg.WrapWidth) {
		d.Dot = fixed.Point26_6{X: fixed.I(r.cfg.MarginX), Y: fixed.I(y) + ascent}
		d.DrawString(line)
		y += r.cfg.LineHeight
	}
	return img
}

// RenderCards writes post_<n>.jpg and post_<n>.txt for each item/caption
// pair into dir, numbering from 1. When the counts differ the extra
// entries of the longer list are dropped with a warning.
func (r *Renderer) RenderCards(items []types.NewsItem, captions []string, dir string) ([]types.Post, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	n := len(items)
	if len(captions) != n {
		r.logger.Warn("caption count does not match item count, using the smaller",
			"captions", len(captions),
			"items", n,
		)
		n = min(n, len(captions))
	}

	posts := make([]types.Post, 0, n)
	for i := range n {
		post := types.Post{
			Index:       i + 1,
			Item:        items[i],
			Caption:     captions[i],
			ImagePath:   fmt.Sprintf("post_%d.jpg", i+1),
			CaptionPath: fmt.Sprintf("post_%d.txt", i+1),
		}
		if err := r.writePost(dir, post); err != nil {
			return posts, err
		}
		if r.metrics != nil {
			r.metrics.CardsWritten.Add(1)
		}
		posts = append(posts, post)
	}

	r.logger.Info("cards written", "dir", dir, "count", len(posts))
	return posts, nil
}

func (r *Renderer) writePost(dir string, post types.Post) error {
	imagePath := filepath.Join(dir, post.ImagePath)
	if err := r.writeJPEG(imagePath, r.DrawCard(post.Item.Title())); err != nil {
		return &types.RenderError{Index: post.Index, Path: imagePath, Err: err}
	}

	captionPath := filepath.Join(dir, post.CaptionPath)
	if err := os.WriteFile(captionPath, []byte(post.Caption), 0o644); err != nil {
		return &types.RenderError{Index: post.Index, Path: captionPath, Err: err}
	}
	return nil
}

func (r *Renderer) writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: r.cfg.Quality}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
