// Package storage writes the run manifest that indexes the rendered posts.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/IshaanNene/sportscard/internal/types"
)

// Storage is the interface for all manifest backends.
type Storage interface {
	// Store persists a batch of posts.
	Store(posts []types.Post) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// ManifestBase is the manifest file name without extension.
const ManifestBase = "manifest"

// NewManifest creates the manifest backend for format inside dir. Format
// "none" returns a backend that discards everything.
func NewManifest(format, dir string, logger *slog.Logger) (Storage, error) {
	if format == "none" {
		return discard{}, nil
	}
	return NewFileStorage(format, filepath.Join(dir, ManifestBase+"."+format), logger)
}

// WriteAll stores posts and closes s. Failures are returned as
// *types.StorageError.
func WriteAll(s Storage, posts []types.Post) error {
	if err := s.Store(posts); err != nil {
		s.Close()
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	if err := s.Close(); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	return nil
}

type discard struct{}

func (discard) Store([]types.Post) error { return nil }
func (discard) Close() error             { return nil }
func (discard) Name() string             { return "none" }

// columns is the fixed field order of flat exports.
var columns = []string{"index", "title", "source", "url", "summary", "caption", "image", "caption_file"}

func record(p types.Post) map[string]any {
	return map[string]any{
		"index":        p.Index,
		"title":        p.Item.Title(),
		"source":       p.Item.Source(),
		"url":          p.Item.URL(),
		"summary":      p.Item.Summary(),
		"caption":      p.Caption,
		"image":        p.ImagePath,
		"caption_file": p.CaptionPath,
	}
}

func unsupported(format string) error {
	return fmt.Errorf("unsupported storage format: %s (supported: json, jsonl, csv, none)", format)
}
