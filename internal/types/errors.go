package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL         = errors.New("invalid URL")
	ErrEmptyResponse      = errors.New("empty response body")
	ErrContentNotFound    = errors.New("expected element not found")
	ErrInvalidItem        = errors.New("invalid news item")
	ErrNoDataCollected    = errors.New("no news items could be fetched")
	ErrNoCaptions         = errors.New("no captions were generated")
	ErrBackendUnavailable = errors.New("caption backend unavailable")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError wraps errors that occur while writing a card.
type RenderError struct {
	Index int
	Path  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error for post %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during manifest export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
