package caption

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IshaanNene/sportscard/internal/config"
)

// Backend turns a prompt into generated text.
type Backend interface {
	Name() string

	// Available reports whether the backend can serve requests. It must not
	// call the model; an error wraps types.ErrBackendUnavailable.
	Available(ctx context.Context) error

	Complete(ctx context.Context, prompt string) (string, error)
}

// Loader returns the backend to use for a run. A nil Backend with a nil
// error means captions come from the template only.
type Loader func() (Backend, error)

// Lazy wraps factory so it runs on the first call only. Later calls return
// the same backend, or the same construction error.
func Lazy(factory Loader) Loader {
	return sync.OnceValues(factory)
}

// FromConfig returns a lazy loader for the configured provider.
func FromConfig(cfg config.CaptionConfig, logger *slog.Logger) Loader {
	return Lazy(func() (Backend, error) {
		switch cfg.Provider {
		case config.ProviderNone:
			return nil, nil
		case config.ProviderOpenAI:
			return NewOpenAIBackend(cfg, logger), nil
		case config.ProviderAnthropic:
			return NewAnthropicBackend(cfg, logger), nil
		default:
			return nil, fmt.Errorf("unsupported caption provider: %s", cfg.Provider)
		}
	})
}
