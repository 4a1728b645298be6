package caption

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

// AnthropicBackend generates captions with the Claude Messages API.
type AnthropicBackend struct {
	cfg    config.CaptionConfig
	client anthropic.Client
	logger *slog.Logger
}

// NewAnthropicBackend creates the backend. The HuggingFace default model is
// replaced with a Claude model since it cannot be served here.
func NewAnthropicBackend(cfg config.CaptionConfig, logger *slog.Logger) *AnthropicBackend {
	if cfg.Model == "" || cfg.Model == config.DefaultCaptionModel {
		cfg.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" && !strings.Contains(cfg.BaseURL, "huggingface.co") {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicBackend{
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
		logger: logger.With("component", "caption_anthropic"),
	}
}

func (b *AnthropicBackend) Name() string { return "anthropic:" + b.cfg.Model }

func (b *AnthropicBackend) Available(ctx context.Context) error {
	if b.cfg.APIKey == "" {
		return fmt.Errorf("%w: no API key (set %s or caption.api_key)", types.ErrBackendUnavailable, config.EnvAnthropicKey)
	}
	return nil
}

func (b *AnthropicBackend) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.cfg.Model),
		MaxTokens:   int64(b.cfg.MaxTokens),
		Temperature: anthropic.Float(b.cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	b.logger.Debug("completion received", "output_tokens", message.Usage.OutputTokens)
	return textBlock.Text, nil
}
