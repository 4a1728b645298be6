package caption

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

// OpenAIBackend talks to any OpenAI-compatible chat completion endpoint.
// The default configuration points at the HuggingFace router.
type OpenAIBackend struct {
	cfg    config.CaptionConfig
	client *openai.Client
	logger *slog.Logger
}

// NewOpenAIBackend creates the backend. No request is made until Complete.
func NewOpenAIBackend(cfg config.CaptionConfig, logger *slog.Logger) *OpenAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger.With("component", "caption_openai"),
	}
}

func (b *OpenAIBackend) Name() string { return "openai:" + b.cfg.Model }

func (b *OpenAIBackend) Available(ctx context.Context) error {
	if b.cfg.APIKey == "" {
		return fmt.Errorf("%w: no API token (set %s or caption.api_key)", types.ErrBackendUnavailable, config.EnvHuggingFaceToken)
	}
	return nil
}

func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: float32(b.cfg.Temperature),
		TopP:        float32(b.cfg.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat completion response")
	}

	b.logger.Debug("completion received",
		"model", resp.Model,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
