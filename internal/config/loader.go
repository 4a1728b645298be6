package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables read for the caption backend credentials when the
// config file leaves caption.api_key empty.
const (
	EnvHuggingFaceToken = "HUGGINGFACEHUB_API_TOKEN"
	EnvOpenAIKey        = "OPENAI_API_KEY"
	EnvAnthropicKey     = "ANTHROPIC_API_KEY"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults. CLI flags
// are applied by the caller afterwards.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("SPORTSCARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("sportscard")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".sportscard"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Caption.APIKey == "" {
		cfg.Caption.APIKey = APIKeyFromEnv(cfg.Caption.Provider)
	}

	return cfg, nil
}

// APIKeyFromEnv returns the conventional credential for a caption provider.
// Used when caption.api_key is unset.
func APIKeyFromEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return os.Getenv(EnvAnthropicKey)
	case ProviderOpenAI:
		if token := os.Getenv(EnvHuggingFaceToken); token != "" {
			return token
		}
		return os.Getenv(EnvOpenAIKey)
	default:
		return ""
	}
}

// setDefaults registers default values in viper so env overrides of nested
// keys are picked up by Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.stealth", cfg.Fetcher.Stealth)

	v.SetDefault("sources.limit_per_source", cfg.Sources.LimitPerSource)
	v.SetDefault("sources.naver.enabled", cfg.Sources.Naver.Enabled)
	v.SetDefault("sources.naver.index_url", cfg.Sources.Naver.IndexURL)
	v.SetDefault("sources.naver.origin", cfg.Sources.Naver.Origin)
	v.SetDefault("sources.naver.headline_selector", cfg.Sources.Naver.HeadlineSelector)
	v.SetDefault("sources.espn.enabled", cfg.Sources.ESPN.Enabled)
	v.SetDefault("sources.espn.home_url", cfg.Sources.ESPN.HomeURL)
	v.SetDefault("sources.espn.headline_selector", cfg.Sources.ESPN.HeadlineSelector)
	v.SetDefault("sources.espn.min_paragraph_len", cfg.Sources.ESPN.MinParagraphLen)

	v.SetDefault("summary.max_len", cfg.Summary.MaxLen)

	v.SetDefault("caption.provider", cfg.Caption.Provider)
	v.SetDefault("caption.model", cfg.Caption.Model)
	v.SetDefault("caption.base_url", cfg.Caption.BaseURL)
	v.SetDefault("caption.api_key", cfg.Caption.APIKey)
	v.SetDefault("caption.max_tokens", cfg.Caption.MaxTokens)
	v.SetDefault("caption.temperature", cfg.Caption.Temperature)
	v.SetDefault("caption.top_p", cfg.Caption.TopP)
	v.SetDefault("caption.timeout", cfg.Caption.Timeout)
	v.SetDefault("caption.fallback_summary_len", cfg.Caption.FallbackSummaryLen)

	v.SetDefault("render.width", cfg.Render.Width)
	v.SetDefault("render.height", cfg.Render.Height)
	v.SetDefault("render.margin_x", cfg.Render.MarginX)
	v.SetDefault("render.start_y", cfg.Render.StartY)
	v.SetDefault("render.line_height", cfg.Render.LineHeight)
	v.SetDefault("render.wrap_width", cfg.Render.WrapWidth)
	v.SetDefault("render.quality", cfg.Render.Quality)
	v.SetDefault("render.font_path", cfg.Render.FontPath)
	v.SetDefault("render.font_size", cfg.Render.FontSize)

	v.SetDefault("output.base_dir", cfg.Output.BaseDir)
	v.SetDefault("output.manifest", cfg.Output.Manifest)

	v.SetDefault("schedule.spec", cfg.Schedule.Spec)
	v.SetDefault("schedule.timezone", cfg.Schedule.Timezone)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
