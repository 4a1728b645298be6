package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Caption providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// DefaultCaptionModel is served by the HuggingFace router's OpenAI-compatible
// endpoint.
const DefaultCaptionModel = "meta-llama/Meta-Llama-3-8B-Instruct"

// Config is the root configuration for sportscard.
type Config struct {
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Sources  SourcesConfig  `mapstructure:"sources"  yaml:"sources"`
	Summary  SummaryConfig  `mapstructure:"summary"  yaml:"summary"`
	Caption  CaptionConfig  `mapstructure:"caption"  yaml:"caption"`
	Render   RenderConfig   `mapstructure:"render"   yaml:"render"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"             yaml:"type"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
}

// SourcesConfig lists the headline sources in the order they are scraped.
type SourcesConfig struct {
	LimitPerSource int         `mapstructure:"limit_per_source" yaml:"limit_per_source"`
	Naver          NaverConfig `mapstructure:"naver"            yaml:"naver"`
	ESPN           ESPNConfig  `mapstructure:"espn"             yaml:"espn"`
}

// NaverConfig configures the Naver Sports adapter.
type NaverConfig struct {
	Enabled          bool        `mapstructure:"enabled"           yaml:"enabled"`
	IndexURL         string      `mapstructure:"index_url"         yaml:"index_url"`
	Origin           string      `mapstructure:"origin"            yaml:"origin"`
	HeadlineSelector string      `mapstructure:"headline_selector" yaml:"headline_selector"`
	BodyRules        []ParseRule `mapstructure:"body_rules"        yaml:"body_rules"`
}

// ESPNConfig configures the ESPN adapter.
type ESPNConfig struct {
	Enabled          bool   `mapstructure:"enabled"           yaml:"enabled"`
	HomeURL          string `mapstructure:"home_url"          yaml:"home_url"`
	HeadlineSelector string `mapstructure:"headline_selector" yaml:"headline_selector"`
	MinParagraphLen  int    `mapstructure:"min_paragraph_len" yaml:"min_paragraph_len"`
}

// ParseRule locates a single element. Type is "css" (default) or "xpath".
type ParseRule struct {
	Selector string `mapstructure:"selector" yaml:"selector"`
	Type     string `mapstructure:"type"     yaml:"type"`
}

// SummaryConfig controls article body extraction.
type SummaryConfig struct {
	MaxLen int `mapstructure:"max_len" yaml:"max_len"`
}

// CaptionConfig controls caption generation.
type CaptionConfig struct {
	Provider           string        `mapstructure:"provider"             yaml:"provider"`
	Model              string        `mapstructure:"model"                yaml:"model"`
	BaseURL            string        `mapstructure:"base_url"             yaml:"base_url"`
	APIKey             string        `mapstructure:"api_key"              yaml:"api_key"`
	MaxTokens          int           `mapstructure:"max_tokens"           yaml:"max_tokens"`
	Temperature        float64       `mapstructure:"temperature"          yaml:"temperature"`
	TopP               float64       `mapstructure:"top_p"                yaml:"top_p"`
	Timeout            time.Duration `mapstructure:"timeout"              yaml:"timeout"`
	FallbackSummaryLen int           `mapstructure:"fallback_summary_len" yaml:"fallback_summary_len"`
}

// RenderConfig controls the image card layout.
type RenderConfig struct {
	Width      int `mapstructure:"width"       yaml:"width"`
	Height     int `mapstructure:"height"      yaml:"height"`
	MarginX    int `mapstructure:"margin_x"    yaml:"margin_x"`
	StartY     int `mapstructure:"start_y"     yaml:"start_y"`
	LineHeight int `mapstructure:"line_height" yaml:"line_height"`
	WrapWidth  int `mapstructure:"wrap_width"  yaml:"wrap_width"`
	Quality    int `mapstructure:"quality"     yaml:"quality"`

	// FontPath is an optional TrueType/OpenType font. The built-in bitmap
	// font only covers ASCII, so Korean titles need one.
	FontPath string  `mapstructure:"font_path" yaml:"font_path"`
	FontSize float64 `mapstructure:"font_size" yaml:"font_size"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	BaseDir  string `mapstructure:"base_dir" yaml:"base_dir"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
}

// ScheduleConfig controls the recurring run.
type ScheduleConfig struct {
	Spec     string `mapstructure:"spec"     yaml:"spec"`
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the metrics endpoint in scheduled mode.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  10 * time.Second,
			UserAgent:       "Mozilla/5.0",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
		},
		Sources: SourcesConfig{
			LimitPerSource: 5,
			Naver: NaverConfig{
				Enabled:          true,
				IndexURL:         "https://sports.news.naver.com/index",
				Origin:           "https://sports.news.naver.com",
				HeadlineSelector: ".today_item .text",
				BodyRules: []ParseRule{
					{Selector: ".news_end", Type: "css"},
					{Selector: "#newsEndContents", Type: "css"},
				},
			},
			ESPN: ESPNConfig{
				Enabled:          true,
				HomeURL:          "https://www.espn.com",
				HeadlineSelector: "section[class*='headlineStack'] li a",
				MinParagraphLen:  50,
			},
		},
		Summary: SummaryConfig{
			MaxLen: 300,
		},
		Caption: CaptionConfig{
			Provider:           ProviderOpenAI,
			Model:              DefaultCaptionModel,
			BaseURL:            "https://router.huggingface.co/v1",
			MaxTokens:          300,
			Temperature:        0.7,
			TopP:               0.95,
			Timeout:            60 * time.Second,
			FallbackSummaryLen: 250,
		},
		Render: RenderConfig{
			Width:      800,
			Height:     600,
			MarginX:    50,
			StartY:     100,
			LineHeight: 30,
			WrapWidth:  40,
			Quality:    90,
			FontSize:   20,
		},
		Output: OutputConfig{
			BaseDir:  "./output",
			Manifest: "json",
		},
		Schedule: ScheduleConfig{
			Spec:     "0 8 * * *",
			Timezone: "Asia/Seoul",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
