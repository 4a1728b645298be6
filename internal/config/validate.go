package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Sources.LimitPerSource < 1 {
		return fmt.Errorf("sources.limit_per_source must be >= 1, got %d", cfg.Sources.LimitPerSource)
	}
	if !cfg.Sources.Naver.Enabled && !cfg.Sources.ESPN.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}
	if cfg.Sources.Naver.Enabled {
		if err := ValidateURL(cfg.Sources.Naver.IndexURL); err != nil {
			return fmt.Errorf("sources.naver.index_url: %w", err)
		}
		if err := ValidateURL(cfg.Sources.Naver.Origin); err != nil {
			return fmt.Errorf("sources.naver.origin: %w", err)
		}
		if len(cfg.Sources.Naver.BodyRules) == 0 {
			return fmt.Errorf("sources.naver.body_rules must not be empty")
		}
		for _, rule := range cfg.Sources.Naver.BodyRules {
			if rule.Type != "" && rule.Type != "css" && rule.Type != "xpath" {
				return fmt.Errorf("body rule %q: type must be 'css' or 'xpath', got %q", rule.Selector, rule.Type)
			}
		}
	}
	if cfg.Sources.ESPN.Enabled {
		if err := ValidateURL(cfg.Sources.ESPN.HomeURL); err != nil {
			return fmt.Errorf("sources.espn.home_url: %w", err)
		}
		if cfg.Sources.ESPN.MinParagraphLen < 0 {
			return fmt.Errorf("sources.espn.min_paragraph_len must be >= 0")
		}
	}

	if cfg.Summary.MaxLen < 1 {
		return fmt.Errorf("summary.max_len must be >= 1, got %d", cfg.Summary.MaxLen)
	}

	validProviders := map[string]bool{ProviderOpenAI: true, ProviderAnthropic: true, ProviderNone: true}
	if !validProviders[cfg.Caption.Provider] {
		return fmt.Errorf("caption.provider must be openai/anthropic/none, got %q", cfg.Caption.Provider)
	}
	if cfg.Caption.Provider != ProviderNone && cfg.Caption.Model == "" {
		return fmt.Errorf("caption.model must be set for provider %q", cfg.Caption.Provider)
	}
	if cfg.Caption.MaxTokens < 1 {
		return fmt.Errorf("caption.max_tokens must be >= 1")
	}
	if cfg.Caption.Timeout <= 0 {
		return fmt.Errorf("caption.timeout must be > 0")
	}
	if cfg.Caption.FallbackSummaryLen < 1 {
		return fmt.Errorf("caption.fallback_summary_len must be >= 1")
	}

	r := cfg.Render
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("render size must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.LineHeight < 1 || r.WrapWidth < 1 {
		return fmt.Errorf("render.line_height and render.wrap_width must be >= 1")
	}
	if r.Quality < 1 || r.Quality > 100 {
		return fmt.Errorf("render.quality must be 1-100, got %d", r.Quality)
	}
	if r.FontPath != "" && r.FontSize <= 0 {
		return fmt.Errorf("render.font_size must be > 0 when render.font_path is set")
	}

	if cfg.Output.BaseDir == "" {
		return fmt.Errorf("output.base_dir must not be empty")
	}
	validManifests := map[string]bool{"json": true, "jsonl": true, "csv": true, "none": true}
	if !validManifests[cfg.Output.Manifest] {
		return fmt.Errorf("output.manifest %q is not supported (valid: json, jsonl, csv, none)", cfg.Output.Manifest)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateSchedule checks the cron spec and timezone used by the scheduler.
func ValidateSchedule(cfg *ScheduleConfig) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.Spec); err != nil {
		return fmt.Errorf("invalid schedule.spec %q: %w", cfg.Spec, err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid schedule.timezone %q: %w", cfg.Timezone, err)
	}
	return nil
}

// ValidateURL checks that a URL is absolute http(s).
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
