package main

import (
	"testing"

	"github.com/IshaanNene/sportscard/internal/config"
)

func TestApplyCLIOverrides(t *testing.T) {
	t.Setenv(config.EnvAnthropicKey, "sk-ant-flag")
	outputDir, limit, provider, fetcherType, manifest, cronSpec = "/tmp/cards", 3, "Anthropic", "BROWSER", "csv", "@every 1h"
	t.Cleanup(func() {
		outputDir, limit, provider, fetcherType, manifest, cronSpec = "", 0, "", "", "", ""
	})

	cfg := config.DefaultConfig()
	applyCLIOverrides(cfg)

	if cfg.Output.BaseDir != "/tmp/cards" || cfg.Sources.LimitPerSource != 3 {
		t.Errorf("output/limit not applied: %+v %+v", cfg.Output, cfg.Sources)
	}
	if cfg.Caption.Provider != config.ProviderAnthropic || cfg.Caption.APIKey != "sk-ant-flag" {
		t.Errorf("provider override not applied: %q %q", cfg.Caption.Provider, cfg.Caption.APIKey)
	}
	if cfg.Fetcher.Type != "browser" || cfg.Output.Manifest != "csv" || cfg.Schedule.Spec != "@every 1h" {
		t.Errorf("unexpected overrides: %q %q %q", cfg.Fetcher.Type, cfg.Output.Manifest, cfg.Schedule.Spec)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("overridden config should validate: %v", err)
	}
}

func TestApplyCLIOverridesKeepsDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	applyCLIOverrides(cfg)
	if cfg.Sources.LimitPerSource != 5 || cfg.Caption.Provider != config.ProviderOpenAI {
		t.Errorf("defaults changed without flags: %+v", cfg.Sources)
	}
}
