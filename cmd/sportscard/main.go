package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/sportscard/internal/caption"
	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/engine"
	"github.com/IshaanNene/sportscard/internal/fetcher"
	"github.com/IshaanNene/sportscard/internal/observability"
	"github.com/IshaanNene/sportscard/internal/render"
	"github.com/IshaanNene/sportscard/internal/source"
	"github.com/IshaanNene/sportscard/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	outputDir   string
	limit       int
	provider    string
	fetcherType string
	manifest    string
	cronSpec    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sportscard",
		Short: "Daily sports headlines as captioned image cards",
		Long: `sportscard collects the day's top headlines from Naver Sports and ESPN,
writes a social-media caption for each one and renders it as an image card.

Output goes to <output>/<YYYY-MM-DD>/post_<n>.jpg and post_<n>.txt, plus a
manifest indexing every post.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// errReported marks failures that were already logged.
var errReported = errors.New("run failed")

// addPipelineFlags registers the flags shared by run and schedule.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory (a dated subdirectory is created)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "headlines per source (0 = config default)")
	cmd.Flags().StringVar(&provider, "provider", "", "caption provider: openai, anthropic, none")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "page fetcher: http, browser")
	cmd.Flags().StringVar(&manifest, "manifest", "", "manifest format: json, jsonl, csv, none")
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// pipeline holds everything a run needs. Close releases the fetcher.
type pipeline struct {
	runner  *engine.Runner
	fetcher fetcher.Fetcher
	metrics *observability.Metrics
}

func (p *pipeline) Close() error { return p.fetcher.Close() }

// buildPipeline wires fetcher, sources, captioning and rendering.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	metrics := observability.NewMetrics(logger)

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	f = fetcher.WithMetrics(f, metrics)

	renderer, err := render.NewRenderer(cfg.Render, metrics, logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	sources := source.FromConfig(cfg, f, logger)
	captions := caption.NewGenerator(
		caption.FromConfig(cfg.Caption, logger),
		cfg.Caption.FallbackSummaryLen,
		metrics,
		logger,
	)

	return &pipeline{
		runner:  engine.NewRunner(cfg, sources, captions, renderer, metrics, logger),
		fetcher: f,
		metrics: metrics,
	}, nil
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg != nil && cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.Output.BaseDir = outputDir
	}
	if limit > 0 {
		cfg.Sources.LimitPerSource = limit
	}
	if provider != "" {
		cfg.Caption.Provider = strings.ToLower(provider)
		if cfg.Caption.APIKey == "" {
			cfg.Caption.APIKey = config.APIKeyFromEnv(cfg.Caption.Provider)
		}
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetcherType)
	}
	if manifest != "" {
		cfg.Output.Manifest = strings.ToLower(manifest)
	}
	if cronSpec != "" {
		cfg.Schedule.Spec = cronSpec
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// logRunError logs a failed run and returns errReported.
func logRunError(logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, types.ErrNoDataCollected):
		logger.Error("no news items could be fetched, aborting run")
	case errors.Is(err, types.ErrNoCaptions):
		logger.Error("no captions were generated for the collected news items")
	default:
		logger.Error("run failed", "error", err)
	}
	return errReported
}
