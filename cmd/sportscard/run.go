package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect today's headlines and render the posts once",
		Args:  cobra.NoArgs,
		RunE:  runOnce,
	}
	addPipelineFlags(cmd)
	return cmd
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(&cfg.Logging)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting run",
		"sources", enabledSources(cfg.Sources.Naver.Enabled, cfg.Sources.ESPN.Enabled),
		"limit_per_source", cfg.Sources.LimitPerSource,
		"provider", cfg.Caption.Provider,
		"fetcher", cfg.Fetcher.Type,
	)

	report, err := p.runner.Run(ctx, time.Now())
	if err != nil {
		return logRunError(logger, err)
	}

	fmt.Printf("\n✅ %d posts generated in %s\n", len(report.Posts), report.Duration.Round(time.Millisecond))
	fmt.Printf("   Pages:     %d requested, %d failed\n", report.Stats["pages_requested"], report.Stats["pages_failed"])
	fmt.Printf("   Captions:  %d generated, %d from template\n", report.Stats["captions_generated"], report.Stats["captions_fallback"])
	fmt.Printf("   Run:       %s\n", report.RunID)
	fmt.Printf("   Output:    %s\n", report.Dir)
	for _, post := range report.Posts {
		fmt.Printf("     %s  %s\n", filepath.Join(report.Dir, post.ImagePath), post.Item.Title())
	}
	if report.Stats["summaries_unavailable"] > 0 {
		fmt.Printf("\n💡 %d articles had no readable body; their captions use the placeholder summary.\n", report.Stats["summaries_unavailable"])
	}
	return nil
}

func enabledSources(naver, espn bool) []string {
	var names []string
	if naver {
		names = append(names, "naver")
	}
	if espn {
		names = append(names, "espn")
	}
	return names
}
