package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/engine"
)

var runAtStart bool

// scheduleCmd creates the "schedule" subcommand.
func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run on a cron schedule until interrupted",
		Long: `Run the pipeline on a cron schedule (default "0 8 * * *" in Asia/Seoul).
Runs that fail are logged and the scheduler keeps going.`,
		Args: cobra.NoArgs,
		RunE: runSchedule,
	}
	addPipelineFlags(cmd)
	cmd.Flags().StringVar(&cronSpec, "cron", "", "cron spec, e.g. \"0 8 * * *\" or \"@every 6h\"")
	cmd.Flags().BoolVar(&runAtStart, "now", false, "also run once immediately")
	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ValidateSchedule(&cfg.Schedule); err != nil {
		return err
	}
	logger := setupLogger(&cfg.Logging)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	sched, err := engine.NewScheduler(cfg.Schedule, p.runner, logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if cfg.Metrics.Enabled {
		srv := p.metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runAtStart {
		if _, err := sched.RunNow(ctx); err != nil {
			logRunError(logger, err)
		}
	}

	sched.Start(ctx)
	<-ctx.Done()
	logger.Info("received signal, shutting down...")
	sched.Stop()
	return nil
}
