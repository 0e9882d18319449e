package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/company"
	"github.com/hiredeck/ingest/internal/config"
	"github.com/hiredeck/ingest/internal/filter"
	"github.com/hiredeck/ingest/internal/orchestrator"
	"github.com/hiredeck/ingest/internal/persist"
	"github.com/hiredeck/ingest/internal/scheduler"
	"github.com/hiredeck/ingest/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion daemon",
	Long:  "Start the scheduler daemon; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func buildOrchestrator(cfg *config.Config, st *store.Store, logger *slog.Logger) *orchestrator.Orchestrator {
	sources := buildSources(cfg, logger)
	jobFilter := filter.New(cfg.ExcludeKeywords)
	matcher := company.NewMatcher(st, logger)
	persister := persist.New(st, matcher, logger)
	return orchestrator.New(sources, jobFilter, persister, st, cfg.MaxJobsPerRun, logger)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"db_path", cfg.DBPath,
		"max_jobs_per_run", cfg.MaxJobsPerRun,
		"interval_hours", cfg.Scheduler.IntervalHours,
		"min_gap", cfg.RateLimit.MinGap.String(),
	)

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	orch := buildOrchestrator(cfg, st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Scheduler.Enabled {
		logger.Info("scheduler disabled, performing a single run")
		result := orch.Run(ctx)
		if err := st.InsertRunLog(ctx, result.Log()); err != nil {
			logger.Error("failed to record run log", "run_id", result.RunID, "error", err)
		}
		if !result.Success {
			os.Exit(1)
		}
		return nil
	}

	sched := scheduler.New(orch, st, cfg.Scheduler.IntervalHours, cfg.Scheduler.AutoStart, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	sched.Stop()
	logger.Info("goodbye")
	return nil
}
