package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion cycle and exit",
	Long:  "One-shot run: scrapes all enabled sources, persists the results, prints a summary, exits.",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "write to a throwaway database that is discarded on exit")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dbPath := cfg.DBPath
	if dryRun {
		// A real sqlite file in a temp dir keeps the full pipeline honest
		// (unique constraints included) without touching the live database.
		tmpDir, err := os.MkdirTemp("", "ingest-dryrun-*")
		if err != nil {
			logger.Error("failed to create temp dir", "error", err)
			os.Exit(1)
		}
		defer os.RemoveAll(tmpDir)
		dbPath = filepath.Join(tmpDir, "dryrun.db")
		logger.Info("dry-run mode enabled, results will be discarded")
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	orch := buildOrchestrator(cfg, st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := orch.Run(ctx)
	if !dryRun {
		if err := st.InsertRunLog(ctx, result.Log()); err != nil {
			logger.Error("failed to record run", "error", err)
		}
	}

	logger.Info("run complete",
		"run_id", result.RunID,
		"success", result.Success,
		"scraped", result.JobsScraped,
		"added", result.JobsAdded,
		"skipped", result.JobsSkipped,
		"failed", result.JobsFailed,
		"duration", result.Duration.String(),
	)
	for _, e := range result.Errors {
		logger.Warn("source error", "error", e)
	}
	if !result.Success {
		os.Exit(1)
	}
	return nil
}
