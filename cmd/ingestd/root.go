package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/adapter"
	"github.com/hiredeck/ingest/internal/config"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/retry"
	"github.com/hiredeck/ingest/internal/stealth"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ingestd",
	Short: "Job posting ingestion daemon",
	Long:  "Ingestd scrapes job boards, deduplicates postings, resolves company identities, and persists the results.",
	// Default to `start` so that `ingestd` with no args runs the daemon.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INGEST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > INGEST_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("INGEST_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildSources constructs the enabled adapters, all sharing one stealth
// client so the hard min-gap covers every outbound request, and wraps each
// with the retry decorator.
func buildSources(cfg *config.Config, logger *slog.Logger) []model.Source {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := stealth.New(httpClient, cfg.RateLimit.MinGap, logger)

	var sources []model.Source
	register := func(s model.Source) {
		sources = append(sources, retry.Wrap(s, 2, 5*time.Second, logger))
		logger.Info("registered source", "name", s.Name())
	}

	if cfg.Sources.Remotive.Enabled {
		register(adapter.NewRemotiveAdapter(cfg.Sources.Remotive, client, logger))
	}
	if cfg.Sources.Adzuna.Enabled {
		register(adapter.NewAdzunaAdapter(cfg.Sources.Adzuna, client, logger))
	}
	if cfg.Sources.WeWorkRemotely.Enabled {
		register(adapter.NewWWRAdapter(cfg.Sources.WeWorkRemotely, client, logger))
	}
	if cfg.Sources.HackerNews.Enabled {
		register(adapter.NewHNAdapter(cfg.Sources.HackerNews, client, logger))
	}
	return sources
}
