package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  remotive:
    enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "ingest.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.MaxJobsPerRun != 150 {
		t.Errorf("max jobs = %d", cfg.MaxJobsPerRun)
	}
	if cfg.Scheduler.IntervalHours != 6 {
		t.Errorf("interval = %d", cfg.Scheduler.IntervalHours)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("scheduler should default to enabled")
	}
	if !cfg.Scheduler.AutoStart {
		t.Error("auto_start should default to true")
	}
	if cfg.RateLimit.MinGap != 750*time.Millisecond {
		t.Errorf("min gap = %v", cfg.RateLimit.MinGap)
	}
	if cfg.Sources.Remotive.MaxJobs != 50 {
		t.Errorf("remotive max jobs = %d", cfg.Sources.Remotive.MaxJobs)
	}
	if len(cfg.Sources.Remotive.Categories) == 0 {
		t.Error("remotive categories not defaulted")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/ingest/jobs.db
max_jobs_per_run: 80
exclude_keywords: [crypto, unpaid]
rate_limit:
  min_gap: 2s
scheduler:
  enabled: true
  interval_hours: 12
  auto_start: false
sources:
  remotive:
    enabled: true
    max_jobs: 30
    base_delay: 5s
    categories: [software-dev]
  adzuna:
    enabled: true
    app_id: my-id
    app_key: my-key
    countries: [us]
    queries: ["golang developer"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "/var/lib/ingest/jobs.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if len(cfg.ExcludeKeywords) != 2 {
		t.Errorf("exclude keywords = %v", cfg.ExcludeKeywords)
	}
	if cfg.RateLimit.MinGap != 2*time.Second {
		t.Errorf("min gap = %v", cfg.RateLimit.MinGap)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.IntervalHours != 12 || cfg.Scheduler.AutoStart {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
	if cfg.Sources.Remotive.BaseDelay != 5*time.Second {
		t.Errorf("remotive base delay = %v", cfg.Sources.Remotive.BaseDelay)
	}
	if cfg.Sources.Adzuna.AppID != "my-id" {
		t.Errorf("adzuna app id = %q", cfg.Sources.Adzuna.AppID)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ADZUNA_KEY", "secret-from-env")
	path := writeConfig(t, `
sources:
  adzuna:
    enabled: true
    app_id: my-id
    app_key: ${TEST_ADZUNA_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sources.Adzuna.AppKey != "secret-from-env" {
		t.Errorf("app key = %q", cfg.Sources.Adzuna.AppKey)
	}
}

func TestLoad_AdzunaRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
sources:
  adzuna:
    enabled: true
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for enabled adzuna without credentials")
	}
	if !strings.Contains(err.Error(), "app_id") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_SchedulerDisabled(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  enabled: false
sources:
  remotive:
    enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scheduler.Enabled {
		t.Error("scheduler should be disabled")
	}
}

func TestLoad_RequiresOneSource(t *testing.T) {
	path := writeConfig(t, `
db_path: jobs.db
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when no source is enabled")
	}
}

func TestLoad_IntervalBounds(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  interval_hours: 48
sources:
  remotive:
    enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for out-of-range interval")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
rate_limit:
  min_gap: quickly
sources:
  remotive:
    enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
