package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the ingest pipeline.
type Config struct {
	DBPath          string
	MaxJobsPerRun   int
	ExcludeKeywords []string
	RateLimit       RateLimitConfig
	Scheduler       SchedulerConfig
	Sources         SourcesConfig
}

// RateLimitConfig controls the request governor.
type RateLimitConfig struct {
	MinGap time.Duration // hard minimum spacing between any two outbound requests
}

// SchedulerConfig controls the recurring pipeline runs. When disabled, the
// daemon performs a single run and exits instead of looping. AutoStart fires
// an immediate run when the scheduler starts; otherwise the first run waits
// for the first interval tick.
type SchedulerConfig struct {
	Enabled       bool
	IntervalHours int
	AutoStart     bool
}

// SourcesConfig groups the per-source adapter configs.
type SourcesConfig struct {
	Remotive       RemotiveConfig
	Adzuna         AdzunaConfig
	WeWorkRemotely WWRConfig
	HackerNews     HNConfig
}

// RemotiveConfig configures the remote-jobs API adapter.
type RemotiveConfig struct {
	Enabled    bool
	MaxJobs    int
	BaseDelay  time.Duration
	Categories []string
}

// AdzunaConfig configures the multi-country job-search API adapter.
// AppID and AppKey are required when the adapter is enabled; there is no
// built-in fallback.
type AdzunaConfig struct {
	Enabled   bool
	MaxJobs   int
	BaseDelay time.Duration
	AppID     string
	AppKey    string
	Countries []string
	Queries   []string
}

// WWRConfig configures the We Work Remotely RSS adapter.
type WWRConfig struct {
	Enabled    bool
	MaxJobs    int
	BaseDelay  time.Duration
	Categories []string
}

// HNConfig configures the Hacker News who-is-hiring adapter.
type HNConfig struct {
	Enabled   bool
	MaxJobs   int
	BaseDelay time.Duration
}

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	DBPath          string             `yaml:"db_path"`
	MaxJobsPerRun   int                `yaml:"max_jobs_per_run"`
	ExcludeKeywords []string           `yaml:"exclude_keywords"`
	RateLimit       rawRateLimit       `yaml:"rate_limit"`
	Scheduler       rawScheduler       `yaml:"scheduler"`
	Sources         rawSources         `yaml:"sources"`
}

type rawRateLimit struct {
	MinGap string `yaml:"min_gap"`
}

type rawScheduler struct {
	Enabled       *bool `yaml:"enabled"`    // absent means enabled
	IntervalHours int   `yaml:"interval_hours"`
	AutoStart     *bool `yaml:"auto_start"` // absent means immediate first run
}

type rawSources struct {
	Remotive       rawSource `yaml:"remotive"`
	Adzuna         rawAdzuna `yaml:"adzuna"`
	WeWorkRemotely rawSource `yaml:"weworkremotely"`
	HackerNews     rawSource `yaml:"hackernews"`
}

type rawSource struct {
	Enabled    bool     `yaml:"enabled"`
	MaxJobs    int      `yaml:"max_jobs"`
	BaseDelay  string   `yaml:"base_delay"`
	Categories []string `yaml:"categories"`
}

type rawAdzuna struct {
	Enabled   bool     `yaml:"enabled"`
	MaxJobs   int      `yaml:"max_jobs"`
	BaseDelay string   `yaml:"base_delay"`
	AppID     string   `yaml:"app_id"`
	AppKey    string   `yaml:"app_key"`
	Countries []string `yaml:"countries"`
	Queries   []string `yaml:"queries"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables, applies defaults, validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (credentials are usually ${ADZUNA_APP_KEY}).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		DBPath:          raw.DBPath,
		MaxJobsPerRun:   raw.MaxJobsPerRun,
		ExcludeKeywords: raw.ExcludeKeywords,
		Scheduler: SchedulerConfig{
			Enabled:       raw.Scheduler.Enabled == nil || *raw.Scheduler.Enabled,
			IntervalHours: raw.Scheduler.IntervalHours,
			AutoStart:     raw.Scheduler.AutoStart == nil || *raw.Scheduler.AutoStart,
		},
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "ingest.db"
	}
	if cfg.MaxJobsPerRun == 0 {
		cfg.MaxJobsPerRun = 150
	}
	if cfg.Scheduler.IntervalHours == 0 {
		cfg.Scheduler.IntervalHours = 6
	}

	cfg.RateLimit.MinGap, err = parseDuration(raw.RateLimit.MinGap, 750*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("parse rate_limit.min_gap %q: %w", raw.RateLimit.MinGap, err)
	}

	cfg.Sources.Remotive, err = parseRemotive(raw.Sources.Remotive)
	if err != nil {
		return nil, err
	}
	cfg.Sources.Adzuna, err = parseAdzuna(raw.Sources.Adzuna)
	if err != nil {
		return nil, err
	}
	cfg.Sources.WeWorkRemotely, err = parseWWR(raw.Sources.WeWorkRemotely)
	if err != nil {
		return nil, err
	}
	cfg.Sources.HackerNews, err = parseHN(raw.Sources.HackerNews)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func parseRemotive(raw rawSource) (RemotiveConfig, error) {
	delay, err := parseDuration(raw.BaseDelay, 2*time.Second)
	if err != nil {
		return RemotiveConfig{}, fmt.Errorf("parse sources.remotive.base_delay %q: %w", raw.BaseDelay, err)
	}
	cfg := RemotiveConfig{
		Enabled:    raw.Enabled,
		MaxJobs:    raw.MaxJobs,
		BaseDelay:  delay,
		Categories: raw.Categories,
	}
	if cfg.MaxJobs == 0 {
		cfg.MaxJobs = 50
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"software-dev", "data", "devops-sysadmin"}
	}
	return cfg, nil
}

func parseAdzuna(raw rawAdzuna) (AdzunaConfig, error) {
	delay, err := parseDuration(raw.BaseDelay, 3*time.Second)
	if err != nil {
		return AdzunaConfig{}, fmt.Errorf("parse sources.adzuna.base_delay %q: %w", raw.BaseDelay, err)
	}
	cfg := AdzunaConfig{
		Enabled:   raw.Enabled,
		MaxJobs:   raw.MaxJobs,
		BaseDelay: delay,
		AppID:     raw.AppID,
		AppKey:    raw.AppKey,
		Countries: raw.Countries,
		Queries:   raw.Queries,
	}
	if cfg.MaxJobs == 0 {
		cfg.MaxJobs = 50
	}
	if len(cfg.Countries) == 0 {
		cfg.Countries = []string{"us", "gb"}
	}
	if len(cfg.Queries) == 0 {
		cfg.Queries = []string{"software engineer", "data engineer"}
	}
	return cfg, nil
}

func parseWWR(raw rawSource) (WWRConfig, error) {
	delay, err := parseDuration(raw.BaseDelay, 2*time.Second)
	if err != nil {
		return WWRConfig{}, fmt.Errorf("parse sources.weworkremotely.base_delay %q: %w", raw.BaseDelay, err)
	}
	cfg := WWRConfig{
		Enabled:    raw.Enabled,
		MaxJobs:    raw.MaxJobs,
		BaseDelay:  delay,
		Categories: raw.Categories,
	}
	if cfg.MaxJobs == 0 {
		cfg.MaxJobs = 40
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"remote-programming-jobs", "remote-devops-sysadmin-jobs"}
	}
	return cfg, nil
}

func parseHN(raw rawSource) (HNConfig, error) {
	delay, err := parseDuration(raw.BaseDelay, 1*time.Second)
	if err != nil {
		return HNConfig{}, fmt.Errorf("parse sources.hackernews.base_delay %q: %w", raw.BaseDelay, err)
	}
	cfg := HNConfig{
		Enabled:   raw.Enabled,
		MaxJobs:   raw.MaxJobs,
		BaseDelay: delay,
	}
	if cfg.MaxJobs == 0 {
		cfg.MaxJobs = 30
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxJobsPerRun < 1 {
		return fmt.Errorf("max_jobs_per_run must be positive, got %d", cfg.MaxJobsPerRun)
	}
	if cfg.Scheduler.IntervalHours < 1 || cfg.Scheduler.IntervalHours > 24 {
		return fmt.Errorf("scheduler.interval_hours must be between 1 and 24, got %d", cfg.Scheduler.IntervalHours)
	}
	if cfg.RateLimit.MinGap < 0 {
		return fmt.Errorf("rate_limit.min_gap must not be negative, got %v", cfg.RateLimit.MinGap)
	}

	s := cfg.Sources
	if !s.Remotive.Enabled && !s.Adzuna.Enabled && !s.WeWorkRemotely.Enabled && !s.HackerNews.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}

	// Credentialed sources fail closed: no key, no adapter.
	if s.Adzuna.Enabled && (s.Adzuna.AppID == "" || s.Adzuna.AppKey == "") {
		return fmt.Errorf("sources.adzuna.app_id and app_key are required when adzuna is enabled")
	}

	return nil
}
