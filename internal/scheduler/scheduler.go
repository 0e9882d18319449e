// Package scheduler triggers a full pipeline run immediately on start and
// then on a fixed interval, recording one run-log row per run.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/orchestrator"
	"github.com/hiredeck/ingest/internal/store"
)

// Scheduler wraps robfig/cron and owns the recurring scrape loop. One
// instance per process; Start is guarded against double invocation.
type Scheduler struct {
	cron      *cron.Cron
	orch      *orchestrator.Orchestrator
	store     *store.Store
	spec      string // cron spec, e.g. "@every 6h"
	immediate bool   // fire a run on Start instead of waiting for the first tick
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	lastRun *model.RunResult
}

// New creates a scheduler that fires every intervalHours hours. With
// immediate set, Start also kicks off one run right away.
func New(orch *orchestrator.Orchestrator, st *store.Store, intervalHours int, immediate bool, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		orch:      orch,
		store:     st,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		immediate: immediate,
		logger:    logger,
	}
}

// Start registers the recurring job and runs one scrape immediately so the
// store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("registering cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)

	if s.immediate {
		// First run fires now, off the caller's goroutine.
		go s.runOnce(ctx)
	}

	return nil
}

// Stop cancels the pending timer. An in-flight run completes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// Status reports whether the scheduler is running and the last run result,
// nil until the first run completes.
func (s *Scheduler) Status() (bool, *model.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.lastRun
}

// runOnce executes one pipeline run and records its run log. A failed run
// is recorded with success=false; it never panics through the cron
// goroutine, and the next scheduled run still fires.
func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("run panicked", "panic", r)
		}
	}()

	result := s.orch.Run(ctx)

	s.mu.Lock()
	s.lastRun = &result
	s.mu.Unlock()

	if err := s.store.InsertRunLog(ctx, result.Log()); err != nil {
		s.logger.Error("failed to record run log", "run_id", result.RunID, "error", err)
	}
}
