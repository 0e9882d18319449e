// Package orchestrator runs one full pipeline pass: all enabled sources
// concurrently, then filter, cap, and sequential persistence.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hiredeck/ingest/internal/filter"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/persist"
	"github.com/hiredeck/ingest/internal/store"
)

// dedupWindow bounds the recent-history external-ID set loaded per run.
const dedupWindow = 45 * 24 * time.Hour

// Orchestrator owns one run of the scrape pipeline.
type Orchestrator struct {
	sources   []model.Source
	filter    *filter.Filter
	persister *persist.Persister
	store     *store.Store
	maxJobs   int
	logger    *slog.Logger
}

// New wires an orchestrator from its stages.
func New(sources []model.Source, f *filter.Filter, p *persist.Persister, st *store.Store, maxJobs int, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		sources:   sources,
		filter:    f,
		persister: p,
		store:     st,
		maxJobs:   maxJobs,
		logger:    logger,
	}
}

// sourceResult is one adapter's contribution, collected at the join point.
type sourceResult struct {
	name string
	jobs []model.ScrapedJob
	err  error
}

// Run executes one complete pipeline pass. Individual source failures are
// recorded and never abort the run; only an inability to load the dedup set
// marks the run itself as failed.
func (o *Orchestrator) Run(ctx context.Context) model.RunResult {
	result := model.RunResult{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now(),
		SourceCounts: make(map[string]int),
	}

	existing, err := o.store.RecentExternalIDs(ctx, dedupWindow)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("loading existing IDs: %v", err))
		result.Success = false
		result.FinishedAt = time.Now()
		result.Duration = result.FinishedAt.Sub(result.StartedAt)
		o.logger.Error("run aborted: could not load dedup set", "run_id", result.RunID, "error", err)
		return result
	}

	scraped := o.fetchAll(ctx, &result)
	result.JobsScraped = len(scraped)

	kept := o.filter.Apply(scraped, existing)
	if len(kept) > o.maxJobs {
		kept = kept[:o.maxJobs]
	}

	// Sequential persistence keeps the unique-constraint race window small.
	for _, job := range kept {
		outcome := o.persister.Persist(ctx, job)
		switch outcome.Status {
		case model.PersistAdded:
			result.JobsAdded++
		case model.PersistSkipped:
			result.JobsSkipped++
		case model.PersistFailed:
			result.JobsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("persist %s: %v", job.ExternalID, outcome.Err))
		}
	}

	result.Success = true
	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)

	o.logger.Info("run complete",
		"run_id", result.RunID,
		"scraped", result.JobsScraped,
		"added", result.JobsAdded,
		"skipped", result.JobsSkipped,
		"failed", result.JobsFailed,
		"errors", len(result.Errors),
		"duration", result.Duration.Round(time.Millisecond).String(),
	)
	return result
}

// fetchAll fires every source concurrently and joins them. A panicking or
// failing source contributes zero jobs plus one recorded error; it never
// cancels its siblings.
func (o *Orchestrator) fetchAll(ctx context.Context, result *model.RunResult) []model.ScrapedJob {
	results := make([]sourceResult, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(i int, src model.Source) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = sourceResult{name: src.Name(), err: fmt.Errorf("panic: %v", r)}
				}
			}()
			jobs, err := src.Fetch(ctx)
			results[i] = sourceResult{name: src.Name(), jobs: jobs, err: err}
		}(i, src)
	}
	wg.Wait()

	var all []model.ScrapedJob
	for _, res := range results {
		if res.err != nil {
			// Partial results from a failed source are abandoned.
			result.SourceCounts[res.name] = 0
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", res.name, res.err))
			o.logger.Warn("source failed", "source", res.name, "error", res.err)
			continue
		}
		result.SourceCounts[res.name] = len(res.jobs)
		all = append(all, res.jobs...)
	}
	return all
}
