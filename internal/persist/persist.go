// Package persist turns filtered ScrapedJobs into Organization and Job rows.
// Each job resolves its company through the matching engine, back-fills
// organization metadata, then inserts the posting. Skips are outcomes, not
// errors: the orchestrator inspects the returned PersistOutcome.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hiredeck/ingest/internal/company"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/store"
)

// jobRetention is how long a posting stays valid after its posted date.
const jobRetention = 45 * 24 * time.Hour

// Persister writes one scraped job at a time. Sequential use keeps the
// unique-constraint race window small; the store's conflict recovery covers
// the rest.
type Persister struct {
	store   *store.Store
	matcher *company.Matcher
	logger  *slog.Logger
}

// New creates a persister over the store and matching engine.
func New(st *store.Store, matcher *company.Matcher, logger *slog.Logger) *Persister {
	return &Persister{store: st, matcher: matcher, logger: logger}
}

// Persist resolves the job's organization and inserts the posting.
func (p *Persister) Persist(ctx context.Context, sj model.ScrapedJob) model.PersistOutcome {
	org, err := p.matcher.Resolve(ctx, sj.Company)
	if err != nil {
		if errors.Is(err, company.ErrInvalidName) {
			p.logger.Debug("skipping job with invalid company",
				"external_id", sj.ExternalID, "company", sj.Company, "reason", err)
			return model.PersistOutcome{
				Status: model.PersistSkipped,
				Reason: fmt.Sprintf("invalid company name %q", sj.Company),
			}
		}
		return model.PersistOutcome{
			Status: model.PersistFailed,
			Reason: "organization resolution failed",
			Err:    fmt.Errorf("resolving organization for %s: %w", sj.ExternalID, err),
		}
	}

	// Opportunistic enrichment: fill fields the org row is still missing.
	if err := p.store.BackfillOrg(ctx, org.ID, enrichmentFrom(sj)); err != nil {
		// Enrichment is best-effort; the job insert still proceeds.
		p.logger.Warn("organization backfill failed", "org_id", org.ID, "error", err)
	}

	job := p.buildJob(sj, org)
	id, err := p.store.InsertJob(ctx, job)
	if errors.Is(err, model.ErrJobExists) {
		return model.PersistOutcome{
			Status: model.PersistSkipped,
			Reason: fmt.Sprintf("duplicate external ID %s", sj.ExternalID),
		}
	}
	if err != nil {
		return model.PersistOutcome{
			Status: model.PersistFailed,
			Reason: "job insert failed",
			Err:    err,
		}
	}

	return model.PersistOutcome{Status: model.PersistAdded, JobID: id}
}

func enrichmentFrom(sj model.ScrapedJob) model.OrgEnrichment {
	return model.OrgEnrichment{
		Industry: sj.Industry,
		LogoURL:  sj.LogoURL,
		Website:  sj.Website,
	}
}

func (p *Persister) buildJob(sj model.ScrapedJob, org *model.Organization) model.Job {
	expMin, expMax := experienceRange(sj.Title)

	country := deriveCountry(sj.Location)
	priority := 0
	if org.WellKnown {
		priority = 1
	}

	var expiresAt time.Time
	postedAt := sj.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	expiresAt = postedAt.Add(jobRetention)

	return model.Job{
		OrganizationID: org.ID,
		ExternalID:     sj.ExternalID,
		Title:          sj.Title,
		Location:       sj.Location,
		Description:    sj.Description,
		SalaryMin:      sj.SalaryMin,
		SalaryMax:      sj.SalaryMax,
		Currency:       deriveCurrency(country),
		JobType:        sj.JobType,
		WorkplaceType:  sj.WorkplaceType,
		Department:     deriveDepartment(sj.Title),
		Country:        country,
		ExperienceMin:  expMin,
		ExperienceMax:  expMax,
		Priority:       priority,
		ApplyURL:       sj.ApplyURL,
		Source:         sj.Source,
		PostedAt:       postedAt,
		ExpiresAt:      expiresAt,
	}
}
