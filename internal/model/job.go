package model

import (
	"context"
	"time"
)

// Field bounds enforced on every scraped record before it reaches the store.
const (
	MaxTitleLen       = 200
	MaxCompanyLen     = 150
	MaxDescriptionLen = 5000
	MinDescriptionLen = 50
)

// ScrapedJob is the unified representation of a posting from any source.
// It is transient: produced by an adapter, consumed by the filter and
// persistence stages, never stored verbatim.
type ScrapedJob struct {
	ExternalID    string    // source-prefixed, globally unique per source
	Title         string    // job title
	Company       string    // raw company name as the source reported it
	Location      string    // location string
	Description   string    // plain-text description
	SalaryMin     float64   // 0 = unknown
	SalaryMax     float64   // 0 = unknown
	JobType       string    // full-time, contract, ...
	WorkplaceType string    // remote, hybrid, onsite
	Requirements  []string  // tags/skills where the source exposes them
	ApplyURL      string    // direct apply link
	Source        string    // source name
	PostedAt      time.Time // source-provided, clamped to now if future-dated
	LogoURL       string    // optional company logo
	Website       string    // optional company website
	Industry      string    // optional industry hint from the source
}

// Organization is a persisted company identity row.
type Organization struct {
	ID             int64
	Name           string // display name, possibly promoted to a canonical name
	NormalizedName string // comparable form the matching engine scans on
	Industry       string
	Size           string
	Description    string
	LogoURL        string
	Website        string
	LinkedInURL    string
	WellKnown      bool // matched the curated well-known-employer table
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrgEnrichment carries freshly computed metadata used to back-fill
// previously-empty Organization fields. Empty values are ignored.
type OrgEnrichment struct {
	Industry    string
	Size        string
	Description string
	LogoURL     string
	Website     string
	LinkedInURL string
}

// Job is a persisted posting referencing an Organization. Created once;
// re-scraping the same external ID is a duplicate and is dropped.
type Job struct {
	ID             int64
	OrganizationID int64
	ExternalID     string
	Title          string
	Location       string
	Description    string
	SalaryMin      float64
	SalaryMax      float64
	Currency       string
	JobType        string
	WorkplaceType  string
	Department     string
	Country        string
	ExperienceMin  int
	ExperienceMax  int
	Priority       int
	ApplyURL       string
	Source         string
	PostedAt       time.Time
	ExpiresAt      time.Time
}

// RunLog is one row per orchestrator run; written at run end, never mutated.
type RunLog struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Success      bool
	JobsScraped  int
	JobsAdded    int
	SourceCounts map[string]int
	Errors       []string
}

// RunResult is what one orchestrator run returns for logging.
type RunResult struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
	Success      bool
	JobsScraped  int
	JobsAdded    int
	JobsSkipped  int
	JobsFailed   int
	SourceCounts map[string]int
	Errors       []string
}

// Log converts a run result into its persisted run-log form.
func (r RunResult) Log() RunLog {
	return RunLog{
		RunID:        r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Success:      r.Success,
		JobsScraped:  r.JobsScraped,
		JobsAdded:    r.JobsAdded,
		SourceCounts: r.SourceCounts,
		Errors:       r.Errors,
	}
}

// PersistStatus tags the outcome of persisting a single scraped job.
type PersistStatus int

const (
	PersistAdded PersistStatus = iota
	PersistSkipped
	PersistFailed
)

// PersistOutcome is the per-job result of the persistence layer. A skip
// (invalid company, duplicate external ID) is an expected outcome, not an
// error; Err is set only for PersistFailed.
type PersistOutcome struct {
	Status PersistStatus
	JobID  int64
	Reason string
	Err    error
}

// Source fetches postings from one external source. A failing source must
// not abort the run; the orchestrator records its error and continues.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]ScrapedJob, error)
}
