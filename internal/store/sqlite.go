package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hiredeck/ingest/internal/model"
)

// Store persists Organizations, Jobs and ScrapingLogs in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	normalized_name TEXT NOT NULL DEFAULT '',
	industry        TEXT NOT NULL DEFAULT 'Other',
	size            TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	logo_url        TEXT NOT NULL DEFAULT '',
	website         TEXT NOT NULL DEFAULT '',
	linkedin_url    TEXT NOT NULL DEFAULT '',
	well_known      INTEGER NOT NULL DEFAULT 0,
	active          INTEGER NOT NULL DEFAULT 1,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_organizations_name
	ON organizations (name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_organizations_normalized
	ON organizations (normalized_name);

CREATE TABLE IF NOT EXISTS jobs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	organization_id INTEGER NOT NULL REFERENCES organizations(id),
	external_id     TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL,
	location        TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	salary_min      REAL NOT NULL DEFAULT 0,
	salary_max      REAL NOT NULL DEFAULT 0,
	currency        TEXT NOT NULL DEFAULT '',
	job_type        TEXT NOT NULL DEFAULT '',
	workplace_type  TEXT NOT NULL DEFAULT '',
	department      TEXT NOT NULL DEFAULT '',
	country         TEXT NOT NULL DEFAULT '',
	experience_min  INTEGER NOT NULL DEFAULT 0,
	experience_max  INTEGER NOT NULL DEFAULT 0,
	priority        INTEGER NOT NULL DEFAULT 0,
	apply_url       TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL,
	posted_at       DATETIME,
	expires_at      DATETIME,
	created_at      DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at);

CREATE TABLE IF NOT EXISTS scraping_logs (
	run_id        TEXT PRIMARY KEY,
	started_at    DATETIME NOT NULL,
	finished_at   DATETIME NOT NULL,
	success       INTEGER NOT NULL,
	jobs_scraped  INTEGER NOT NULL,
	jobs_added    INTEGER NOT NULL,
	source_counts TEXT NOT NULL DEFAULT '{}',
	errors        TEXT NOT NULL DEFAULT '[]'
);
`

// NewStore opens (or creates) a SQLite database at dbPath and ensures the
// schema exists.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// SQLite allows a single writer; one pooled connection queues concurrent
	// writers instead of surfacing busy errors.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// RecentExternalIDs returns the external IDs of jobs ingested within the
// given window, as the read-only dedup set for one run.
func (s *Store) RecentExternalIDs(ctx context.Context, window time.Duration) (map[string]struct{}, error) {
	cutoff := time.Now().UTC().Add(-window)
	rows, err := s.db.QueryContext(ctx,
		"SELECT external_id FROM jobs WHERE created_at >= ?", cutoff)
	if err != nil {
		return nil, fmt.Errorf("loading recent external IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning external ID: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

const orgColumns = `id, name, normalized_name, industry, size, description,
	logo_url, website, linkedin_url, well_known, active, created_at, updated_at`

func scanOrg(row interface{ Scan(...any) error }) (*model.Organization, error) {
	var org model.Organization
	err := row.Scan(&org.ID, &org.Name, &org.NormalizedName, &org.Industry,
		&org.Size, &org.Description, &org.LogoURL, &org.Website,
		&org.LinkedInURL, &org.WellKnown, &org.Active, &org.CreatedAt,
		&org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// FindOrgByName does an exact active-row match, case-insensitive and
// whitespace-collapsed. Returns nil, nil when no row matches.
func (s *Store) FindOrgByName(ctx context.Context, name string) (*model.Organization, error) {
	collapsed := strings.Join(strings.Fields(name), " ")
	org, err := scanOrg(s.db.QueryRowContext(ctx,
		"SELECT "+orgColumns+" FROM organizations WHERE lower(name) = lower(?) AND active = 1",
		collapsed))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding organization %q: %w", name, err)
	}
	return org, nil
}

// FindOrgByNormalized does an exact match on the stored normalized name.
// Returns nil, nil when no row matches.
func (s *Store) FindOrgByNormalized(ctx context.Context, normalized string) (*model.Organization, error) {
	org, err := scanOrg(s.db.QueryRowContext(ctx,
		"SELECT "+orgColumns+" FROM organizations WHERE normalized_name = ? AND active = 1",
		normalized))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding organization by normalized %q: %w", normalized, err)
	}
	return org, nil
}

// GetOrg fetches one organization by ID.
func (s *Store) GetOrg(ctx context.Context, id int64) (*model.Organization, error) {
	org, err := scanOrg(s.db.QueryRowContext(ctx,
		"SELECT "+orgColumns+" FROM organizations WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("getting organization %d: %w", id, err)
	}
	return org, nil
}

// OrgCandidates returns active organizations whose normalized-name length is
// in [minLen, maxLen], bounded to limit rows, for the similarity scan.
func (s *Store) OrgCandidates(ctx context.Context, minLen, maxLen, limit int) ([]model.Organization, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orgColumns+" FROM organizations WHERE active = 1 AND length(normalized_name) BETWEEN ? AND ? LIMIT ?",
		minLen, maxLen, limit)
	if err != nil {
		return nil, fmt.Errorf("loading org candidates: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning org candidate: %w", err)
		}
		orgs = append(orgs, *org)
	}
	return orgs, rows.Err()
}

// CreateOrg inserts a new organization row. A unique-name violation (a
// concurrent writer won the race) is returned as model.ErrOrgExists.
func (s *Store) CreateOrg(ctx context.Context, org model.Organization) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations
			(name, normalized_name, industry, size, description, logo_url,
			 website, linkedin_url, well_known, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.Name, org.NormalizedName, org.Industry, org.Size, org.Description,
		org.LogoURL, org.Website, org.LinkedInURL, org.WellKnown, org.Active,
		now, now)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("inserting organization %q: %w", org.Name, model.ErrOrgExists)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting organization %q: %w", org.Name, err)
	}
	return res.LastInsertId()
}

// PromoteOrg rewrites an organization's names and industry to canonical
// values and flags it well-known. A name collision with another row is
// returned as model.ErrOrgExists for the caller to handle.
func (s *Store) PromoteOrg(ctx context.Context, id int64, name, normalized, industry string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE organizations SET name = ?, normalized_name = ?, industry = ?, well_known = 1, updated_at = ? WHERE id = ?",
		name, normalized, industry, time.Now().UTC(), id)
	if isUniqueViolation(err) {
		return fmt.Errorf("promoting organization %d to %q: %w", id, name, model.ErrOrgExists)
	}
	if err != nil {
		return fmt.Errorf("promoting organization %d: %w", id, err)
	}
	return nil
}

// BackfillOrg fills previously-empty metadata fields from enrichment data.
// Non-empty stored values are never overwritten, and industry is never
// downgraded from a specific classification back to the generic default.
func (s *Store) BackfillOrg(ctx context.Context, id int64, e model.OrgEnrichment) error {
	org, err := s.GetOrg(ctx, id)
	if err != nil {
		return err
	}

	set := make([]string, 0, 6)
	args := make([]any, 0, 8)
	add := func(column, current, fresh string) {
		if current == "" && fresh != "" {
			set = append(set, column+" = ?")
			args = append(args, fresh)
		}
	}
	add("size", org.Size, e.Size)
	add("description", org.Description, e.Description)
	add("logo_url", org.LogoURL, e.LogoURL)
	add("website", org.Website, e.Website)
	add("linkedin_url", org.LinkedInURL, e.LinkedInURL)
	if (org.Industry == "" || org.Industry == "Other") && e.Industry != "" && e.Industry != "Other" {
		set = append(set, "industry = ?")
		args = append(args, e.Industry)
	}

	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)
	_, err = s.db.ExecContext(ctx,
		"UPDATE organizations SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("backfilling organization %d: %w", id, err)
	}
	return nil
}

// ListOrgs returns the most recently updated organizations.
func (s *Store) ListOrgs(ctx context.Context, limit int) ([]model.Organization, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orgColumns+" FROM organizations ORDER BY updated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning organization: %w", err)
		}
		orgs = append(orgs, *org)
	}
	return orgs, rows.Err()
}

// InsertJob inserts a posting. A duplicate external ID is returned as
// model.ErrJobExists; the caller records a skip, not a failure.
func (s *Store) InsertJob(ctx context.Context, job model.Job) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs
			(organization_id, external_id, title, location, description,
			 salary_min, salary_max, currency, job_type, workplace_type,
			 department, country, experience_min, experience_max, priority,
			 apply_url, source, posted_at, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.OrganizationID, job.ExternalID, job.Title, job.Location,
		job.Description, job.SalaryMin, job.SalaryMax, job.Currency,
		job.JobType, job.WorkplaceType, job.Department, job.Country,
		job.ExperienceMin, job.ExperienceMax, job.Priority, job.ApplyURL,
		job.Source, job.PostedAt, job.ExpiresAt, time.Now().UTC())
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("inserting job %s: %w", job.ExternalID, model.ErrJobExists)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting job %s: %w", job.ExternalID, err)
	}
	return res.LastInsertId()
}

// CountJobsForOrg returns how many stored jobs reference an organization.
func (s *Store) CountJobsForOrg(ctx context.Context, orgID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE organization_id = ?", orgID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting jobs for org %d: %w", orgID, err)
	}
	return count, nil
}

// InsertRunLog records one completed orchestrator run. Rows are never
// mutated afterward.
func (s *Store) InsertRunLog(ctx context.Context, log model.RunLog) error {
	counts, err := json.Marshal(log.SourceCounts)
	if err != nil {
		return fmt.Errorf("encoding source counts: %w", err)
	}
	errs, err := json.Marshal(log.Errors)
	if err != nil {
		return fmt.Errorf("encoding run errors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scraping_logs
			(run_id, started_at, finished_at, success, jobs_scraped, jobs_added,
			 source_counts, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.RunID, log.StartedAt.UTC(), log.FinishedAt.UTC(), log.Success,
		log.JobsScraped, log.JobsAdded, string(counts), string(errs))
	if err != nil {
		return fmt.Errorf("inserting run log %s: %w", log.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent run logs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, success, jobs_scraped,
		       jobs_added, source_counts, errors
		FROM scraping_logs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing run logs: %w", err)
	}
	defer rows.Close()

	var logs []model.RunLog
	for rows.Next() {
		var log model.RunLog
		var counts, errs string
		if err := rows.Scan(&log.RunID, &log.StartedAt, &log.FinishedAt,
			&log.Success, &log.JobsScraped, &log.JobsAdded, &counts, &errs); err != nil {
			return nil, fmt.Errorf("scanning run log: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &log.SourceCounts); err != nil {
			return nil, fmt.Errorf("decoding source counts for %s: %w", log.RunID, err)
		}
		if err := json.Unmarshal([]byte(errs), &log.Errors); err != nil {
			return nil, fmt.Errorf("decoding errors for %s: %w", log.RunID, err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
