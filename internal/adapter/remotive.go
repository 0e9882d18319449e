package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hiredeck/ingest/internal/config"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/stealth"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	CompanyLogo               string   `json:"company_logo"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Description               string   `json:"description"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveAdapter fetches jobs from the Remotive remote-jobs API, one
// prioritized category at a time.
type RemotiveAdapter struct {
	cfg    config.RemotiveConfig
	client *stealth.Client
	logger *slog.Logger
}

// NewRemotiveAdapter creates a new adapter for the Remotive API.
func NewRemotiveAdapter(cfg config.RemotiveConfig, client *stealth.Client, logger *slog.Logger) *RemotiveAdapter {
	return &RemotiveAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *RemotiveAdapter) Name() string { return "remotive" }

// Fetch retrieves jobs for each configured category until the per-run cap is
// reached, pacing every call through the governor.
func (a *RemotiveAdapter) Fetch(ctx context.Context) ([]model.ScrapedJob, error) {
	now := time.Now()
	var jobs []model.ScrapedJob

	for _, category := range a.cfg.Categories {
		if len(jobs) >= a.cfg.MaxJobs {
			break
		}

		// Any error, rate limit included, abandons the source for this run.
		batch, err := a.fetchCategory(ctx, category, now)
		if err != nil {
			return nil, fmt.Errorf("remotive category %s: %w", category, err)
		}

		for _, job := range batch {
			if len(jobs) >= a.cfg.MaxJobs {
				break
			}
			jobs = append(jobs, job)
		}
	}

	return jobs, nil
}

func (a *RemotiveAdapter) fetchCategory(ctx context.Context, category string, now time.Time) ([]model.ScrapedJob, error) {
	params := url.Values{}
	params.Set("category", category)
	params.Set("limit", strconv.Itoa(a.cfg.MaxJobs))

	req, err := http.NewRequest(http.MethodGet, remotiveBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(ctx, req, a.cfg.BaseDelay)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var apiResp remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	jobs := make([]model.ScrapedJob, 0, len(apiResp.Jobs))
	for _, rj := range apiResp.Jobs {
		// Remotive dates look like "2024-05-21T09:15:00".
		posted, _ := parseTimeAny(rj.PublicationDate, "2006-01-02T15:04:05", time.RFC3339)
		posted = clampPostedAt(posted, now)
		if isStale(posted, now) {
			continue
		}

		jobs = append(jobs, model.ScrapedJob{
			ExternalID:    fmt.Sprintf("remotive-%d", rj.ID),
			Title:         truncate(rj.Title, model.MaxTitleLen),
			Company:       truncate(rj.CompanyName, model.MaxCompanyLen),
			Location:      rj.CandidateRequiredLocation,
			Description:   truncate(extractText(rj.Description), model.MaxDescriptionLen),
			JobType:       rj.JobType,
			WorkplaceType: "remote",
			Requirements:  rj.Tags,
			ApplyURL:      rj.URL,
			Source:        a.Name(),
			PostedAt:      posted,
			LogoURL:       rj.CompanyLogo,
			Industry:      rj.Category,
		})
	}

	return jobs, nil
}
