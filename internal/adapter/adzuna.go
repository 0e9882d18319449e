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

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 2 // per (country × query) pair, to keep run time bounded
)

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// AdzunaAdapter fetches jobs from the Adzuna multi-country search API.
// Credentials are mandatory; config validation refuses an enabled adapter
// without them.
type AdzunaAdapter struct {
	cfg    config.AdzunaConfig
	client *stealth.Client
	logger *slog.Logger
}

// NewAdzunaAdapter creates a new adapter for the Adzuna API.
func NewAdzunaAdapter(cfg config.AdzunaConfig, client *stealth.Client, logger *slog.Logger) *AdzunaAdapter {
	return &AdzunaAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *AdzunaAdapter) Name() string { return "adzuna" }

// Fetch iterates a bounded (country × query) subset, paging each pair until
// adzunaMaxPages or an empty page, with governor pacing between calls.
func (a *AdzunaAdapter) Fetch(ctx context.Context) ([]model.ScrapedJob, error) {
	now := time.Now()
	var jobs []model.ScrapedJob

	for _, country := range a.cfg.Countries {
		for _, query := range a.cfg.Queries {
			if len(jobs) >= a.cfg.MaxJobs {
				return jobs, nil
			}

			for page := 1; page <= adzunaMaxPages; page++ {
				batch, err := a.fetchPage(ctx, country, query, page, now)
				if err != nil {
					return nil, fmt.Errorf("adzuna %s %q page %d: %w", country, query, page, err)
				}

				for _, job := range batch {
					if len(jobs) >= a.cfg.MaxJobs {
						return jobs, nil
					}
					jobs = append(jobs, job)
				}

				if len(batch) < adzunaPageSize {
					break // last page for this pair
				}
			}
		}
	}

	return jobs, nil
}

func (a *AdzunaAdapter) fetchPage(ctx context.Context, country, query string, page int, now time.Time) ([]model.ScrapedJob, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", adzunaBaseURL, country, page)

	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", query)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequest(http.MethodGet, endpoint+"?"+params.Encode(), nil)
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

	var apiResp adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	jobs := make([]model.ScrapedJob, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		posted, _ := parseTimeAny(r.Created, time.RFC3339, "2006-01-02T15:04:05Z")
		posted = clampPostedAt(posted, now)
		if isStale(posted, now) {
			continue
		}

		jobs = append(jobs, model.ScrapedJob{
			ExternalID:  "adzuna-" + r.ID,
			Title:       truncate(extractText(r.Title), model.MaxTitleLen),
			Company:     truncate(r.Company.DisplayName, model.MaxCompanyLen),
			Location:    r.Location.DisplayName,
			Description: truncate(extractText(r.Description), model.MaxDescriptionLen),
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
			JobType:     r.ContractTime,
			ApplyURL:    r.RedirectURL,
			Source:      a.Name(),
			PostedAt:    posted,
		})
	}

	return jobs, nil
}
