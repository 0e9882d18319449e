package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hiredeck/ingest/internal/config"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/stealth"
)

const wwrBaseURL = "https://weworkremotely.com/categories"

var wwrItemRegex = regexp.MustCompile(`(?s)<item>(.*?)</item>`)

// WWRAdapter fetches jobs from the We Work Remotely RSS feeds, one feed per
// configured category. The feed markup is only semi-reliable, so field
// extraction is defensive: CDATA form first, plain tag second, and a
// malformed item is skipped rather than failing the feed.
type WWRAdapter struct {
	cfg    config.WWRConfig
	client *stealth.Client
	logger *slog.Logger
}

// NewWWRAdapter creates a new adapter for the We Work Remotely feeds.
func NewWWRAdapter(cfg config.WWRConfig, client *stealth.Client, logger *slog.Logger) *WWRAdapter {
	return &WWRAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *WWRAdapter) Name() string { return "weworkremotely" }

// Fetch retrieves each category feed until the per-run cap is reached.
func (a *WWRAdapter) Fetch(ctx context.Context) ([]model.ScrapedJob, error) {
	now := time.Now()
	var jobs []model.ScrapedJob

	for _, category := range a.cfg.Categories {
		if len(jobs) >= a.cfg.MaxJobs {
			break
		}

		batch, err := a.fetchFeed(ctx, category, now)
		if err != nil {
			return nil, fmt.Errorf("weworkremotely feed %s: %w", category, err)
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

func (a *WWRAdapter) fetchFeed(ctx context.Context, category string, now time.Time) ([]model.ScrapedJob, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s.rss", wwrBaseURL, category), nil)
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var jobs []model.ScrapedJob
	for _, m := range wwrItemRegex.FindAllStringSubmatch(string(body), -1) {
		job, ok := a.parseItem(m[1], now)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// parseItem extracts one posting from an <item> fragment. Returns ok=false
// for fragments missing the essentials; the rest of the feed still parses.
func (a *WWRAdapter) parseItem(item string, now time.Time) (model.ScrapedJob, bool) {
	rawTitle := feedField(item, "title")
	link := feedField(item, "link")
	guid := feedField(item, "guid")
	if rawTitle == "" || (link == "" && guid == "") {
		a.logger.Debug("skipping malformed feed item", "source", a.Name())
		return model.ScrapedJob{}, false
	}

	company, title := splitListingTitle(rawTitle)

	posted, _ := parseTimeAny(feedField(item, "pubDate"), time.RFC1123Z, time.RFC1123)
	posted = clampPostedAt(posted, now)
	if isStale(posted, now) {
		return model.ScrapedJob{}, false
	}

	externalID := guid
	if externalID == "" {
		externalID = link
	}

	return model.ScrapedJob{
		ExternalID:    "wwr-" + lastPathSegment(externalID),
		Title:         truncate(title, model.MaxTitleLen),
		Company:       truncate(company, model.MaxCompanyLen),
		Location:      feedField(item, "region"),
		Description:   truncate(extractText(feedField(item, "description")), model.MaxDescriptionLen),
		WorkplaceType: "remote",
		ApplyURL:      link,
		Source:        a.Name(),
		PostedAt:      posted,
	}, true
}

// feedField extracts <name>...</name> from an item fragment, trying the
// CDATA-delimited form first and falling back to a plain tag.
func feedField(item, name string) string {
	cdata := regexp.MustCompile(`(?s)<` + name + `[^>]*><!\[CDATA\[(.*?)\]\]></` + name + `>`)
	if m := cdata.FindStringSubmatch(item); m != nil {
		return strings.TrimSpace(m[1])
	}
	plain := regexp.MustCompile(`(?s)<` + name + `[^>]*>(.*?)</` + name + `>`)
	if m := plain.FindStringSubmatch(item); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// splitListingTitle derives company and role from the feed's combined
// "Company: Role" title. When the separator is missing the whole string
// becomes the title with its leading words as a best-effort company.
func splitListingTitle(raw string) (company, title string) {
	if idx := strings.Index(raw, ": "); idx > 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+2:])
	}

	raw = strings.TrimSpace(raw)
	words := strings.Fields(raw)
	if len(words) == 0 {
		return "", ""
	}
	n := min(3, len(words))
	return strings.Join(words[:n], " "), raw
}

// lastPathSegment returns the final segment of a URL-ish string, which is the
// stable listing ID in the WWR guid.
func lastPathSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
