package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hiredeck/ingest/internal/config"
	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/stealth"
)

const (
	hnBaseURL = "https://hacker-news.firebaseio.com/v0"
	hnItemURL = "https://news.ycombinator.com/item?id=%d"

	// How many of whoishiring's recent submissions to scan for the thread,
	// and how many comments to pull from it, worst case.
	hnThreadScan  = 5
	hnMaxComments = 120
)

// hnItem is the Firebase item-tree node. Stories carry Kids; comments carry Text.
type hnItem struct {
	ID      int64   `json:"id"`
	Type    string  `json:"type"`
	By      string  `json:"by"`
	Time    int64   `json:"time"`
	Text    string  `json:"text"`
	Title   string  `json:"title"`
	Kids    []int64 `json:"kids"`
	Dead    bool    `json:"dead"`
	Deleted bool    `json:"deleted"`
}

type hnUser struct {
	Submitted []int64 `json:"submitted"`
}

// HNAdapter fetches postings from the monthly Hacker News "Who is hiring?"
// thread via the Firebase item-tree API. Each top-level comment is one
// posting whose company and title must be derived from a single free-text
// first line ("Company | Role | Location", "Company: Role", or anything).
type HNAdapter struct {
	cfg     config.HNConfig
	client  *stealth.Client
	logger  *slog.Logger
	baseURL string // overridable in tests
}

// NewHNAdapter creates a new adapter for the Hacker News API.
func NewHNAdapter(cfg config.HNConfig, client *stealth.Client, logger *slog.Logger) *HNAdapter {
	return &HNAdapter{cfg: cfg, client: client, logger: logger, baseURL: hnBaseURL}
}

func (a *HNAdapter) Name() string { return "hackernews" }

// Fetch locates the latest hiring thread and maps its top-level comments.
func (a *HNAdapter) Fetch(ctx context.Context) ([]model.ScrapedJob, error) {
	now := time.Now()

	thread, err := a.findHiringThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("hackernews thread lookup: %w", err)
	}
	if thread == nil {
		a.logger.Warn("no hiring thread found among recent submissions", "source", a.Name())
		return nil, nil
	}

	kids := thread.Kids
	if len(kids) > hnMaxComments {
		kids = kids[:hnMaxComments]
	}

	var jobs []model.ScrapedJob
	for _, kid := range kids {
		if len(jobs) >= a.cfg.MaxJobs {
			break
		}

		item, err := a.fetchItem(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("hackernews item %d: %w", kid, err)
		}
		if item.Dead || item.Deleted || item.Text == "" {
			continue
		}

		posted := clampPostedAt(time.Unix(item.Time, 0), now)
		if isStale(posted, now) {
			continue
		}

		// The header line is everything before the first paragraph break.
		header := item.Text
		if idx := strings.Index(item.Text, "<p>"); idx >= 0 {
			header = item.Text[:idx]
		}
		company, title := parseHiringLine(extractText(header))
		if title == "" {
			continue
		}

		text := extractText(strings.ReplaceAll(item.Text, "<p>", " "))

		jobs = append(jobs, model.ScrapedJob{
			ExternalID:  fmt.Sprintf("hn-%d", item.ID),
			Title:       truncate(title, model.MaxTitleLen),
			Company:     truncate(company, model.MaxCompanyLen),
			Description: truncate(text, model.MaxDescriptionLen),
			ApplyURL:    fmt.Sprintf(hnItemURL, item.ID),
			Source:      a.Name(),
			PostedAt:    posted,
		})
	}

	return jobs, nil
}

// findHiringThread scans whoishiring's most recent submissions for the
// current "Who is hiring?" story.
func (a *HNAdapter) findHiringThread(ctx context.Context) (*hnItem, error) {
	var user hnUser
	if err := a.getJSON(ctx, a.baseURL+"/user/whoishiring.json", &user); err != nil {
		return nil, err
	}

	scan := user.Submitted
	if len(scan) > hnThreadScan {
		scan = scan[:hnThreadScan]
	}

	for _, id := range scan {
		item, err := a.fetchItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(item.Title), "who is hiring") {
			return item, nil
		}
	}
	return nil, nil
}

func (a *HNAdapter) fetchItem(ctx context.Context, id int64) (*hnItem, error) {
	var item hnItem
	if err := a.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", a.baseURL, id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (a *HNAdapter) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(ctx, req, a.cfg.BaseDelay)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// parseHiringLine splits the conventional "Company | Role | Location" header,
// falls back to "Company: Role", and when neither separator appears still
// produces a usable posting: the whole line as the title and its leading
// words as a best-effort company.
func parseHiringLine(line string) (company, title string) {
	if parts := strings.Split(line, "|"); len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	if idx := strings.Index(line, ": "); idx > 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+2:])
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return "", ""
	}
	n := min(3, len(words))
	return strings.Join(words[:n], " "), line
}
