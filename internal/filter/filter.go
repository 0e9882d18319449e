// Package filter drops postings that are already ingested, match an
// exclusion keyword, or fail minimum-quality checks. It applies no ranking.
package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/hiredeck/ingest/internal/model"
)

// Filter holds the configured exclusion keywords, lowercased once.
type Filter struct {
	excludeKeywords []string
}

// New returns a filter with the given exclusion keywords.
func New(excludeKeywords []string) *Filter {
	lowered := make([]string, 0, len(excludeKeywords))
	for _, kw := range excludeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Filter{excludeKeywords: lowered}
}

// Apply returns the jobs that survive dedup and quality checks. existing is
// the external-ID set loaded once per run; it is read-only here.
func (f *Filter) Apply(jobs []model.ScrapedJob, existing map[string]struct{}) []model.ScrapedJob {
	kept := make([]model.ScrapedJob, 0, len(jobs))
	for _, job := range jobs {
		if f.keep(job, existing) {
			kept = append(kept, job)
		}
	}
	return kept
}

func (f *Filter) keep(job model.ScrapedJob, existing map[string]struct{}) bool {
	if _, seen := existing[job.ExternalID]; seen {
		return false
	}

	// Length bounds count runes, the same unit the adapters truncate in.
	title := strings.TrimSpace(job.Title)
	company := strings.TrimSpace(job.Company)
	if title == "" || utf8.RuneCountInString(title) > model.MaxTitleLen {
		return false
	}
	if company == "" || utf8.RuneCountInString(company) > model.MaxCompanyLen {
		return false
	}
	if utf8.RuneCountInString(job.Description) < model.MinDescriptionLen {
		return false
	}

	if len(f.excludeKeywords) > 0 {
		haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Company)
		for _, kw := range f.excludeKeywords {
			if strings.Contains(haystack, kw) {
				return false
			}
		}
	}

	return true
}
