package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hiredeck/ingest/internal/model"
)

// Candidate fetch bounds for the similarity scan: normalized-name length
// within ±lengthWindow of the target, at most candidateLimit rows.
const (
	lengthWindow   = 4
	candidateLimit = 200
)

// Directory is the subset of the organization store the matcher needs.
type Directory interface {
	// FindOrgByName does an exact display-name match, case-insensitive and
	// whitespace-collapsed. Returns nil when no row matches.
	FindOrgByName(ctx context.Context, name string) (*model.Organization, error)
	// FindOrgByNormalized does an exact match on the stored normalized name.
	FindOrgByNormalized(ctx context.Context, normalized string) (*model.Organization, error)
	// OrgCandidates returns active organizations whose normalized-name
	// length is within [minLen, maxLen], up to limit rows.
	OrgCandidates(ctx context.Context, minLen, maxLen, limit int) ([]model.Organization, error)
	// CreateOrg inserts a new row, returning model.ErrOrgExists when a
	// concurrent writer created the same name first.
	CreateOrg(ctx context.Context, org model.Organization) (int64, error)
	// PromoteOrg rewrites names/industry and sets the well-known flag.
	PromoteOrg(ctx context.Context, id int64, name, normalized, industry string) error
}

// Matcher resolves a raw scraped company name to an Organization, creating
// one when nothing in the store is close enough.
type Matcher struct {
	dir    Directory
	logger *slog.Logger
}

// NewMatcher creates a matcher over the given organization directory.
func NewMatcher(dir Directory, logger *slog.Logger) *Matcher {
	return &Matcher{dir: dir, logger: logger}
}

// Resolve maps rawName to an Organization: validate, canonical lookup, exact
// match, similarity scan, then create. Returns ErrInvalidName (wrapped) for
// names that can never become an organization; the caller skips the job.
func (m *Matcher) Resolve(ctx context.Context, rawName string) (*model.Organization, error) {
	if err := Validate(rawName); err != nil {
		return nil, err
	}

	displayName := strings.Join(strings.Fields(rawName), " ")
	canonical, isCanonical := LookupCanonical(displayName)
	if isCanonical {
		displayName = canonical.Name
	}

	normalized := Normalize(displayName)

	org, err := m.findExisting(ctx, displayName, normalized)
	if err != nil {
		return nil, err
	}

	// A well-known employer may already be stored under one of its alternate
	// spellings ("MSFT Corp" for Microsoft); those rows are too far from the
	// curated name for the similarity scan, so probe the alias list directly.
	if org == nil && isCanonical {
		org, err = m.findAlias(ctx, canonical)
		if err != nil {
			return nil, err
		}
	}

	if org == nil {
		org, err = m.create(ctx, displayName, normalized, canonical, isCanonical)
		if err != nil {
			return nil, err
		}
	}

	// One-way canonical promotion: a stored alias gets the curated name,
	// industry and well-known flag; never the reverse.
	if isCanonical && (org.Name != canonical.Name || !org.WellKnown) {
		if err := m.dir.PromoteOrg(ctx, org.ID, canonical.Name, Normalize(canonical.Name), canonical.Industry); err != nil {
			if errors.Is(err, model.ErrOrgExists) {
				// The canonical row already exists separately; keep the match
				// we have rather than colliding with it.
				m.logger.Debug("canonical promotion collided, keeping matched org",
					"org_id", org.ID, "canonical", canonical.Name)
				return org, nil
			}
			return nil, fmt.Errorf("promoting organization %d: %w", org.ID, err)
		}
		org.Name = canonical.Name
		org.Industry = canonical.Industry
		org.WellKnown = true
	}

	return org, nil
}

// findExisting tries an exact stored-name match, then a bounded similarity
// scan against organizations of comparable name length.
func (m *Matcher) findExisting(ctx context.Context, displayName, normalized string) (*model.Organization, error) {
	org, err := m.dir.FindOrgByName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("exact org lookup for %q: %w", displayName, err)
	}
	if org != nil {
		return org, nil
	}

	org, err = m.dir.FindOrgByNormalized(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("normalized org lookup for %q: %w", normalized, err)
	}
	if org != nil {
		return org, nil
	}

	targetLen := len(normalized)
	minLen := targetLen - lengthWindow
	if minLen < 2 {
		minLen = 2
	}
	candidates, err := m.dir.OrgCandidates(ctx, minLen, targetLen+lengthWindow, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("candidate scan for %q: %w", normalized, err)
	}

	var best *model.Organization
	bestScore := 0.0
	for i := range candidates {
		score := Similarity(normalized, candidates[i].NormalizedName)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best != nil && bestScore >= MatchThreshold {
		m.logger.Debug("fuzzy-matched organization",
			"raw", displayName, "matched", best.Name, "score", fmt.Sprintf("%.3f", bestScore))
		return best, nil
	}
	return nil, nil
}

// findAlias looks for a row stored under one of a canonical entry's alternate
// spellings, by display name and by normalized form.
func (m *Matcher) findAlias(ctx context.Context, entry CanonicalEntry) (*model.Organization, error) {
	seen := map[string]struct{}{Normalize(entry.Name): {}}
	for _, alias := range entry.Aliases {
		org, err := m.dir.FindOrgByName(ctx, alias)
		if err != nil {
			return nil, fmt.Errorf("alias org lookup for %q: %w", alias, err)
		}
		if org != nil {
			return org, nil
		}

		normalized := Normalize(alias)
		if _, done := seen[normalized]; done || normalized == "" {
			continue
		}
		seen[normalized] = struct{}{}
		org, err = m.dir.FindOrgByNormalized(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("normalized alias lookup for %q: %w", normalized, err)
		}
		if org != nil {
			return org, nil
		}
	}
	return nil, nil
}

// create inserts a new organization, recovering from the duplicate race: if
// a concurrent writer created the same name, re-query and use the winner.
func (m *Matcher) create(ctx context.Context, displayName, normalized string, canonical CanonicalEntry, isCanonical bool) (*model.Organization, error) {
	org := model.Organization{
		Name:           displayName,
		NormalizedName: normalized,
		Industry:       "Other",
		WellKnown:      isCanonical,
		Active:         true,
	}
	if isCanonical {
		org.Industry = canonical.Industry
	}

	id, err := m.dir.CreateOrg(ctx, org)
	if errors.Is(err, model.ErrOrgExists) {
		winner, qerr := m.dir.FindOrgByName(ctx, displayName)
		if qerr != nil {
			return nil, fmt.Errorf("re-query after duplicate org race for %q: %w", displayName, qerr)
		}
		if winner == nil {
			return nil, fmt.Errorf("duplicate org race for %q but winner not found: %w", displayName, err)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating organization %q: %w", displayName, err)
	}

	org.ID = id
	return &org, nil
}
