package adapter

import (
	"html"
	"regexp"
	"strings"
	"time"
)

// freshnessWindow is how old a posting may be before adapters discard it.
const freshnessWindow = 60 * 24 * time.Hour

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (some sources double-encode; no-op on
// already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// clampPostedAt normalizes a source-provided timestamp: future dates become
// now, the zero value stays zero for the caller to decide.
func clampPostedAt(t, now time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if t.After(now) {
		return now
	}
	return t
}

// isStale reports whether a posting is older than the freshness window.
// Zero timestamps are not stale: sources that omit dates still contribute.
func isStale(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return now.Sub(t) > freshnessWindow
}

// parseTimeAny tries each layout in order and returns the first success.
func parseTimeAny(value string, layouts ...string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
