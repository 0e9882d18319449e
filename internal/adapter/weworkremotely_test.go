package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hiredeck/ingest/internal/config"
)

func wwrFeed(now time.Time) string {
	pub := now.Add(-48 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>We Work Remotely: Programming Jobs</title>
	<item>
		<title><![CDATA[Acme: Senior Go Engineer]]></title>
		<region><![CDATA[Anywhere in the World]]></region>
		<description><![CDATA[<p>Build our ingestion backbone in Go.</p>]]></description>
		<pubDate>%s</pubDate>
		<guid>https://weworkremotely.com/remote-jobs/acme-senior-go-engineer-12345</guid>
		<link>https://weworkremotely.com/remote-jobs/acme-senior-go-engineer-12345</link>
	</item>
	<item>
		<title>Globex: Platform Engineer</title>
		<description>Run our Kubernetes fleet.</description>
		<pubDate>%s</pubDate>
		<link>https://weworkremotely.com/remote-jobs/globex-platform-engineer-67890</link>
	</item>
	<item>
		<description>No title and no link, upstream glitch.</description>
	</item>
</channel>
</rss>`, pub, pub)
}

func TestWWRFetch(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".rss") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(wwrFeed(now)))
	}))
	defer srv.Close()

	cfg := config.WWRConfig{MaxJobs: 10, Categories: []string{"remote-programming-jobs"}}
	a := NewWWRAdapter(cfg, testClient(srv), testLogger())

	jobs, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (malformed item skipped), got %d", len(jobs))
	}

	first := jobs[0]
	if first.Company != "Acme" || first.Title != "Senior Go Engineer" {
		t.Errorf("title split gave company %q, title %q", first.Company, first.Title)
	}
	if first.ExternalID != "wwr-acme-senior-go-engineer-12345" {
		t.Errorf("external ID = %q", first.ExternalID)
	}
	if first.Location != "Anywhere in the World" {
		t.Errorf("location = %q", first.Location)
	}
	if strings.Contains(first.Description, "<p>") {
		t.Errorf("description kept markup: %q", first.Description)
	}

	// Plain-tag items parse via the fallback, keyed on link when guid is
	// missing.
	second := jobs[1]
	if second.Company != "Globex" || second.Title != "Platform Engineer" {
		t.Errorf("fallback parse gave company %q, title %q", second.Company, second.Title)
	}
	if second.ExternalID != "wwr-globex-platform-engineer-67890" {
		t.Errorf("external ID = %q", second.ExternalID)
	}
}

func TestWWRFetch_StaleItemsDropped(t *testing.T) {
	old := time.Now().Add(-90 * 24 * time.Hour).Format(time.RFC1123Z)
	feed := fmt.Sprintf(`<rss><channel><item>
		<title>Initech: Archivist</title>
		<pubDate>%s</pubDate>
		<link>https://weworkremotely.com/remote-jobs/initech-archivist-1</link>
	</item></channel></rss>`, old)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	cfg := config.WWRConfig{MaxJobs: 10, Categories: []string{"remote-programming-jobs"}}
	a := NewWWRAdapter(cfg, testClient(srv), testLogger())

	jobs, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected stale item to be dropped, got %d jobs", len(jobs))
	}
}

func TestSplitListingTitle(t *testing.T) {
	cases := []struct {
		in      string
		company string
		title   string
	}{
		{"Acme: Senior Go Engineer", "Acme", "Senior Go Engineer"},
		{"Acme Inc: DevOps: Platform", "Acme Inc", "DevOps: Platform"},
		// No separator: leading words become a best-effort company.
		{"Just A Plain Title", "Just A Plain", "Just A Plain Title"},
		{"Solo", "Solo", "Solo"},
	}
	for _, c := range cases {
		company, title := splitListingTitle(c.in)
		if company != c.company || title != c.title {
			t.Errorf("splitListingTitle(%q) = (%q, %q), want (%q, %q)",
				c.in, company, title, c.company, c.title)
		}
	}
}
