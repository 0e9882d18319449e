package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hiredeck/ingest/internal/config"
)

// hnTestServer serves a minimal Firebase item tree: whoishiring's
// submissions, a hiring thread, and its comments.
func hnTestServer(t *testing.T, comments map[int64]string) *httptest.Server {
	t.Helper()
	now := time.Now().Unix()

	mux := http.NewServeMux()
	mux.HandleFunc("/user/whoishiring.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"submitted": [900, 1000]}`)
	})
	mux.HandleFunc("/item/900.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 900, "type": "story", "title": "Ask HN: Who wants to be hired? (June 2026)", "time": %d}`, now)
	})
	mux.HandleFunc("/item/1000.json", func(w http.ResponseWriter, r *http.Request) {
		kids := ""
		for id := range comments {
			if kids != "" {
				kids += ", "
			}
			kids += fmt.Sprint(id)
		}
		fmt.Fprintf(w, `{"id": 1000, "type": "story", "title": "Ask HN: Who is hiring? (June 2026)", "kids": [%s], "time": %d}`, kids, now)
	})
	for id, text := range comments {
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"id": %d, "type": "comment", "text": %q, "time": %d}`, id, text, now)
		})
	}

	return httptest.NewServer(mux)
}

func newHNForTest(srv *httptest.Server, maxJobs int) *HNAdapter {
	cfg := config.HNConfig{MaxJobs: maxJobs}
	a := NewHNAdapter(cfg, testClient(srv), testLogger())
	a.baseURL = srv.URL
	return a
}

func TestHNFetch_PipeFormat(t *testing.T) {
	srv := hnTestServer(t, map[int64]string{
		2001: "Acme | Senior Go Engineer | Remote (US)<p>We run payment rails. Email jobs@acme.example",
	})
	defer srv.Close()

	jobs, err := newHNForTest(srv, 10).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ExternalID != "hn-2001" {
		t.Errorf("external ID = %q", j.ExternalID)
	}
	if j.Company != "Acme" {
		t.Errorf("company = %q", j.Company)
	}
	if j.Title != "Senior Go Engineer" {
		t.Errorf("title = %q", j.Title)
	}
	if j.ApplyURL != "https://news.ycombinator.com/item?id=2001" {
		t.Errorf("apply URL = %q", j.ApplyURL)
	}
}

func TestHNFetch_ColonFormat(t *testing.T) {
	srv := hnTestServer(t, map[int64]string{
		2002: "Globex: Platform Engineer<p>Hybrid in Berlin, visa support available.",
	})
	defer srv.Close()

	jobs, err := newHNForTest(srv, 10).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Company != "Globex" || jobs[0].Title != "Platform Engineer" {
		t.Errorf("parsed company %q, title %q", jobs[0].Company, jobs[0].Title)
	}
}

func TestHNFetch_FallbackFormat(t *testing.T) {
	srv := hnTestServer(t, map[int64]string{
		2003: "Initech is hiring backend engineers for our Austin office<p>Apply at initech.example/careers",
	})
	defer srv.Close()

	jobs, err := newHNForTest(srv, 10).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Company != "Initech is hiring" {
		t.Errorf("fallback company = %q", jobs[0].Company)
	}
	if jobs[0].Title != "Initech is hiring backend engineers for our Austin office" {
		t.Errorf("fallback title = %q", jobs[0].Title)
	}
}

func TestHNFetch_SkipsDeadAndDeleted(t *testing.T) {
	now := time.Now().Unix()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/whoishiring.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"submitted": [1000]}`)
	})
	mux.HandleFunc("/item/1000.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 1000, "title": "Ask HN: Who is hiring? (June 2026)", "kids": [1, 2, 3], "time": %d}`, now)
	})
	mux.HandleFunc("/item/1.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 1, "dead": true, "text": "Acme | Engineer", "time": %d}`, now)
	})
	mux.HandleFunc("/item/2.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 2, "deleted": true, "time": %d}`, now)
	})
	mux.HandleFunc("/item/3.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 3, "text": "Globex | Engineer | Remote", "time": %d}`, now)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	jobs, err := newHNForTest(srv, 10).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ExternalID != "hn-3" {
		t.Fatalf("expected only the live comment, got %d jobs", len(jobs))
	}
}

func TestHNFetch_NoHiringThread(t *testing.T) {
	now := time.Now().Unix()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/whoishiring.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"submitted": [900]}`)
	})
	mux.HandleFunc("/item/900.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 900, "title": "Ask HN: Who wants to be hired? (June 2026)", "time": %d}`, now)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	jobs, err := newHNForTest(srv, 10).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs != nil {
		t.Fatalf("expected no jobs without a hiring thread, got %d", len(jobs))
	}
}

func TestParseHiringLine(t *testing.T) {
	cases := []struct {
		in      string
		company string
		title   string
	}{
		{"Acme | Engineer | Remote", "Acme", "Engineer"},
		{"Acme: Engineer", "Acme", "Engineer"},
		{"Acme", "Acme", "Acme"},
		{"", "", ""},
	}
	for _, c := range cases {
		company, title := parseHiringLine(c.in)
		if company != c.company || title != c.title {
			t.Errorf("parseHiringLine(%q) = (%q, %q), want (%q, %q)",
				c.in, company, title, c.company, c.title)
		}
	}
}
