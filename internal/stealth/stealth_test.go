package stealth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hiredeck/ingest/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	return req
}

func TestDo_RotatesIdentity(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		if r.Header.Get("Accept-Language") == "" {
			t.Error("missing Accept-Language header")
		}
	}))
	defer srv.Close()

	c := New(srv.Client(), 0, testLogger())
	for i := 0; i < 3; i++ {
		resp, err := c.Do(context.Background(), get(t, srv.URL), 0)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
	}

	if len(agents) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(agents))
	}
	if agents[0] == agents[1] || agents[1] == agents[2] {
		t.Errorf("consecutive requests reused a user agent: %v", agents)
	}
	if c.Requests() != 3 {
		t.Errorf("session counted %d requests, want 3", c.Requests())
	}
}

func TestDo_EnforcesMinGap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	const gap = 50 * time.Millisecond
	c := New(srv.Client(), gap, testLogger())

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := c.Do(context.Background(), get(t, srv.URL), 0)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	// First request is immediate; the next two each wait out the gap.
	if elapsed < 2*gap {
		t.Errorf("3 requests took %v, want at least %v", elapsed, 2*gap)
	}
}

func TestDo_RateLimitResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.Client(), 0, testLogger())
	_, err := c.Do(context.Background(), get(t, srv.URL), 0)
	if err == nil {
		t.Fatal("expected error on 429")
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 120*time.Second {
		t.Errorf("retry after = %v", httpErr.RetryAfter)
	}
	if !model.IsRateLimited(err) {
		t.Error("IsRateLimited returned false for a 429")
	}
}

func TestDo_ServerErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.Client(), 0, testLogger())
	_, err := c.Do(context.Background(), get(t, srv.URL), 0)

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
}

func TestDo_ClientErrorPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.Client(), 0, testLogger())
	resp, err := c.Do(context.Background(), get(t, srv.URL), 0)
	if err != nil {
		t.Fatalf("4xx should be returned to the caller, got error %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(srv.Client(), time.Minute, testLogger())

	// Prime the session so the second call must wait out the gap.
	resp, err := c.Do(context.Background(), get(t, srv.URL), 0)
	if err != nil {
		t.Fatalf("priming request: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Do(ctx, get(t, srv.URL), 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestRateLimitSleep_ContextCanceled(t *testing.T) {
	c := New(http.DefaultClient, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.RateLimitSleep(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"30", 30 * time.Second},
		{"not-a-number", 0},
	}
	for _, c := range cases {
		if got := parseRetryAfter(c.in); got != c.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
