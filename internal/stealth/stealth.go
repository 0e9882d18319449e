package stealth

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/hiredeck/ingest/internal/model"
)

// userAgents is the fixed rotation pool. Order matters: selection is
// round-robin, so consecutive requests never reuse an identity.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Edg/125.0.0.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.8,fr;q=0.5",
}

var referrers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
	"https://www.linkedin.com/",
}

// referrerChance is the probability of attaching a Referer header.
const referrerChance = 0.15

// fatigueCap bounds the slow-growth delay multiplier; after ~250 requests the
// governor paces at 1.5x the caller's base delay.
const fatigueCap = 0.5

// session holds the process-lifetime counters the governor mutates on every
// call. Confined to one Client; guarded by the Client mutex.
type session struct {
	requests    int
	uaIndex     int
	lastRequest time.Time
}

// Client issues outbound HTTP calls with rotating identity headers, paced
// delays and rate-limit classification. Safe for concurrent use: all session
// state is mutex-guarded.
type Client struct {
	httpClient *http.Client
	minGap     time.Duration // hard minimum spacing between any two requests
	logger     *slog.Logger

	mu      sync.Mutex
	session session
}

// New creates a governor around httpClient. minGap is the process-wide
// minimum spacing between consecutive requests regardless of base delay.
func New(httpClient *http.Client, minGap time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		minGap:     minGap,
		logger:     logger,
	}
}

// Requests returns the cumulative request count for this session.
func (c *Client) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.requests
}

// Do paces, disguises and issues req. baseDelay is the caller's desired
// spacing for its source; the actual sleep is baseDelay scaled by the fatigue
// factor and a uniform random factor in [0.5, 1.0], with the process-wide
// minimum gap enforced on top.
//
// A 429 response is returned as *model.HTTPError with RetryAfter populated;
// 5xx responses are returned as *model.HTTPError as well. Any other status is
// handed back to the caller untouched.
func (c *Client) Do(ctx context.Context, req *http.Request, baseDelay time.Duration) (*http.Response, error) {
	wait, ua, lang := c.nextSlot(baseDelay)

	if wait > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("governor wait: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json, text/html, application/xhtml+xml, application/xml;q=0.9, */*;q=0.8")
	req.Header.Set("Accept-Language", lang)
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if rand.Float64() < referrerChance {
		req.Header.Set("Referer", referrers[rand.IntN(len(referrers))])
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("governor request %s: %w", req.URL.Host, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		resp.Body.Close()
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter,
			Err:        fmt.Errorf("rate limited by %s", req.URL.Host),
		}
	case resp.StatusCode >= 500:
		resp.Body.Close()
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server error from %s", req.URL.Host),
		}
	}

	return resp, nil
}

// nextSlot advances the session under the lock and computes how long the
// caller must sleep before issuing its request.
func (c *Client) nextSlot(baseDelay time.Duration) (wait time.Duration, ua, lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.session
	fatigue := 1.0 + min(float64(s.requests)/250.0, fatigueCap)
	wait = time.Duration(float64(baseDelay) * fatigue * (0.5 + rand.Float64()*0.5))

	// The hard gap is measured from the previous request, process-wide.
	if !s.lastRequest.IsZero() {
		if gap := c.minGap - time.Since(s.lastRequest); gap > wait {
			wait = gap
		}
	} else {
		wait = 0 // first request goes out immediately
	}

	ua = userAgents[s.uaIndex%len(userAgents)]
	lang = acceptLanguages[s.uaIndex%len(acceptLanguages)]
	s.uaIndex++
	s.requests++
	s.lastRequest = time.Now().Add(wait)

	return wait, ua, lang
}

// RateLimitSleep blocks for a long randomized backoff (20-45s) after a 429.
// Callers that prefer to abort the source for the run simply don't call it.
func (c *Client) RateLimitSleep(ctx context.Context) error {
	d := 20*time.Second + time.Duration(rand.Float64()*25*float64(time.Second))
	c.logger.Warn("rate limited, backing off", "sleep", d.Round(time.Second).String())
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate-limit backoff: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(value, "%d", &seconds); err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
