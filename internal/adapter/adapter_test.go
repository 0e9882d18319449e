package adapter

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/hiredeck/ingest/internal/stealth"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// testClient returns a governor with zero pacing whose requests are rewritten
// to hit srv regardless of the adapter's production base URL.
func testClient(srv *httptest.Server) *stealth.Client {
	httpClient := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
	return stealth.New(httpClient, 0, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
