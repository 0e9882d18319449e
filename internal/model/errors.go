package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrOrgExists is returned by the store when an organization insert hits the
// unique name constraint. The matcher recovers by re-querying for the winner.
var ErrOrgExists = errors.New("organization already exists")

// ErrJobExists is returned by the store when a job insert hits the unique
// external-ID constraint. Treated as a duplicate skip, never a failure.
var ErrJobExists = errors.New("job already exists")

// HTTPError wraps an HTTP status code so callers can classify failures:
// 429 means the source rate-limited us, 5xx is a transient transport error.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is an HTTP 429 response.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 429
}
