package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrProviderUnavailable is returned when no upstream is configured or reachable.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNotFound is returned when the upstream has no record for the request.
	ErrNotFound = errors.New("not found upstream")
)

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps 404 to ErrNotFound so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// ParseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// CheckResponse converts rate limit and error statuses into typed errors.
// body is a short excerpt of the response used for messages.
func CheckResponse(provider string, resp *http.Response, body string, now time.Time) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After"), now),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    provider + " rate limited",
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: strings.TrimSpace(body)}
	default:
		return nil
	}
}
