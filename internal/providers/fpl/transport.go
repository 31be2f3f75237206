package fpl

import (
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://fantasy.premierleague.com/api"
	defaultHTTPTimeout = 10 * time.Second
	maxUpcoming        = 5
	recentGameweeks    = 5
	errorBodyLimit     = 512
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}
