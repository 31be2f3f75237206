package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second

	// Upstream pacing: the roster endpoints are public and unauthenticated,
	// detail lookups fan out per request.
	rosterMinInterval = time.Minute
	detailMinInterval = 200 * time.Millisecond
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
