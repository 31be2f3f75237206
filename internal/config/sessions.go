package config

import "time"

// SessionConfig bounds the in-memory drafting squads behind /api/squads.
type SessionConfig struct {
	IdleTTL     time.Duration `envconfig:"SESSION_IDLE_TTL" default:"24h"`
	MaxSessions int           `envconfig:"SESSION_MAX" default:"10000"`
}

func (c SessionConfig) normalized() SessionConfig {
	if c.IdleTTL <= 0 {
		c.IdleTTL = defaultSessionIdleTTL
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = defaultMaxSessions
	}
	return c
}
