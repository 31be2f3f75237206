package config

import "time"

const (
	// Bootstrap data changes a few times per gameweek; half an hour keeps prices fresh
	// without hammering the public FPL endpoints.
	defaultPollInterval = 30 * time.Minute

	defaultRetentionDays = 14
	defaultDailyHourUTC  = 2

	defaultPopulation   = 200
	defaultGenerations  = 100
	defaultMutationRate = 0.2
	defaultElitism      = 0.1

	defaultSessionIdleTTL = 24 * time.Hour
	defaultMaxSessions    = 10000
)
