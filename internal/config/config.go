package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port         string        `envconfig:"PORT" default:"4000"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30m"`
	Provider     string        `envconfig:"PROVIDER" default:"fixture"`
	Log          LogConfig
	FPL          FPLConfig
	SportMonks   SportMonksConfig
	Metrics      MetricsConfig
	Snapshots    SnapshotConfig
	Optimizer    OptimizerConfig
	Sessions     SessionConfig
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	cfg.Snapshots = cfg.Snapshots.normalized()
	cfg.Optimizer = cfg.Optimizer.normalized()
	cfg.Sessions = cfg.Sessions.normalized()
	return cfg, nil
}
