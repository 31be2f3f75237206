package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/fpl-coach-service/internal/config"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
	"github.com/preston-bernstein/fpl-coach-service/internal/server"
)

const serviceName = "fpl-coach-service"

// rosterSource is swapped in tests.
var rosterSource = server.NewRosterProvider

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fplcoach",
		Short:         "Fantasy Premier League squad builder",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newCheckCmd(), newRandomCmd())
	return root
}

// loadEnv reads .env when present, then the environment.
func loadEnv() (config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
		Version: appVersion,
	})
	return cfg, logger, nil
}

// fetchRoster loads and scores the configured provider's roster once.
func fetchRoster(ctx context.Context, cfg config.Config, logger *slog.Logger) (roster.Roster, error) {
	r, err := rosterSource(cfg, logger).FetchRoster(ctx)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("fetch roster: %w", err)
	}
	r.Players = scoring.Apply(r.Players)
	return r, nil
}
