package server

import (
	"log/slog"

	"github.com/preston-bernstein/fpl-coach-service/internal/config"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers/fixture"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers/fpl"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers/sportmonks"
)

// providerSet pairs the roster source with the player detail source.
type providerSet struct {
	roster     providers.RosterProvider
	detail     providers.DetailProvider
	detailName string
}

func selectProvider(cfg config.Config, logger *slog.Logger) providerSet {
	switch cfg.Provider {
	case "fixture", "":
		return fixtureProviders()
	case fpl.ProviderName:
		client := fpl.NewClient(fpl.Config{BaseURL: cfg.FPL.BaseURL})
		set := providerSet{roster: client, detail: client, detailName: fpl.ProviderName}
		if cfg.SportMonks.Enabled() {
			set.detail = sportmonks.NewClient(sportmonks.Config{
				BaseURL:  cfg.SportMonks.BaseURL,
				APIKey:   cfg.SportMonks.APIKey,
				LeagueID: cfg.SportMonks.LeagueID,
				Form:     client,
			})
			set.detailName = sportmonks.ProviderName
		}
		return set
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixtureProviders()
	}
}

func fixtureProviders() providerSet {
	p := fixture.New()
	return providerSet{roster: p, detail: p, detailName: "fixture"}
}

// NewRosterProvider returns the configured roster source without the rate
// limit and retry wrappers, for one-shot CLI use.
func NewRosterProvider(cfg config.Config, logger *slog.Logger) providers.RosterProvider {
	return selectProvider(cfg, logger).roster
}
