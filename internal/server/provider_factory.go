package server

import (
	"log/slog"

	"github.com/preston-bernstein/fpl-coach-service/internal/config"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
)

// providerFactory assembles the providers with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providerSet {
	base := selectProvider(cfg, f.logger)
	return providerSet{
		roster:     f.wrapRoster(cfg, base.roster),
		detail:     f.wrapDetail(base.detail, base.detailName),
		detailName: base.detailName,
	}
}

func (f providerFactory) wrapRoster(cfg config.Config, base providers.RosterProvider) providers.RosterProvider {
	limited := providers.NewRateLimitedProvider(base, rosterMinInterval, f.logger)
	return providers.NewRetryingProvider(limited, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base), 0, 0)
}

func (f providerFactory) wrapDetail(base providers.DetailProvider, name string) providers.DetailProvider {
	limited := providers.NewRateLimitedDetailProvider(base, detailMinInterval, f.logger)
	return providers.NewRetryingDetailProvider(limited, f.logger, f.metrics, normalizeProviderName(name, base), 0, 0)
}
