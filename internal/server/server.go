package server

import (
	"context"
	"log/slog"
	"net/http"

	appplayers "github.com/preston-bernstein/fpl-coach-service/internal/app/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/app/squads"
	appteams "github.com/preston-bernstein/fpl-coach-service/internal/app/teams"
	"github.com/preston-bernstein/fpl-coach-service/internal/config"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	httpserver "github.com/preston-bernstein/fpl-coach-service/internal/http"
	"github.com/preston-bernstein/fpl-coach-service/internal/http/handlers"
	"github.com/preston-bernstein/fpl-coach-service/internal/http/middleware"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
	"github.com/preston-bernstein/fpl-coach-service/internal/poller"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/scheduler"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns the roster poller, the daily scheduler and the HTTP listeners.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	services      handlers.Services
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	scheduler     dailyJob
	newScheduler  func() dailyJob
	metricsStop   func(context.Context) error
}

// New constructs a server with default provider and poller wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.RosterProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.RosterProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	set := factory.build(cfg)
	if provider != nil {
		set.roster = providers.NewRetryingProvider(provider, logger, recorder, normalizeProviderName(cfg.Provider, provider), 0, 0)
	}

	memoryStore := store.NewMemoryStore()
	snaps := buildSnapshots(cfg)
	plr := poller.New(set.roster, memoryStore, snaps.writer, logger, recorder, cfg.PollInterval).
		WithSnapshotFallback(snaps.store)
	services := buildServices(cfg, memoryStore, set.detail, recorder)
	httpSrv := buildHTTPServer(cfg, services, snaps, plr, logger, recorder)
	newScheduler := func() dailyJob {
		return buildScheduler(cfg, plr, snaps.writer, services.Sessions, logger)
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		services:      services,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		newScheduler:  newScheduler,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller, job dailyJob) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
		scheduler:  job,
	}
}

func buildServices(cfg config.Config, memoryStore *store.MemoryStore, details providers.DetailProvider, recorder *metrics.Recorder) handlers.Services {
	rules := squad.DefaultRules()
	genetic := optimizer.GeneticConfig{
		Population:   cfg.Optimizer.Population,
		Generations:  cfg.Optimizer.Generations,
		MutationRate: cfg.Optimizer.MutationRate,
		Elitism:      cfg.Optimizer.Elitism,
	}
	sessions := squads.NewSessions(memoryStore, store.NewSessionStore(), rules, recorder).
		WithLimits(cfg.Sessions.IdleTTL, cfg.Sessions.MaxSessions)
	return handlers.Services{
		Players:   appplayers.NewService(memoryStore),
		Teams:     appteams.NewService(memoryStore),
		Sessions:  sessions,
		Generator: squads.NewGenerator(memoryStore, details, rules, genetic, recorder),
	}
}

func buildScheduler(cfg config.Config, plr Poller, pruner scheduler.Pruner, sweeper scheduler.Sweeper, logger *slog.Logger) dailyJob {
	sched, err := scheduler.New(plr, pruner, cfg.Snapshots.DailyHourUTC, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("daily scheduler disabled", "err", err)
		}
		return nil
	}
	return sched.WithSweeper(sweeper)
}

func buildHTTPServer(cfg config.Config, services handlers.Services, snaps snapshotComponents, plr Poller, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	var (
		statusFn  func() poller.Status
		refresher handlers.Refresher
	)
	if plr != nil {
		statusFn = plr.Status
		refresher = plr
	}

	handler := handlers.NewHandler(services, snaps.store, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.Snapshots.AdminToken != "" {
		admin = handlers.NewAdminHandler(refresher, snaps.writer, statusFn, cfg.Snapshots.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller, scheduler and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)
	s.startScheduler()

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// startScheduler builds the gocron scheduler on first run so constructing a
// Server never spawns goroutines.
func (s *Server) startScheduler() {
	if s.scheduler == nil && s.newScheduler != nil {
		s.scheduler = s.newScheduler()
	}
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Start(); err != nil {
		if s.logger != nil {
			s.logger.Warn("scheduler start failed", "error", err)
		}
		s.scheduler = nil
	}
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.scheduler != nil {
		if err := s.scheduler.Stop(); err != nil && s.logger != nil {
			s.logger.Warn("scheduler shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
