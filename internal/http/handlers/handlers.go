package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	appplayers "github.com/preston-bernstein/fpl-coach-service/internal/app/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/app/squads"
	appteams "github.com/preston-bernstein/fpl-coach-service/internal/app/teams"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/poller"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/snapshots"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
	"github.com/preston-bernstein/fpl-coach-service/internal/timeutil"
)

// Services groups the application services the handlers call into.
type Services struct {
	Players   *appplayers.Service
	Teams     *appteams.Service
	Sessions  *squads.Sessions
	Generator *squads.Generator
}

// Handler wires HTTP routes to the application services.
type Handler struct {
	players   *appplayers.Service
	teams     *appteams.Service
	sessions  *squads.Sessions
	generator *squads.Generator
	snaps     snapshots.Store
	logger    *slog.Logger
	statusFn  func() poller.Status
}

// NewHandler constructs a Handler. snaps and statusFn may be nil.
func NewHandler(svc Services, snaps snapshots.Store, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		players:   svc.Players,
		teams:     svc.Teams,
		sessions:  svc.Sessions,
		generator: svc.Generator,
		snaps:     snaps,
		logger:    logger,
		statusFn:  statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ready",
			"gameweek": status.Gameweek,
			"players":  status.PlayerCount,
		}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Bootstrap returns teams, positions and the current gameweek.
func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.teams.Bootstrap(), h.logger)
}

// Players returns the filtered, sorted player pool. With ?date= it serves
// that day's roster snapshot; with an empty store it falls back to the
// latest snapshot on disk.
func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	query := appplayers.Query{
		Team:     q.Get("team"),
		Position: q.Get("position"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}

	svc := h.players
	source := "cache"
	if date := strings.TrimSpace(q.Get("date")); date != "" {
		if _, err := timeutil.ParseDate(date); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", logger)
			return
		}
		snap, err := h.loadSnapshot(date)
		if err != nil {
			logging.Warn(logger, "snapshot load failed", slog.String(logging.FieldDate, date), slog.Any("err", err))
			writeError(w, r, http.StatusNotFound, "snapshot unavailable", logger)
			return
		}
		svc, source = snapshotService(snap), "snapshot"
	} else if len(svc.Players()) == 0 && h.snaps != nil {
		if snap, date, err := h.snaps.LatestRoster(); err == nil {
			svc, source = snapshotService(snap), "snapshot"
			logging.Info(logger, "serving latest snapshot", slog.String(logging.FieldDate, date))
		}
	}

	items, err := svc.Query(query)
	if err != nil {
		if errors.Is(err, appplayers.ErrInvalidSort) {
			writeError(w, r, http.StatusBadRequest, "invalid sort (expected one of "+strings.Join(appplayers.SortKeys(), ", ")+")", logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to list players", logger)
		return
	}
	logging.Info(logger, "served players",
		slog.String(logging.FieldProvider, source),
		slog.Int(logging.FieldCount, len(items)),
	)
	writeJSON(w, http.StatusOK, items, logger)
}

// PlayerDetail returns bio, season statistics and recent form for one player.
func (h *Handler) PlayerDetail(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid player id", logger)
		return
	}

	detail, err := h.generator.PlayerDetail(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, players.DetailResponse{Data: detail}, logger)
	case errors.Is(err, squads.ErrPlayerNotFound):
		writeError(w, r, http.StatusNotFound, "player not found", logger)
	case errors.Is(err, providers.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "player detail not found", logger)
	default:
		logging.Warn(logger, "player detail fetch failed", slog.Int(logging.FieldPlayerID, id), slog.Any("err", err))
		writeError(w, r, http.StatusBadGateway, "failed to fetch player detail", logger)
	}
}

func (h *Handler) loadSnapshot(date string) (roster.Roster, error) {
	if h.snaps == nil {
		return roster.Roster{}, errors.New("snapshot store not configured")
	}
	return h.snaps.LoadRoster(date)
}

func snapshotService(r roster.Roster) *appplayers.Service {
	svc := appplayers.NewService(store.NewMemoryStore())
	svc.ReplaceRoster(r)
	return svc
}
