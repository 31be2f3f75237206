package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/fpl-coach-service/internal/http/requestutil"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/poller"
)

// Refresher forces a roster fetch outside the poll schedule.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Pruner drops snapshots that fell out of retention.
type Pruner interface {
	Prune() ([]string, error)
}

// AdminHandler exposes admin-only endpoints (roster refresh, snapshot pruning).
type AdminHandler struct {
	refresher Refresher
	pruner    Pruner
	statusFn  func() poller.Status
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. pruner and statusFn may be nil.
func NewAdminHandler(refresher Refresher, pruner Pruner, statusFn func() poller.Status, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		pruner:    pruner,
		statusFn:  statusFn,
		token:     token,
		logger:    logger,
	}
}

// RefreshRoster fetches, scores and stores the roster now, writing a snapshot.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "roster refresh not configured", logger)
		return
	}

	if err := h.refresher.Refresh(r.Context()); err != nil {
		logging.Warn(logger, "admin roster refresh failed", slog.Any("err", err))
		writeError(w, r, http.StatusBadGateway, "failed to refresh roster", logger)
		return
	}

	body := map[string]any{"status": "ok"}
	if h.statusFn != nil {
		status := h.statusFn()
		body["gameweek"] = status.Gameweek
		body["players"] = status.PlayerCount
		body["snapshot"] = status.SnapshotDate
	}
	writeJSON(w, http.StatusOK, body, logger)
	logging.Info(logger, "admin roster refreshed", slog.Any("result", body))
}

// PruneSnapshots removes snapshots older than the retention window.
func (h *AdminHandler) PruneSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.pruner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshot writer not configured", logger)
		return
	}

	pruned, err := h.pruner.Prune()
	if err != nil {
		logging.Warn(logger, "admin snapshot prune failed", slog.Any("err", err))
		writeError(w, r, http.StatusInternalServerError, "failed to prune snapshots", logger)
		return
	}
	if pruned == nil {
		pruned = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pruned": pruned}, logger)
	logging.Info(logger, "admin snapshots pruned", slog.Int(logging.FieldCount, len(pruned)))
}

func (h *AdminHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.authorize(r) {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String("path", r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
	return false
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got, ok := requestutil.BearerToken(r)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
