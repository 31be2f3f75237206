package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/fpl-coach-service/internal/analysis"
	"github.com/preston-bernstein/fpl-coach-service/internal/app/squads"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
)

type analyzeRequest struct {
	Squad []players.Player `json:"squad"`
}

type addPlayerRequest struct {
	PlayerID int `json:"player_id"`
}

type replaceSquadRequest struct {
	PlayerIDs []int `json:"player_ids"`
}

// RandomSquad returns 15 players forming a legal squad.
func (h *Handler) RandomSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	sq, err := h.generator.RandomSquad(r.Context())
	if err != nil {
		h.writeGenerationError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, sq, logger)
}

// AISquad returns the optimised squad laid out as a lineup.
func (h *Handler) AISquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	out, err := h.generator.AISquad(r.Context())
	if err != nil {
		h.writeGenerationError(w, r, err, logger)
		return
	}
	logging.Info(logger, "ai squad generated",
		slog.String("formation", out.Formation),
		slog.Float64("total_ai_score", out.TotalAIScore),
	)
	writeJSON(w, http.StatusOK, out, logger)
}

// AnalyzeSquad suggests captaincy, transfers and chips for a submitted squad.
func (h *Handler) AnalyzeSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}

	report, err := h.generator.Analyze(r.Context(), req.Squad)
	if err != nil {
		if rejection, ok := squad.AsRejection(err); ok {
			writeRejection(w, r, rejection, logger)
			return
		}
		switch {
		case errors.Is(err, analysis.ErrEmptySquad):
			writeError(w, r, http.StatusBadRequest, "squad is empty", logger)
		case errors.Is(err, analysis.ErrIncompleteSquad):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error(), logger)
		case errors.Is(err, squads.ErrPlayerNotFound):
			writeError(w, r, http.StatusNotFound, err.Error(), logger)
		default:
			logging.Error(logger, "squad analysis failed", err)
			writeError(w, r, http.StatusInternalServerError, "failed to analyze squad", logger)
		}
		return
	}
	writeJSON(w, http.StatusOK, report, logger)
}

// CreateSquad opens an empty drafting squad.
func (h *Handler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	session := h.sessions.Create()
	logging.Info(logger, "squad created", logging.SquadAttrs(session.ID, 0)...)
	writeJSON(w, http.StatusCreated, session, logger)
}

// GetSquad returns a drafting squad with its metrics.
func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	session, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, session, logger)
}

// ReplaceSquad swaps the whole squad for the given player ids.
func (h *Handler) ReplaceSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req replaceSquadRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}

	replacement := make(squad.Squad, 0, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		p, ok := h.players.PlayerByID(id)
		if !ok {
			writeError(w, r, http.StatusNotFound, "player not found", logger)
			return
		}
		replacement = append(replacement, p)
	}

	session, err := h.sessions.Replace(r.PathValue("id"), replacement)
	if err != nil {
		h.writeSessionError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, session, logger)
}

// DeleteSquad discards a drafting squad.
func (h *Handler) DeleteSquad(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		h.writeSessionError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSquadPlayer runs the squad engine for one candidate. A rejection
// answers 422 and leaves the squad unchanged.
func (h *Handler) AddSquadPlayer(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req addPlayerRequest
	if err := decodeBody(w, r, &req); err != nil || req.PlayerID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return
	}

	id := r.PathValue("id")
	session, err := h.sessions.Add(id, req.PlayerID)
	if err != nil {
		if rejection, ok := squad.AsRejection(err); ok {
			attrs := append(logging.SquadAttrs(id, req.PlayerID), slog.String(logging.FieldRejection, string(rejection.Kind)))
			logging.Info(logger, "squad add rejected", attrs...)
		}
		h.writeSessionError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, session, logger)
}

// RemoveSquadPlayer drops a player; removing an absent player is a no-op.
func (h *Handler) RemoveSquadPlayer(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	playerID, err := pathInt(r, "playerId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid player id", logger)
		return
	}
	session, err := h.sessions.Remove(r.PathValue("id"), playerID)
	if err != nil {
		h.writeSessionError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, session, logger)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if rejection, ok := squad.AsRejection(err); ok {
		writeRejection(w, r, rejection, logger)
		return
	}
	switch {
	case errors.Is(err, squads.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "squad not found", logger)
	case errors.Is(err, squads.ErrPlayerNotFound):
		writeError(w, r, http.StatusNotFound, "player not found", logger)
	default:
		logging.Error(logger, "squad update failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to update squad", logger)
	}
}

func (h *Handler) writeGenerationError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, squads.ErrRosterEmpty):
		writeError(w, r, http.StatusServiceUnavailable, "roster not loaded", logger)
	case errors.Is(err, optimizer.ErrNoValidSquad):
		writeError(w, r, http.StatusServiceUnavailable, "could not generate a valid squad", logger)
	default:
		logging.Error(logger, "squad generation failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to generate squad", logger)
	}
}
