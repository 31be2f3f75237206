package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/http/middleware"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, errorBody(r, message), logger)
}

// writeRejection reports a squad rule violation with its kind so clients can
// branch on it without parsing the message.
func writeRejection(w http.ResponseWriter, r *http.Request, rejection *squad.Rejection, logger *slog.Logger) {
	body := errorBody(r, rejection.Error())
	body["kind"] = string(rejection.Kind)
	writeJSON(w, http.StatusUnprocessableEntity, body, logger)
}

func errorBody(r *http.Request, message string) map[string]string {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	return body
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
