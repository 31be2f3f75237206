package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/fpl-coach-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. Admin routes are mounted
// only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)

	mux.HandleFunc("GET /api/bootstrap", handler.Bootstrap)
	mux.HandleFunc("GET /api/players", handler.Players)
	mux.HandleFunc("GET /api/player/{id}", handler.PlayerDetail)
	mux.HandleFunc("GET /api/random-squad", handler.RandomSquad)
	mux.HandleFunc("GET /api/ai-squad", handler.AISquad)
	mux.HandleFunc("POST /api/analyze-squad", handler.AnalyzeSquad)

	mux.HandleFunc("POST /api/squads", handler.CreateSquad)
	mux.HandleFunc("GET /api/squads/{id}", handler.GetSquad)
	mux.HandleFunc("PUT /api/squads/{id}", handler.ReplaceSquad)
	mux.HandleFunc("DELETE /api/squads/{id}", handler.DeleteSquad)
	mux.HandleFunc("POST /api/squads/{id}/players", handler.AddSquadPlayer)
	mux.HandleFunc("DELETE /api/squads/{id}/players/{playerId}", handler.RemoveSquadPlayer)

	if admin != nil {
		mux.HandleFunc("POST /admin/roster/refresh", admin.RefreshRoster)
		mux.HandleFunc("POST /admin/snapshots/prune", admin.PruneSnapshots)
	}
	return mux
}
