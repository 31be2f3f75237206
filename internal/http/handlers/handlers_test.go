package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appplayers "github.com/preston-bernstein/fpl-coach-service/internal/app/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/app/squads"
	appteams "github.com/preston-bernstein/fpl-coach-service/internal/app/teams"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/http/middleware"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
	"github.com/preston-bernstein/fpl-coach-service/internal/poller"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/snapshots"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
	"github.com/preston-bernstein/fpl-coach-service/internal/teststubs"
	"github.com/preston-bernstein/fpl-coach-service/internal/testutil"
)

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"requestId"`
}

func newTestHandler(t *testing.T, ms *store.MemoryStore, details providers.DetailProvider, snaps snapshots.Store) *Handler {
	t.Helper()
	rules := squad.DefaultRules()
	cfg := optimizer.GeneticConfig{Population: 20, Generations: 5, MutationRate: 0.2, Elitism: 0.1}
	seeded := func() *rand.Rand { return rand.New(rand.NewPCG(3, 5)) }
	svc := Services{
		Players:   appplayers.NewService(ms),
		Teams:     appteams.NewService(ms),
		Sessions:  squads.NewSessions(ms, store.NewSessionStore(), rules, nil),
		Generator: squads.NewGenerator(ms, details, rules, cfg, nil, squads.WithRandSource(seeded)),
	}
	return NewHandler(svc, snaps, nil, nil)
}

func fixtureHandler(t *testing.T) *Handler {
	t.Helper()
	return newTestHandler(t, testutil.NewFixtureStore(), nil, nil)
}

// route mounts fn on a pattern so path values resolve as in production.
func route(pattern string, fn http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, fn)
	return mux
}

func TestHealth(t *testing.T) {
	h := fixtureHandler(t)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := fixtureHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "shutting down" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestReady(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyWithStatus(t *testing.T) {
	h := fixtureHandler(t)
	h.statusFn = func() poller.Status {
		return poller.Status{LastSuccess: time.Now(), Gameweek: 4, PlayerCount: 300}
	}

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["gameweek"] != float64(4) || resp["players"] != float64(300) {
		t.Fatalf("unexpected ready body %+v", resp)
	}
}

func TestReadyNotReady(t *testing.T) {
	h := fixtureHandler(t)
	h.statusFn = func() poller.Status { return poller.Status{LastError: "upstream down"} }

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "upstream down" {
		t.Fatalf("expected last error surfaced, got %q", resp.Error)
	}
}

func TestBootstrap(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Bootstrap), http.MethodGet, "/api/bootstrap", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp appteams.Bootstrap
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Teams) != 20 || len(resp.Positions) != 4 || resp.Gameweek != 1 {
		t.Fatalf("unexpected bootstrap %+v", resp)
	}
}

func TestPlayersReturnsFullPool(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []players.Player
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 300 {
		t.Fatalf("expected 300 players, got %d", len(resp))
	}
}

func TestPlayersFiltersAndSorts(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?team=ARS&position=mid&sort=now_cost", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []players.Player
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 5 {
		t.Fatalf("expected 5 Arsenal midfielders, got %d", len(resp))
	}
	for i, p := range resp {
		if p.TeamShortName != "ARS" || p.PositionName != players.PositionMidfielder {
			t.Fatalf("unexpected player %+v", p)
		}
		if i > 0 && resp[i-1].NowCost < p.NowCost {
			t.Fatalf("expected descending now_cost at %d", i)
		}
	}
}

func TestPlayersInvalidSortReturnsBadRequest(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?sort=height", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if !strings.Contains(resp.Error, "ai_score") {
		t.Fatalf("expected accepted keys in message, got %q", resp.Error)
	}
}

func TestPlayersWithDateServesSnapshot(t *testing.T) {
	snaps := &teststubs.StubSnapshotStore{Rosters: map[string]roster.Roster{
		"2024-08-01": {Gameweek: 1, Players: testutil.SampleRoster()},
	}}
	h := newTestHandler(t, testutil.NewFixtureStore(), nil, snaps)

	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?date=2024-08-01", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp []players.Player
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 4 {
		t.Fatalf("expected snapshot players, got %d", len(resp))
	}

	rr = testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?date=2024-08-02", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?date=yesterday", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestPlayersFallsBackToLatestSnapshotWhenEmpty(t *testing.T) {
	snaps := &teststubs.StubSnapshotStore{
		Rosters: map[string]roster.Roster{"2024-08-01": {Gameweek: 1, Players: testutil.SampleRoster()}},
		Latest:  "2024-08-01",
	}
	h := newTestHandler(t, store.NewMemoryStore(), nil, snaps)

	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players?position=FWD", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp []players.Player
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 1 || resp[0].ID != 4 {
		t.Fatalf("expected filtered snapshot forward, got %+v", resp)
	}
}

func TestPlayersEmptyStoreWithoutSnapshotsReturnsEmptyList(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore(), nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Players), http.MethodGet, "/api/players", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestPlayerDetail(t *testing.T) {
	stub := &teststubs.StubDetailProvider{Detail: players.Detail{ID: 99, DisplayName: "Saka", Name: "Bukayo Saka"}}
	h := newTestHandler(t, testutil.NewFixtureStore(), stub, nil)
	handler := route("GET /api/player/{id}", h.PlayerDetail)

	rr := testutil.Serve(handler, http.MethodGet, "/api/player/3", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp players.DetailResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Data.DisplayName != "Saka" {
		t.Fatalf("unexpected detail %+v", resp.Data)
	}
	if stub.Last.ID != 3 {
		t.Fatalf("expected roster player 3 passed to provider, got %d", stub.Last.ID)
	}
}

func TestPlayerDetailWithoutProviderUsesRoster(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(route("GET /api/player/{id}", h.PlayerDetail), http.MethodGet, "/api/player/1", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["data"]["display_name"] == "" || resp["data"]["position_name"] != "GKP" {
		t.Fatalf("unexpected fallback detail %+v", resp["data"])
	}
	if stats, ok := resp["data"]["statistics"].([]any); !ok || len(stats) != 0 {
		t.Fatalf("expected empty statistics array, got %v", resp["data"]["statistics"])
	}
}

func TestPlayerDetailErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{name: "invalid id", path: "/api/player/abc", want: http.StatusBadRequest},
		{name: "unknown player", path: "/api/player/9999", want: http.StatusNotFound},
		{name: "upstream miss", path: "/api/player/1", err: providers.ErrNotFound, want: http.StatusNotFound},
		{name: "upstream failure", path: "/api/player/1", err: errors.New("boom"), want: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &teststubs.StubDetailProvider{Err: tt.err}
			h := newTestHandler(t, testutil.NewFixtureStore(), stub, nil)
			rr := testutil.Serve(route("GET /api/player/{id}", h.PlayerDetail), http.MethodGet, tt.path, nil)
			testutil.AssertStatus(t, rr, tt.want)
			if tt.want == http.StatusBadGateway && strings.Contains(rr.Body.String(), "boom") {
				t.Fatalf("expected generic upstream message, got %s", rr.Body.String())
			}
		})
	}
}

func TestRandomSquad(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.RandomSquad), http.MethodGet, "/api/random-squad", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []players.Player
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 15 {
		t.Fatalf("expected 15 players, got %d", len(resp))
	}
	if err := squad.Validate(resp, squad.DefaultRules()); err != nil {
		t.Fatalf("random squad illegal: %v", err)
	}
}

func TestGeneratorsWithoutRosterReturnServiceUnavailable(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore(), nil, nil)
	for _, fn := range []http.HandlerFunc{h.RandomSquad, h.AISquad} {
		rr := testutil.Serve(fn, http.MethodGet, "/api/squad", nil)
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	}
}

func TestAISquad(t *testing.T) {
	h := fixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.AISquad), http.MethodGet, "/api/ai-squad", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp squads.AISquad
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Starting11) != 11 || len(resp.Bench) != 4 {
		t.Fatalf("expected 11+4 players, got %d+%d", len(resp.Starting11), len(resp.Bench))
	}
	if resp.Formation == "" || math.Abs(resp.SquadValue+resp.RemainingBudget-100) > 1e-9 {
		t.Fatalf("unexpected ai squad summary %+v", resp)
	}
}

func TestAnalyzeSquad(t *testing.T) {
	h := fixtureHandler(t)
	sq, err := h.generator.RandomSquad(context.Background())
	if err != nil {
		t.Fatalf("random squad: %v", err)
	}
	payload, err := json.Marshal(analyzeRequest{Squad: sq})
	if err != nil {
		t.Fatalf("marshal squad: %v", err)
	}

	rr := testutil.ServeJSON(http.HandlerFunc(h.AnalyzeSquad), http.MethodPost, "/api/analyze-squad", string(payload))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if _, ok := resp["captain_suggestion"].(map[string]any); !ok {
		t.Fatalf("expected captain suggestion, got %v", resp)
	}
	if _, ok := resp["suggested_transfers"].([]any); !ok {
		t.Fatalf("expected transfer list, got %v", resp["suggested_transfers"])
	}
}

func TestAnalyzeSquadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
		kind string
	}{
		{name: "bad json", body: `{"squad":`, want: http.StatusBadRequest},
		{name: "missing body", body: ``, want: http.StatusBadRequest},
		{name: "empty squad", body: `{"squad":[]}`, want: http.StatusBadRequest},
		{name: "unknown player", body: `{"squad":[{"id":9999}]}`, want: http.StatusNotFound},
		{name: "incomplete squad", body: `{"squad":[{"id":1},{"id":3}]}`, want: http.StatusUnprocessableEntity},
		{name: "three goalkeepers", body: `{"squad":[{"id":1},{"id":2},{"id":16}]}`, want: http.StatusUnprocessableEntity, kind: string(squad.KindPositionCapExceeded)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := fixtureHandler(t)
			rr := testutil.ServeJSON(http.HandlerFunc(h.AnalyzeSquad), http.MethodPost, "/api/analyze-squad", tt.body)
			testutil.AssertStatus(t, rr, tt.want)
			var resp errorResponse
			testutil.DecodeJSON(t, rr, &resp)
			if resp.Kind != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, resp.Kind)
			}
		})
	}
}

func squadRoutes(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/squads", h.CreateSquad)
	mux.HandleFunc("GET /api/squads/{id}", h.GetSquad)
	mux.HandleFunc("PUT /api/squads/{id}", h.ReplaceSquad)
	mux.HandleFunc("DELETE /api/squads/{id}", h.DeleteSquad)
	mux.HandleFunc("POST /api/squads/{id}/players", h.AddSquadPlayer)
	mux.HandleFunc("DELETE /api/squads/{id}/players/{playerId}", h.RemoveSquadPlayer)
	return middleware.LoggingMiddleware(nil, nil, mux)
}

func TestSquadLifecycle(t *testing.T) {
	h := fixtureHandler(t)
	routes := squadRoutes(h)

	rr := testutil.Serve(routes, http.MethodPost, "/api/squads", nil)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var created squads.Session
	testutil.DecodeJSON(t, rr, &created)
	if created.ID == "" || len(created.Players) != 0 || created.Metrics.RemainingBudget != 100 {
		t.Fatalf("unexpected new squad %+v", created)
	}
	base := "/api/squads/" + created.ID

	rr = testutil.ServeJSON(routes, http.MethodPost, base+"/players", `{"player_id":1}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var added squads.Session
	testutil.DecodeJSON(t, rr, &added)
	if len(added.Players) != 1 || added.Players[0].ID != 1 || added.Metrics.Size != 1 {
		t.Fatalf("unexpected squad after add %+v", added)
	}

	rr = testutil.Serve(routes, http.MethodGet, base, nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(routes, http.MethodDelete, base+"/players/1", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var removed squads.Session
	testutil.DecodeJSON(t, rr, &removed)
	if len(removed.Players) != 0 || removed.Metrics.TotalCost != 0 {
		t.Fatalf("unexpected squad after remove %+v", removed)
	}

	rr = testutil.ServeJSON(routes, http.MethodPut, base, `{"player_ids":[1,3,4]}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var replaced squads.Session
	testutil.DecodeJSON(t, rr, &replaced)
	if len(replaced.Players) != 3 {
		t.Fatalf("expected replaced squad of 3, got %+v", replaced)
	}

	rr = testutil.Serve(routes, http.MethodDelete, base, nil)
	testutil.AssertStatus(t, rr, http.StatusNoContent)
	rr = testutil.Serve(routes, http.MethodGet, base, nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestSquadAddRejectionLeavesSquadUnchanged(t *testing.T) {
	h := fixtureHandler(t)
	routes := squadRoutes(h)
	session := h.sessions.Create()
	base := "/api/squads/" + session.ID

	testutil.AssertStatus(t, testutil.ServeJSON(routes, http.MethodPost, base+"/players", `{"player_id":1}`), http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, base+"/players", strings.NewReader(`{"player_id":1}`))
	req.Header.Set("X-Request-ID", "dup-1")
	rr := testutil.ServeRequest(routes, req)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Kind != string(squad.KindAlreadySelected) || resp.RequestID != "dup-1" {
		t.Fatalf("unexpected rejection body %+v", resp)
	}
	if !strings.Contains(resp.Error, "already in your squad") {
		t.Fatalf("expected user-facing message, got %q", resp.Error)
	}

	current, err := h.sessions.Get(session.ID)
	if err != nil || len(current.Players) != 1 {
		t.Fatalf("expected squad unchanged, got %+v err %v", current, err)
	}
}

func TestSquadErrors(t *testing.T) {
	h := fixtureHandler(t)
	routes := squadRoutes(h)
	session := h.sessions.Create()
	base := "/api/squads/" + session.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "unknown squad", method: http.MethodGet, path: "/api/squads/missing", want: http.StatusNotFound},
		{name: "delete unknown squad", method: http.MethodDelete, path: "/api/squads/missing", want: http.StatusNotFound},
		{name: "add to unknown squad", method: http.MethodPost, path: "/api/squads/missing/players", body: `{"player_id":1}`, want: http.StatusNotFound},
		{name: "add unknown player", method: http.MethodPost, path: base + "/players", body: `{"player_id":9999}`, want: http.StatusNotFound},
		{name: "add bad body", method: http.MethodPost, path: base + "/players", body: `{"player_id":"x"}`, want: http.StatusBadRequest},
		{name: "add missing id", method: http.MethodPost, path: base + "/players", body: `{}`, want: http.StatusBadRequest},
		{name: "remove bad id", method: http.MethodDelete, path: base + "/players/x", want: http.StatusBadRequest},
		{name: "replace unknown player", method: http.MethodPut, path: base, body: `{"player_ids":[9999]}`, want: http.StatusNotFound},
		{name: "replace illegal squad", method: http.MethodPut, path: base, body: `{"player_ids":[1,2,16]}`, want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.ServeJSON(routes, tt.method, tt.path, tt.body)
			testutil.AssertStatus(t, rr, tt.want)
		})
	}
}

func TestRequestIDPropagatesThroughMiddleware(t *testing.T) {
	h := fixtureHandler(t)
	wrapped := middleware.LoggingMiddleware(nil, nil, route("GET /api/player/{id}", h.PlayerDetail))

	req := httptest.NewRequest(http.MethodGet, "/api/player/424242", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rr := testutil.ServeRequest(wrapped, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.RequestID != "abc123" {
		t.Fatalf("expected requestId propagated, got %s", resp.RequestID)
	}
	if resp.Error == "" {
		t.Fatalf("expected error field in response")
	}
}
