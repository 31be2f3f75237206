package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/testutil"
)

func TestWriteErrorIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	logger, _ := testutil.NewBufferLogger()

	req.Header.Set("X-Request-ID", "abc123")

	rr := testutil.ServeRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTeapot, "boom", logger)
	}), req)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content type json, got %s", got)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("abc123")) {
		t.Fatalf("expected requestId in body, got %s", rr.Body.String())
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, make(chan int), logger)
	}), http.MethodGet, "/encode-error", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if buf.Len() == 0 {
		t.Fatalf("expected logger to record encode error")
	}
}

func TestWriteErrorOmitsMissingRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	writeError(rr, req, http.StatusBadRequest, "bad", nil)
	if strings.Contains(rr.Body.String(), "requestId") {
		t.Fatalf("expected no requestId key, got %s", rr.Body.String())
	}
}

func TestWriteRejectionAddsKind(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/squads/x/players", nil)
	req.Header.Set("X-Request-ID", "req-9")
	writeRejection(rr, req, &squad.Rejection{Kind: squad.KindTeamCapExceeded, TeamName: "Arsenal", Cap: 3}, nil)

	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["kind"] != "team_cap_exceeded" || body["requestId"] != "req-9" {
		t.Fatalf("unexpected rejection body %+v", body)
	}
	if body["error"] != "You can only select 3 players from Arsenal." {
		t.Fatalf("unexpected message %q", body["error"])
	}
}

func TestDecodeBody(t *testing.T) {
	var dest addPlayerRequest
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := decodeBody(httptest.NewRecorder(), req, &dest); !errors.Is(err, errEmptyBody) {
		t.Fatalf("expected empty body error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player_id":7}`))
	if err := decodeBody(httptest.NewRecorder(), req, &dest); err != nil || dest.PlayerID != 7 {
		t.Fatalf("expected decoded id 7, got %d err %v", dest.PlayerID, err)
	}

	big := `{"player_id":1,"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	if err := decodeBody(httptest.NewRecorder(), req, &dest); err == nil {
		t.Fatalf("expected oversized body to fail")
	}
}

func TestPathInt(t *testing.T) {
	mux := http.NewServeMux()
	var got int
	var gotErr error
	mux.HandleFunc("GET /p/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = pathInt(r, "id")
	})

	testutil.Serve(mux, http.MethodGet, "/p/12", nil)
	if gotErr != nil || got != 12 {
		t.Fatalf("expected 12, got %d err %v", got, gotErr)
	}
	for _, bad := range []string{"/p/0", "/p/-3", "/p/abc"} {
		testutil.Serve(mux, http.MethodGet, bad, nil)
		if gotErr == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
}
