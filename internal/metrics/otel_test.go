package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSetupDisabledReturnsNoHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected nil handler when disabled")
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown function")
	}
}

func TestSetupEnabledExposesSquadInstruments(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled:     true,
		ServiceName: "fpl-coach-service",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	if handler == nil {
		t.Fatalf("expected handler when enabled")
	}

	rec.RecordHTTPRequest("GET", "/api/players", 200, time.Millisecond)
	rec.RecordPollerCycle(time.Millisecond, nil)
	rec.RecordProviderAttempt("fpl", time.Millisecond, nil)
	rec.RecordRateLimit("fpl", time.Second)
	rec.RecordSquadRejection("budget_exceeded")
	rec.RecordSquadGeneration(GeneratorAI, 20*time.Millisecond, errors.New("boom"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	for _, name := range []string{"squad_rejections_total", "squad_generations_total", "provider_attempts_total"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("expected %s in exposition", name)
		}
	}
}
