package testutil

import (
	"testing"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
)

// AssertRejections fails t unless rec counted want rejections of kind.
func AssertRejections(t *testing.T, rec *metrics.Recorder, kind squad.Kind, want int) {
	t.Helper()
	if got := rec.SquadRejections(string(kind)); got != want {
		t.Fatalf("expected %d %s rejections, got %d", want, kind, got)
	}
}
