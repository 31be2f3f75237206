package snapshots

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
)

func simpleRoster(gw int) roster.Roster {
	return roster.Roster{
		Gameweek: gw,
		Players:  []players.Player{{ID: 3, WebName: "C"}, {ID: 1, WebName: "A"}},
	}
}

func fixedWriter(t *testing.T, retention int, now time.Time) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), retention)
	w.now = func() time.Time { return now }
	return w
}

func writeSnapshot(t *testing.T, w *Writer, date string, snap roster.Roster) {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for date %s", date)
	}
	if err := w.WriteRosterSnapshot(date, snap); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(w.BasePath(), "roster", date+".json")); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", date, err)
	}
}
