package testutil

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/snapshots"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T, retention int) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir(), retention)
}

// WriteSnapshot writes a roster snapshot with a single player for the date.
func WriteSnapshot(t *testing.T, w *snapshots.Writer, date string) {
	t.Helper()
	if err := writeSnapshotPayload(w, date); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func writeSnapshotPayload(w *snapshots.Writer, date string) error {
	if w == nil {
		return errors.New("nil snapshot writer")
	}
	return w.WriteRosterSnapshot(date, roster.Roster{
		Gameweek: 1,
		Players:  SampleRoster()[:1],
	})
}

// SnapshotPath returns the expected file path for a snapshot date.
func SnapshotPath(w *snapshots.Writer, date string) string {
	return snapshots.RosterSnapshotPath(w.BasePath(), date)
}
