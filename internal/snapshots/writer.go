package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/timeutil"
)

type snapshotKind string

const (
	kindRoster   snapshotKind = "roster"
	manifestName              = "manifest.json"

	defaultRetentionDays = 14
)

// Writer persists roster snapshots and the manifest with pruning.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteRosterSnapshot writes the roster for date (YYYY-MM-DD) atomically,
// players ordered by id, then refreshes the manifest and prunes old files.
func (w *Writer) WriteRosterSnapshot(date string, snapshot roster.Roster) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if date == "" {
		return errors.New("date required")
	}

	items := append(snapshot.Players[:0:0], snapshot.Players...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	snapshot.Players = items

	target := RosterSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err != nil || !bytes.Equal(existing, data) {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, target); err != nil {
			return err
		}
	}
	return w.updateManifest(date, snapshot.Gameweek)
}

// Prune removes snapshots older than the retention window and rewrites the
// manifest. It returns the dates still on disk.
func (w *Writer) Prune() ([]string, error) {
	if w == nil {
		return nil, errors.New("snapshot writer not configured")
	}
	dates, err := w.listDates()
	if err != nil {
		return nil, err
	}
	kept := w.pruneOldSnapshots(dates)

	m, _ := readManifest(filepath.Join(w.basePath, manifestName), w.retentionDays)
	m.Roster.Dates = kept
	m.Retention.RosterDays = w.retentionDays
	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return nil, err
	}
	return kept, writeManifest(w.basePath, m)
}

func (w *Writer) updateManifest(date string, gameweek int) error {
	m, _ := readManifest(filepath.Join(w.basePath, manifestName), w.retentionDays)

	dates, err := w.listDates()
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}

	m.Roster.Dates = w.pruneOldSnapshots(dates)
	m.Roster.Gameweek = gameweek
	m.Roster.LastRefreshed = w.now().UTC()
	m.Retention.RosterDays = w.retentionDays
	return writeManifest(w.basePath, m)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func (w *Writer) listDates() ([]string, error) {
	return listDates(w.basePath)
}

func listDates(basePath string) ([]string, error) {
	dir := filepath.Join(basePath, string(kindRoster))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, name[:len(name)-len(".json")])
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldSnapshots(dates []string) []string {
	cutoff := timeutil.RetentionCutoff(w.now(), w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.Remove(RosterSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}
