package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/timeutil"
)

// ErrNoSnapshots is returned when no roster snapshot exists on disk.
var ErrNoSnapshots = errors.New("no roster snapshots")

// Store defines how snapshots are loaded.
type Store interface {
	LoadRoster(date string) (roster.Roster, error)
	LatestRoster() (roster.Roster, string, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadRoster reads the snapshot for date (YYYY-MM-DD) from
// {basePath}/roster/{date}.json.
func (s *FSStore) LoadRoster(date string) (roster.Roster, error) {
	if s == nil {
		return roster.Roster{}, errors.New("snapshot store not configured")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return roster.Roster{}, fmt.Errorf("snapshot date %q: %w", date, err)
	}
	var payload roster.Roster
	if err := decodeFile(RosterSnapshotPath(s.basePath, date), &payload); err != nil {
		return roster.Roster{}, err
	}
	return payload, nil
}

// LatestRoster loads the most recent dated snapshot and returns its date.
func (s *FSStore) LatestRoster() (roster.Roster, string, error) {
	if s == nil {
		return roster.Roster{}, "", errors.New("snapshot store not configured")
	}
	dates, err := listDates(s.basePath)
	if err != nil {
		return roster.Roster{}, "", err
	}
	for i := len(dates) - 1; i >= 0; i-- {
		if _, err := timeutil.ParseDate(dates[i]); err != nil {
			continue
		}
		r, err := s.LoadRoster(dates[i])
		if err != nil {
			return roster.Roster{}, "", err
		}
		return r, dates[i], nil
	}
	return roster.Roster{}, "", ErrNoSnapshots
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
