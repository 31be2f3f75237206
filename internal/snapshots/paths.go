package snapshots

import (
	"fmt"
	"path/filepath"
)

// RosterSnapshotPath builds the path to a roster snapshot for a given date.
func RosterSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, string(kindRoster), fmt.Sprintf("%s.json", date))
}
