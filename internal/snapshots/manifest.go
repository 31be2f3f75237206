package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks snapshot metadata.
type Manifest struct {
	Version     int        `json:"version"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Retention   Retention  `json:"retention"`
	Roster      RosterMeta `json:"roster"`
}

type Retention struct {
	RosterDays int `json:"rosterDays"`
}

type RosterMeta struct {
	Dates         []string  `json:"dates"`
	Gameweek      int       `json:"gameweek"`
	LastRefreshed time.Time `json:"lastRefreshed"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Retention: Retention{
			RosterDays: retentionDays,
		},
		Roster: RosterMeta{
			Dates: []string{},
		},
	}
}

// ReadManifest loads {basePath}/manifest.json.
func ReadManifest(basePath string) (Manifest, error) {
	return readManifest(filepath.Join(basePath, manifestName), 0)
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	path := filepath.Join(basePath, manifestName)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
