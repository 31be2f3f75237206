package server

import (
	"github.com/preston-bernstein/fpl-coach-service/internal/config"
	"github.com/preston-bernstein/fpl-coach-service/internal/snapshots"
)

type snapshotComponents struct {
	store  *snapshots.FSStore
	writer *snapshots.Writer
}

func buildSnapshots(cfg config.Config) snapshotComponents {
	basePath := cfg.Snapshots.Dir
	return snapshotComponents{
		store:  snapshots.NewFSStore(basePath),
		writer: snapshots.NewWriter(basePath, cfg.Snapshots.RetentionDays),
	}
}
