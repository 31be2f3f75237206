package config

// SnapshotConfig controls roster snapshots and the daily maintenance job.
type SnapshotConfig struct {
	Dir           string `envconfig:"SNAPSHOT_DIR" default:"data/snapshots"`
	RetentionDays int    `envconfig:"SNAPSHOT_RETENTION_DAYS" default:"14"`
	DailyHourUTC  int    `envconfig:"SNAPSHOT_DAILY_HOUR" default:"2"` // hour of day (0-23)
	AdminToken    string `envconfig:"ADMIN_TOKEN"`                     // guards the refresh endpoint
}

func (c SnapshotConfig) normalized() SnapshotConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaultRetentionDays
	}
	if c.DailyHourUTC < 0 || c.DailyHourUTC > 23 {
		c.DailyHourUTC = defaultDailyHourUTC
	}
	return c
}
