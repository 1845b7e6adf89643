// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ProfileDBPath locates the sqlite profile/interaction database.
	ProfileDBPath string `koanf:"profile_db_path"`

	// ScoreCachePath locates the badger score cache directory.
	ScoreCachePath string `koanf:"score_cache_path"`

	// MaxDiscoverLimit caps the per-request discovery limit.
	MaxDiscoverLimit int `koanf:"max_discover_limit"`

	// SubBatchSize bounds concurrent scoring fan-out per sub-batch.
	SubBatchSize int `koanf:"sub_batch_size"`

	// RecomputeUserCap bounds users iterated per recompute run.
	RecomputeUserCap int `koanf:"recompute_user_cap"`

	// RecomputeCandidateCap bounds candidates scored per user.
	RecomputeCandidateCap int `koanf:"recompute_candidate_cap"`

	// RecomputeScoreCap bounds total scores per recompute run.
	RecomputeScoreCap int `koanf:"recompute_score_cap"`

	// SweepBatchSize bounds deletions per purge run.
	SweepBatchSize int `koanf:"sweep_batch_size"`

	// RecomputeSchedule and PurgeSchedule are cron specs for the
	// maintenance jobs.
	RecomputeSchedule string `koanf:"recompute_schedule"`
	PurgeSchedule     string `koanf:"purge_schedule"`

	// JobTimeoutSeconds bounds a single job run's wall-clock time.
	JobTimeoutSeconds int `koanf:"job_timeout_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		ProfileDBPath:         "indira.db",
		ScoreCachePath:        "scorecache",
		MaxDiscoverLimit:      100,
		SubBatchSize:          10,
		RecomputeUserCap:      1000,
		RecomputeCandidateCap: 50,
		RecomputeScoreCap:     10_000,
		SweepBatchSize:        500,
		RecomputeSchedule:     "@every 24h",
		PurgeSchedule:         "@every 6h",
		JobTimeoutSeconds:     300,
	}
}
