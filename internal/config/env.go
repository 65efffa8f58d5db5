package config

import (
	"os"
	"strconv"
)

// FromEnv overlays DURAQ_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("DURAQ_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DURAQ_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("DURAQ_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("DURAQ_MAX_INFLIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxInflight = n
		}
	}
	if v := os.Getenv("DURAQ_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DURAQ_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("DURAQ_QUEUE_MAX_ELEMENTS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Queue.MaxElements = n
		}
	}
	if v := os.Getenv("DURAQ_QUEUE_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Queue.MaxBytes = n
		}
	}
	if v := os.Getenv("DURAQ_LOG_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Log.TTLSeconds = n
		}
	}
	if v := os.Getenv("DURAQ_LOG_SWEEP_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Log.SweepBatch = n
		}
	}
}
