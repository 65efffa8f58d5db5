package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	DataDir         string        `json:"dataDir" yaml:"dataDir"`
	Fsync           string        `json:"fsync" yaml:"fsync"` // always | interval | never
	FsyncIntervalMs int           `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`
	MaxInflight     int           `json:"maxInflight" yaml:"maxInflight"`
	LogLevel        string        `json:"logLevel" yaml:"logLevel"`
	LogFormat       string        `json:"logFormat" yaml:"logFormat"` // text | json
	Queue           QueueDefaults `json:"queue" yaml:"queue"`
	Log             LogDefaults   `json:"log" yaml:"log"`
}

// QueueDefaults captures baseline FIFO queue limits.
type QueueDefaults struct {
	MaxElements uint64 `json:"maxElements" yaml:"maxElements"`
	MaxBytes    int64  `json:"maxBytes" yaml:"maxBytes"`
}

// LogDefaults captures baseline multi-cursor log settings.
type LogDefaults struct {
	TTLSeconds int `json:"ttlSeconds" yaml:"ttlSeconds"`
	SweepBatch int `json:"sweepBatch" yaml:"sweepBatch"`
}

// TTL returns the label/retention TTL as a duration.
func (d LogDefaults) TTL() time.Duration {
	return time.Duration(d.TTLSeconds) * time.Second
}

// FsyncInterval returns the group-commit window as a duration.
func (c Config) FsyncInterval() time.Duration {
	return time.Duration(c.FsyncIntervalMs) * time.Millisecond
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		Fsync:           "always",
		FsyncIntervalMs: 5,
		LogLevel:        "info",
		LogFormat:       "text",
		Queue: QueueDefaults{
			MaxElements: 1_000_000_000,
		},
		Log: LogDefaults{
			TTLSeconds: 3600,
		},
	}
}

// Load reads configuration from a JSON or YAML file by extension. An empty
// path returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
