package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Fsync != "always" {
		t.Fatalf("default fsync: %q", cfg.Fsync)
	}
	if cfg.Queue.MaxElements != 1_000_000_000 {
		t.Fatalf("default queue capacity: %d", cfg.Queue.MaxElements)
	}
	if cfg.Log.TTL() != time.Hour {
		t.Fatalf("default ttl: %v", cfg.Log.TTL())
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "duraq.json")
	data := []byte(`{"fsync":"interval","fsyncIntervalMs":10,"queue":{"maxElements":128,"maxBytes":4096},"log":{"ttlSeconds":60}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fsync != "interval" || cfg.FsyncInterval() != 10*time.Millisecond {
		t.Fatalf("fsync settings: %q %v", cfg.Fsync, cfg.FsyncInterval())
	}
	if cfg.Queue.MaxElements != 128 || cfg.Queue.MaxBytes != 4096 {
		t.Fatalf("queue settings: %+v", cfg.Queue)
	}
	if cfg.Log.TTL() != time.Minute {
		t.Fatalf("ttl: %v", cfg.Log.TTL())
	}
	// untouched keys keep defaults
	if cfg.LogLevel != "info" {
		t.Fatalf("log level default lost: %q", cfg.LogLevel)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "duraq.yaml")
	data := []byte("fsync: never\nlogFormat: json\nqueue:\n  maxElements: 64\nlog:\n  ttlSeconds: 120\n  sweepBatch: 256\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fsync != "never" || cfg.LogFormat != "json" {
		t.Fatalf("top-level yaml settings: %q %q", cfg.Fsync, cfg.LogFormat)
	}
	if cfg.Queue.MaxElements != 64 {
		t.Fatalf("queue yaml: %+v", cfg.Queue)
	}
	if cfg.Log.TTL() != 2*time.Minute || cfg.Log.SweepBatch != 256 {
		t.Fatalf("log yaml: %+v", cfg.Log)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(file, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("DURAQ_FSYNC", "interval")
	os.Setenv("DURAQ_QUEUE_MAX_ELEMENTS", "24")
	os.Setenv("DURAQ_LOG_TTL_SECONDS", "30")
	os.Setenv("DURAQ_LOG_LEVEL", "debug")
	t.Cleanup(func() {
		os.Unsetenv("DURAQ_FSYNC")
		os.Unsetenv("DURAQ_QUEUE_MAX_ELEMENTS")
		os.Unsetenv("DURAQ_LOG_TTL_SECONDS")
		os.Unsetenv("DURAQ_LOG_LEVEL")
	})
	FromEnv(&cfg)
	if cfg.Fsync != "interval" {
		t.Fatalf("env fsync: %q", cfg.Fsync)
	}
	if cfg.Queue.MaxElements != 24 {
		t.Fatalf("env queue capacity: %d", cfg.Queue.MaxElements)
	}
	if cfg.Log.TTL() != 30*time.Second {
		t.Fatalf("env ttl: %v", cfg.Log.TTL())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env log level: %q", cfg.LogLevel)
	}
}
