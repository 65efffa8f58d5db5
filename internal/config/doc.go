// Package config provides loading and environment overlay for duraq
// configuration. It exposes a Default() baseline, JSON/YAML file loading,
// and a DURAQ_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/duraq.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
