// Package log provides duraq's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library's slog via a custom handler that routes records through a
// formatter/output pipeline, so callers keep a stable facade while the
// slog ecosystem remains reachable underneath.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("fifoq"))
//	l.Info("queue opened", log.Str("dir", dir), log.Int("capacity", 1024))
//
// # Interop
//
// To integrate with libraries expecting *log.Logger, use ToStdLogger or
// RedirectStdLog. Library code should accept the Logger interface and leave
// construction to the binary.
package log
