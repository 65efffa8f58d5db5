package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/duraq-io/duraq/internal/cmd/bench"
	"github.com/duraq-io/duraq/internal/config"
	"github.com/duraq-io/duraq/internal/cursorlog"
	"github.com/duraq-io/duraq/internal/fifoq"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
	"github.com/duraq-io/duraq/pkg/duraq"
	logpkg "github.com/duraq-io/duraq/pkg/log"
)

// configPath scans args ahead of cobra so file values can seed flag
// defaults across all subcommands. DURAQ_CONFIG is the fallback.
func configPath(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
	}
	return os.Getenv("DURAQ_CONFIG")
}

func newLogger(cfg config.Config) logpkg.Logger {
	level, err := logpkg.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logpkg.InfoLevel
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if cfg.LogFormat == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	return logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormatter(formatter),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
}

func main() {
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, "duraq:", err)
		os.Exit(1)
	}
	config.FromEnv(&cfg)

	logger := newLogger(cfg)
	// Pebble logs through the standard library
	logpkg.RedirectStdLog(logger, logpkg.DebugLevel)

	rootCmd := &cobra.Command{
		Use:   "duraq",
		Short: "duraq store CLI",
		Long:  "duraq manages durable disk-resident queue stores: inspection, removal, and benchmarks.",
	}
	rootCmd.PersistentFlags().String("config", "", "config file, JSON or YAML (also via DURAQ_CONFIG)")

	benchCmd := &cobra.Command{Use: "bench", Short: "Throughput benchmarks"}
	benchCmd.AddCommand(bench.NewFifoCommand(logger, cfg))
	benchCmd.AddCommand(bench.NewMPMCCommand(logger, cfg))
	rootCmd.AddCommand(benchCmd)

	rootCmd.AddCommand(newStatCommand(cfg))
	rootCmd.AddCommand(newRemoveCommand(logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", logpkg.Err(err))
		os.Exit(1)
	}
}

func newStatCommand(cfg config.Config) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Inspect a store: lengths, payload bytes, disk size",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := pebblestore.Open(pebblestore.Options{DataDir: path, Fsync: pebblestore.FsyncModeNever})
			if err != nil {
				return err
			}
			defer db.Close()

			size, err := db.DiskSize()
			if err != nil {
				return err
			}
			cmd.Printf("path: %s\n", path)
			cmd.Printf("disk: %s\n", bytefmt.ByteSize(uint64(size)))

			if q, err := fifoq.Open(db, fifoq.Options{}); err == nil && q.Len() > 0 {
				cmd.Printf("fifo: %d items, %s payload\n", q.Len(), bytefmt.ByteSize(uint64(q.PayloadBytes())))
			}
			// a huge TTL keeps the inspection from sweeping anything away
			if l, err := cursorlog.Open(db, cursorlog.Options{TTL: 100 * 365 * 24 * time.Hour}); err == nil {
				n, err := l.Len()
				if err != nil {
					return err
				}
				if n > 0 {
					labels, err := l.Labels(cmd.Context(), 0)
					if err != nil {
						return err
					}
					cmd.Printf("log: %d entries, labels %v\n", n, labels)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", cfg.DataDir, "store directory")
	return cmd
}

func newRemoveCommand(logger logpkg.Logger) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Erase an on-disk store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--path is required")
			}
			if err := duraq.Remove(path); err != nil {
				switch {
				case errors.Is(err, duraq.ErrPathInUse):
					return fmt.Errorf("store at %s is open elsewhere: %w", path, err)
				case errors.Is(err, duraq.ErrNotAStore):
					return fmt.Errorf("%s does not contain a store: %w", path, err)
				default:
					return err
				}
			}
			logger.Info("store removed", logpkg.Str("path", path))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "store directory")
	return cmd
}
