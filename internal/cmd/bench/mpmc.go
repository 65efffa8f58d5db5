package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/duraq-io/duraq/internal/config"
	"github.com/duraq-io/duraq/pkg/duraq"
	"github.com/duraq-io/duraq/pkg/log"
)

type mpmcOptions struct {
	path            string
	producers       int
	labels          int
	batch           int
	payloadSize     int
	ops             int
	ttlSeconds      int
	sweepBatch      int
	fsync           string
	fsyncIntervalMs int
	maxInflight     int
}

// NewMPMCCommand builds the "bench mpmc" subcommand. Flag defaults come from
// cfg, so config file and DURAQ_* env values apply unless overridden.
func NewMPMCCommand(logger log.Logger, cfg config.Config) *cobra.Command {
	o := mpmcOptions{sweepBatch: cfg.Log.SweepBatch}
	cmd := &cobra.Command{
		Use:   "mpmc",
		Short: "Benchmark multi-cursor add/next throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMPMC(cmd, logger, o)
		},
	}
	cmd.Flags().StringVar(&o.path, "path", "", "store directory (default: a fresh temp dir, removed afterwards)")
	cmd.Flags().IntVar(&o.producers, "producers", 4, "concurrent producer goroutines")
	cmd.Flags().IntVar(&o.labels, "labels", 2, "independent reader labels")
	cmd.Flags().IntVar(&o.batch, "batch", 4, "items per add/next batch")
	cmd.Flags().IntVar(&o.payloadSize, "payload-size", 4<<10, "payload bytes per item")
	cmd.Flags().IntVar(&o.ops, "ops", 1000, "total add operations across all producers")
	cmd.Flags().IntVar(&o.ttlSeconds, "ttl-seconds", cfg.Log.TTLSeconds, "label/retention TTL")
	cmd.Flags().StringVar(&o.fsync, "fsync", cfg.Fsync, "fsync mode: always|interval|never")
	cmd.Flags().IntVar(&o.fsyncIntervalMs, "fsync-interval-ms", cfg.FsyncIntervalMs, "group-commit window for interval mode")
	cmd.Flags().IntVar(&o.maxInflight, "max-inflight", cfg.MaxInflight, "async worker backlog bound (0 = engine default)")
	return cmd
}

func runMPMC(cmd *cobra.Command, logger log.Logger, o mpmcOptions) error {
	path := o.path
	if path == "" {
		dir, err := os.MkdirTemp("", "duraq-bench-mpmc-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		path = dir
	}

	l, err := duraq.OpenLog(path, duraq.LogOptions{
		TTL:           time.Duration(o.ttlSeconds) * time.Second,
		SweepBatch:    o.sweepBatch,
		Fsync:         ParseFsync(o.fsync),
		FsyncInterval: time.Duration(o.fsyncIntervalMs) * time.Millisecond,
		MaxInflight:   o.maxInflight,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	batch := make([][]byte, o.batch)
	for i := range batch {
		batch[i] = bytes.Repeat([]byte{'x'}, o.payloadSize)
	}
	totalItems := int64(o.ops * o.batch)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var opsLeft atomic.Int64
	opsLeft.Store(int64(o.ops))
	start := time.Now()
	var g errgroup.Group

	for p := 0; p < o.producers; p++ {
		g.Go(func() error {
			for opsLeft.Add(-1) >= 0 {
				if _, err := l.Add(ctx, batch); err != nil {
					cancel()
					return err
				}
			}
			return nil
		})
	}
	for r := 0; r < o.labels; r++ {
		label := fmt.Sprintf("bench-%d", r)
		g.Go(func() error {
			var seen int64
			for seen < totalItems {
				items, _, err := l.NextWait(ctx, label, duraq.StartOldest, o.batch)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					cancel()
					return err
				}
				seen += int64(len(items))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	deliveries := uint64(totalItems) * uint64(o.labels)
	totalBytes := deliveries * uint64(o.payloadSize)
	cmd.Printf("mpmc: %d items x %d labels (%s delivered) in %v\n",
		totalItems, o.labels, bytefmt.ByteSize(totalBytes), elapsed.Round(time.Millisecond))
	cmd.Printf("mpmc: %.0f deliveries/s, %s/s\n",
		float64(deliveries)/elapsed.Seconds(),
		bytefmt.ByteSize(uint64(float64(totalBytes)/elapsed.Seconds())))
	return nil
}
