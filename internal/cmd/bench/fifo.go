package bench

import (
	"bytes"
	"context"
	"errors"
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

type fifoOptions struct {
	path            string
	producers       int
	consumers       int
	batch           int
	payloadSize     int
	ops             int
	capacity        uint64
	maxBytes        int64
	fsync           string
	fsyncIntervalMs int
	maxInflight     int
	parallel        bool
}

// NewFifoCommand builds the "bench fifo" subcommand. Flag defaults come from
// cfg, so config file and DURAQ_* env values apply unless overridden.
func NewFifoCommand(logger log.Logger, cfg config.Config) *cobra.Command {
	o := fifoOptions{maxBytes: cfg.Queue.MaxBytes}
	cmd := &cobra.Command{
		Use:   "fifo",
		Short: "Benchmark FIFO push/pop throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFifo(cmd, logger, o)
		},
	}
	cmd.Flags().StringVar(&o.path, "path", "", "store directory (default: a fresh temp dir, removed afterwards)")
	cmd.Flags().IntVar(&o.producers, "producers", 4, "concurrent producer goroutines")
	cmd.Flags().IntVar(&o.consumers, "consumers", 1, "concurrent consumer goroutines")
	cmd.Flags().IntVar(&o.batch, "batch", 4, "items per push/pop batch")
	cmd.Flags().IntVar(&o.payloadSize, "payload-size", 256<<10, "payload bytes per item")
	cmd.Flags().IntVar(&o.ops, "ops", 240, "total push operations across all producers")
	cmd.Flags().Uint64Var(&o.capacity, "capacity", cfg.Queue.MaxElements, "queue capacity in items")
	cmd.Flags().StringVar(&o.fsync, "fsync", cfg.Fsync, "fsync mode: always|interval|never")
	cmd.Flags().IntVar(&o.fsyncIntervalMs, "fsync-interval-ms", cfg.FsyncIntervalMs, "group-commit window for interval mode")
	cmd.Flags().IntVar(&o.maxInflight, "max-inflight", cfg.MaxInflight, "async worker backlog bound (0 = engine default)")
	cmd.Flags().BoolVar(&o.parallel, "parallel", false, "use raw calls with the Parallel() option instead of blocking calls")
	return cmd
}

func runFifo(cmd *cobra.Command, logger log.Logger, o fifoOptions) error {
	path := o.path
	if path == "" {
		dir, err := os.MkdirTemp("", "duraq-bench-fifo-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		path = dir
	}

	q, err := duraq.OpenQueue(path, duraq.QueueOptions{
		MaxElements:   o.capacity,
		MaxBytes:      o.maxBytes,
		Fsync:         ParseFsync(o.fsync),
		FsyncInterval: time.Duration(o.fsyncIntervalMs) * time.Millisecond,
		MaxInflight:   o.maxInflight,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer q.Close()

	batch := make([][]byte, o.batch)
	for i := range batch {
		batch[i] = bytes.Repeat([]byte{'x'}, o.payloadSize)
	}
	totalItems := int64(o.ops * o.batch)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var popped atomic.Int64
	var opsLeft atomic.Int64
	opsLeft.Store(int64(o.ops))
	start := time.Now()
	var g errgroup.Group

	for p := 0; p < o.producers; p++ {
		g.Go(func() error {
			for opsLeft.Add(-1) >= 0 {
				if err := pushBatch(ctx, q, batch, o.parallel); err != nil {
					cancel()
					return err
				}
			}
			return nil
		})
	}
	for c := 0; c < o.consumers; c++ {
		g.Go(func() error {
			for {
				items, err := popBatch(ctx, q, o.batch, o.parallel)
				if err != nil {
					// cancel fires once the target count is reached
					if errors.Is(err, context.Canceled) && popped.Load() >= totalItems {
						return nil
					}
					cancel()
					return err
				}
				if popped.Add(int64(len(items))) >= totalItems {
					cancel()
					return nil
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	totalBytes := uint64(totalItems) * uint64(o.payloadSize)
	cmd.Printf("fifo: %d items (%s) in %v\n", totalItems, bytefmt.ByteSize(totalBytes), elapsed.Round(time.Millisecond))
	cmd.Printf("fifo: %.0f items/s, %s/s\n",
		float64(totalItems)/elapsed.Seconds(),
		bytefmt.ByteSize(uint64(float64(totalBytes)/elapsed.Seconds())))
	return nil
}

func pushBatch(ctx context.Context, q *duraq.Queue, batch [][]byte, parallel bool) error {
	if !parallel {
		return q.PushWait(ctx, batch)
	}
	for {
		err := q.Push(ctx, batch, duraq.Parallel())
		if !errors.Is(err, duraq.ErrQueueFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func popBatch(ctx context.Context, q *duraq.Queue, max int, parallel bool) ([][]byte, error) {
	if !parallel {
		return q.PopWait(ctx, max)
	}
	for {
		items, err := q.Pop(ctx, max, duraq.Parallel())
		if !errors.Is(err, duraq.ErrQueueEmpty) {
			return items, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// ParseFsync maps a CLI fsync mode name to the engine mode. Unknown names
// select always.
func ParseFsync(s string) duraq.FsyncMode {
	switch s {
	case "never":
		return duraq.FsyncNever
	case "interval":
		return duraq.FsyncInterval
	default:
		return duraq.FsyncAlways
	}
}
