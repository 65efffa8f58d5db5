package duraq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duraq-io/duraq/internal/async"
	"github.com/duraq-io/duraq/internal/cursorlog"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
	"github.com/duraq-io/duraq/pkg/log"
)

// StartPosition selects where a label's cursor begins on first use.
type StartPosition = cursorlog.StartPosition

const (
	// StartOldest begins at the earliest retained entry.
	StartOldest = cursorlog.StartOldest
	// StartNewest begins at the tail, delivering only future entries.
	StartNewest = cursorlog.StartNewest
)

// Log is a durable multi-cursor append log. Every named label reads the
// full stream independently; labels idle longer than the TTL expire, and
// entries are trimmed once they are older than the TTL and behind every
// live label.
type Log struct {
	db     *pebblestore.DB
	l      *cursorlog.Log
	worker *async.Worker
	logger log.Logger

	// gate serializes raw-sync calls unless Parallel() is passed
	gate sync.Mutex

	closed  atomic.Bool
	closeCh chan struct{}
}

// OpenLog creates or reopens the multi-cursor store at path. The path is
// held exclusively until Close; a second open fails with ErrPathInUse.
func OpenLog(path string, opts LogOptions) (*Log, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.WithComponent("duraq.log")

	db, err := pebblestore.Open(storageOptions(path, opts.Fsync, opts.FsyncInterval))
	if err != nil {
		return nil, err
	}
	l, err := cursorlog.Open(db, cursorlog.Options{TTL: opts.TTL, SweepBatch: opts.SweepBatch})
	if err != nil {
		_ = db.Close()
		return nil, mapErr(err)
	}

	logger.Info("log opened",
		log.Str("path", path),
		log.Dur("ttl", l.TTL()))

	return &Log{
		db:      db,
		l:       l,
		worker:  async.NewWorker(opts.MaxInflight),
		logger:  logger,
		closeCh: make(chan struct{}),
	}, nil
}

// Add appends items as one atomic batch and returns the assigned sequences.
func (l *Log) Add(ctx context.Context, items [][]byte, opts ...CallOption) ([]uint64, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if co := applyCallOptions(opts); !co.parallel {
		l.gate.Lock()
		defer l.gate.Unlock()
	}
	seqs, err := l.l.Add(ctx, items, 0)
	return seqs, mapErr(err)
}

// Next delivers up to max entries to label, creating its cursor on first
// use per start. The second return reports whether more entries are
// already buffered beyond this batch. Next never waits; a short or empty
// batch is returned when fewer entries are available.
func (l *Log) Next(ctx context.Context, label string, start StartPosition, max int, opts ...CallOption) ([][]byte, bool, error) {
	if l.closed.Load() {
		return nil, false, ErrClosed
	}
	if label == "" {
		return nil, false, ErrNotFound
	}
	if co := applyCallOptions(opts); !co.parallel {
		l.gate.Lock()
		defer l.gate.Unlock()
	}
	items, hasMore, err := l.l.Next(ctx, label, start, max, 0)
	return items, hasMore, mapErr(err)
}

// NextWait behaves like Next but suspends while no entries are available
// for label, until an append arrives, ctx is done, or the log is closed.
func (l *Log) NextWait(ctx context.Context, label string, start StartPosition, max int) ([][]byte, bool, error) {
	if label == "" {
		return nil, false, ErrNotFound
	}
	for {
		if l.closed.Load() {
			return nil, false, ErrClosed
		}
		// capture the signal before reading so a concurrent Add between the
		// empty read and the wait cannot be missed
		ch := l.l.AppendSignal()
		items, hasMore, err := l.l.Next(ctx, label, start, max, 0)
		if err != nil {
			return nil, false, mapErr(err)
		}
		if len(items) > 0 {
			return items, hasMore, nil
		}
		select {
		case <-ch:
		case <-l.closeCh:
			return nil, false, ErrClosed
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// Labels returns the live labels in sorted order, expired labels excluded.
func (l *Log) Labels(ctx context.Context, opts ...CallOption) ([]string, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if co := applyCallOptions(opts); !co.parallel {
		l.gate.Lock()
		defer l.gate.Unlock()
	}
	labels, err := l.l.Labels(ctx, 0)
	return labels, mapErr(err)
}

// RemoveLabel deletes label's cursor and reports whether one existed.
// Removing an absent label is not an error.
func (l *Log) RemoveLabel(ctx context.Context, label string, opts ...CallOption) (bool, error) {
	if l.closed.Load() {
		return false, ErrClosed
	}
	if label == "" {
		return false, ErrNotFound
	}
	if co := applyCallOptions(opts); !co.parallel {
		l.gate.Lock()
		defer l.gate.Unlock()
	}
	existed, err := l.l.RemoveLabel(ctx, label)
	return existed, mapErr(err)
}

// Sweep eagerly runs the TTL pass that Next and Labels run lazily.
func (l *Log) Sweep(ctx context.Context) error {
	if l.closed.Load() {
		return ErrClosed
	}
	return mapErr(l.l.Sweep(ctx, 0))
}

// Len returns the number of retained entries.
func (l *Log) Len() (uint64, error) {
	if l.closed.Load() {
		return 0, ErrClosed
	}
	n, err := l.l.Len()
	return n, mapErr(err)
}

// TTL returns the configured label/retention TTL.
func (l *Log) TTL() time.Duration { return l.l.TTL() }

// DiskSize reports the on-disk footprint of the store directory.
func (l *Log) DiskSize() (int64, error) { return l.db.DiskSize() }

// Close drains pending async operations, releases the store path, and
// wakes any blocked waiters with ErrClosed. Close is idempotent.
func (l *Log) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.closeCh)
	l.worker.Close()
	err := l.db.Close()
	l.logger.Info("log closed")
	return err
}

// Remove erases an entire on-disk store. It fails with ErrPathInUse while
// the path is open in this process and ErrNotAStore when the path exists
// but holds no store.
func Remove(path string) error {
	return pebblestore.Remove(path)
}
