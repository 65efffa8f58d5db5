package duraq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/duraq-io/duraq/internal/async"
	"github.com/duraq-io/duraq/internal/fifoq"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
	"github.com/duraq-io/duraq/pkg/log"
)

// Queue is a durable capacity-bounded FIFO. Each pushed item is delivered
// to exactly one pop.
type Queue struct {
	db     *pebblestore.DB
	q      *fifoq.Queue
	worker *async.Worker
	logger log.Logger

	// gate serializes raw-sync calls unless Parallel() is passed
	gate sync.Mutex

	closed  atomic.Bool
	closeCh chan struct{}
}

// OpenQueue creates or reopens the FIFO store at path. The path is held
// exclusively until Close; a second open fails with ErrPathInUse.
func OpenQueue(path string, opts QueueOptions) (*Queue, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.WithComponent("duraq.queue")

	db, err := pebblestore.Open(storageOptions(path, opts.Fsync, opts.FsyncInterval))
	if err != nil {
		return nil, err
	}
	q, err := fifoq.Open(db, fifoq.Options{MaxElements: opts.MaxElements, MaxBytes: opts.MaxBytes})
	if err != nil {
		_ = db.Close()
		return nil, mapErr(err)
	}

	logger.Info("queue opened",
		log.Str("path", path),
		log.Uint64("capacity", q.Capacity()),
		log.Uint64("len", q.Len()))

	return &Queue{
		db:      db,
		q:       q,
		worker:  async.NewWorker(opts.MaxInflight),
		logger:  logger,
		closeCh: make(chan struct{}),
	}, nil
}

// Push appends items as one atomic batch. The whole batch is rejected with
// ErrQueueFull when it would exceed capacity.
func (q *Queue) Push(ctx context.Context, items [][]byte, opts ...CallOption) error {
	if q.closed.Load() {
		return ErrClosed
	}
	if co := applyCallOptions(opts); !co.parallel {
		q.gate.Lock()
		defer q.gate.Unlock()
	}
	return mapErr(q.q.Push(ctx, items))
}

// Pop removes and returns up to max items from the head. ErrQueueEmpty is
// returned when nothing is buffered.
func (q *Queue) Pop(ctx context.Context, max int, opts ...CallOption) ([][]byte, error) {
	if q.closed.Load() {
		return nil, ErrClosed
	}
	if co := applyCallOptions(opts); !co.parallel {
		q.gate.Lock()
		defer q.gate.Unlock()
	}
	items, err := q.q.Pop(ctx, max)
	return items, mapErr(err)
}

// PushWait appends items, suspending while the queue is full until pops
// free capacity, ctx is done, or the queue is closed.
func (q *Queue) PushWait(ctx context.Context, items [][]byte) error {
	if q.closed.Load() {
		return ErrClosed
	}
	ctx, stop := q.closeAware(ctx)
	defer stop()
	err := q.q.PushWait(ctx, items)
	if errors.Is(err, context.Canceled) && q.closed.Load() {
		return ErrClosed
	}
	return mapErr(err)
}

// PopWait removes up to max items, suspending while the queue is empty
// until a push arrives, ctx is done, or the queue is closed.
func (q *Queue) PopWait(ctx context.Context, max int) ([][]byte, error) {
	if q.closed.Load() {
		return nil, ErrClosed
	}
	ctx, stop := q.closeAware(ctx)
	defer stop()
	items, err := q.q.PopWait(ctx, max)
	if errors.Is(err, context.Canceled) && q.closed.Load() {
		return nil, ErrClosed
	}
	return items, mapErr(err)
}

// closeAware derives a context cancelled when the queue closes, so blocked
// waiters do not outlive the handle.
func (q *Queue) closeAware(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	go func() {
		select {
		case <-q.closeCh:
			cancel()
		case <-done:
		}
	}()
	return ctx, func() {
		cancel()
		close(done)
	}
}

// Len returns the number of outstanding items.
func (q *Queue) Len() uint64 { return q.q.Len() }

// IsEmpty reports whether the queue holds no items.
func (q *Queue) IsEmpty() bool { return q.q.IsEmpty() }

// PayloadBytes returns the aggregate payload size of outstanding items.
func (q *Queue) PayloadBytes() int64 { return q.q.PayloadBytes() }

// Capacity returns the configured item capacity.
func (q *Queue) Capacity() uint64 { return q.q.Capacity() }

// DiskSize reports the on-disk footprint of the store directory.
func (q *Queue) DiskSize() (int64, error) { return q.db.DiskSize() }

// Close drains pending async operations, releases the store path, and
// wakes any blocked waiters with ErrClosed. Close is idempotent.
func (q *Queue) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(q.closeCh)
	q.worker.Close()
	err := q.db.Close()
	q.logger.Info("queue closed")
	return err
}
