package fifoq

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
)

var (
	// ErrQueueFull is returned when a push would exceed the configured capacity.
	ErrQueueFull = errors.New("fifoq: queue is full")
	// ErrQueueEmpty is returned when a pop finds no buffered items.
	ErrQueueEmpty = errors.New("fifoq: queue is empty")
	// ErrCorrupt is returned when a stored entry fails its checksum.
	ErrCorrupt = errors.New("fifoq: corrupt entry")
)

// DefaultMaxElements bounds a queue when no explicit capacity is configured.
const DefaultMaxElements = 1_000_000_000

// Options configures a Queue.
type Options struct {
	// MaxElements caps the number of outstanding items. 0 selects
	// DefaultMaxElements.
	MaxElements uint64
	// MaxBytes optionally caps the aggregate payload bytes outstanding.
	// 0 disables the byte budget.
	MaxBytes int64
}

// Queue is a durable FIFO queue bounded by capacity.
type Queue struct {
	db *pebblestore.DB

	maxElements uint64
	maxBytes    int64

	mu           sync.Mutex
	head         uint64 // seq of the oldest unread entry
	tail         uint64 // seq the next push will write
	payloadBytes int64

	notFull  chan struct{}
	notEmpty chan struct{}
}

// Open initializes a Queue over db and restores head/tail from metadata (if any).
func Open(db *pebblestore.DB, opts Options) (*Queue, error) {
	q := &Queue{
		db:          db,
		maxElements: opts.MaxElements,
		maxBytes:    opts.MaxBytes,
		head:        1,
		tail:        1,
		notFull:     make(chan struct{}),
		notEmpty:    make(chan struct{}),
	}
	if q.maxElements == 0 {
		q.maxElements = DefaultMaxElements
	}
	meta, err := db.Get(keyMeta)
	switch {
	case err == nil && len(meta) >= 24:
		q.head = binary.BigEndian.Uint64(meta[0:8])
		q.tail = binary.BigEndian.Uint64(meta[8:16])
		q.payloadBytes = int64(binary.BigEndian.Uint64(meta[16:24]))
	case err == nil:
		return nil, fmt.Errorf("fifoq: meta record truncated: %w", ErrCorrupt)
	case pebblestore.IsNotFound(err):
		// fresh store
	default:
		return nil, fmt.Errorf("fifoq: load meta: %w", err)
	}
	if q.head > q.tail {
		return nil, fmt.Errorf("fifoq: meta head %d > tail %d: %w", q.head, q.tail, ErrCorrupt)
	}
	return q, nil
}

func (q *Queue) encodeMetaLocked(head, tail uint64, payloadBytes int64) []byte {
	var meta [24]byte
	binary.BigEndian.PutUint64(meta[0:8], head)
	binary.BigEndian.PutUint64(meta[8:16], tail)
	binary.BigEndian.PutUint64(meta[16:24], uint64(payloadBytes))
	return meta[:]
}

// Len returns the number of outstanding items.
func (q *Queue) Len() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail - q.head
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// PayloadBytes returns the aggregate payload size of outstanding items.
func (q *Queue) PayloadBytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.payloadBytes
}

// Capacity returns the configured item capacity.
func (q *Queue) Capacity() uint64 {
	return q.maxElements
}

// Push appends items as one atomic batch. The whole batch is rejected with
// ErrQueueFull when it would exceed the item or byte capacity; no partial
// admission happens.
func (q *Queue) Push(ctx context.Context, items [][]byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushLocked(ctx, items)
}

func (q *Queue) pushLocked(ctx context.Context, items [][]byte) error {
	if len(items) == 0 {
		return nil
	}
	count := q.tail - q.head
	if count+uint64(len(items)) > q.maxElements {
		return ErrQueueFull
	}
	var add int64
	for _, it := range items {
		add += int64(len(it))
	}
	if q.maxBytes > 0 && q.payloadBytes+add > q.maxBytes {
		return ErrQueueFull
	}

	b := q.db.NewBatch()
	defer b.Close()

	tail := q.tail
	for _, it := range items {
		if err := b.Set(KeyEntry(tail), EncodeEntry(it), nil); err != nil {
			return fmt.Errorf("fifoq: stage entry: %w", err)
		}
		tail++
	}
	if err := b.Set(keyMeta, q.encodeMetaLocked(q.head, tail, q.payloadBytes+add), nil); err != nil {
		return fmt.Errorf("fifoq: stage meta: %w", err)
	}
	if err := q.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("fifoq: commit push: %w", err)
	}

	q.tail = tail
	q.payloadBytes += add
	// wake blocked poppers
	close(q.notEmpty)
	q.notEmpty = make(chan struct{})
	return nil
}

// Pop removes and returns up to max items from the head, fewer when fewer
// are buffered. ErrQueueEmpty is returned when the queue holds nothing.
func (q *Queue) Pop(ctx context.Context, max int) ([][]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked(ctx, max)
}

func (q *Queue) popLocked(ctx context.Context, max int) ([][]byte, error) {
	if max <= 0 {
		max = 1
	}
	if q.head == q.tail {
		return nil, ErrQueueEmpty
	}
	n := uint64(max)
	if avail := q.tail - q.head; n > avail {
		n = avail
	}
	end := q.head + n

	iter, err := q.db.NewIter(&pebble.IterOptions{LowerBound: KeyEntry(q.head), UpperBound: KeyEntry(end)})
	if err != nil {
		return nil, fmt.Errorf("fifoq: iterator: %w", err)
	}
	items := make([][]byte, 0, n)
	var freed int64
	for ok := iter.First(); ok; ok = iter.Next() {
		payload, okDec := DecodeEntry(iter.Value())
		if !okDec {
			_ = iter.Close()
			return nil, fmt.Errorf("fifoq: entry seq %d: %w", SeqFromKey(iter.Key()), ErrCorrupt)
		}
		items = append(items, payload)
		freed += int64(len(payload))
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("fifoq: iterator close: %w", err)
	}
	if uint64(len(items)) != n {
		return nil, fmt.Errorf("fifoq: expected %d entries in [%d,%d), found %d: %w", n, q.head, end, len(items), ErrCorrupt)
	}

	b := q.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(KeyEntry(q.head), KeyEntry(end), nil); err != nil {
		return nil, fmt.Errorf("fifoq: stage delete: %w", err)
	}
	if err := b.Set(keyMeta, q.encodeMetaLocked(end, q.tail, q.payloadBytes-freed), nil); err != nil {
		return nil, fmt.Errorf("fifoq: stage meta: %w", err)
	}
	if err := q.db.CommitBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("fifoq: commit pop: %w", err)
	}

	q.head = end
	q.payloadBytes -= freed
	// wake blocked pushers
	close(q.notFull)
	q.notFull = make(chan struct{})
	return items, nil
}
