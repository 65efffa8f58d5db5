package cursorlog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
)

var (
	// ErrInvalidLabel is returned when an operation names an empty label.
	ErrInvalidLabel = errors.New("cursorlog: invalid label")
	// ErrCorrupt is returned when a stored entry fails its checksum.
	ErrCorrupt = errors.New("cursorlog: corrupt entry")
)

// StartPosition selects where a cursor begins when it is created.
type StartPosition int

const (
	// StartOldest begins at the earliest retained entry.
	StartOldest StartPosition = iota
	// StartNewest begins at the current tail, delivering only entries
	// appended after the cursor was seeded.
	StartNewest
)

// DefaultSweepBatch caps deletions per sweep batch commit.
const DefaultSweepBatch = 1024

// Options configures a Log.
type Options struct {
	// TTL is the idle duration after which a cursor is considered abandoned,
	// and the minimum retention for entries. Required.
	TTL time.Duration
	// SweepBatch caps deletes per batch during trims. 0 selects DefaultSweepBatch.
	SweepBatch int
}

// Log is an append-only durable log with independently positioned named readers.
type Log struct {
	db         *pebblestore.DB
	ttl        time.Duration
	sweepBatch int

	mu      sync.Mutex
	lastSeq uint64
	cursors map[string]cursor

	notifyCh chan struct{}
}

// Open initializes a Log, restoring lastSeq and cursors from the store.
func Open(db *pebblestore.DB, opts Options) (*Log, error) {
	if opts.TTL <= 0 {
		return nil, errors.New("cursorlog: Options.TTL is required")
	}
	l := &Log{
		db:         db,
		ttl:        opts.TTL,
		sweepBatch: opts.SweepBatch,
		cursors:    map[string]cursor{},
		notifyCh:   make(chan struct{}),
	}
	if l.sweepBatch <= 0 {
		l.sweepBatch = DefaultSweepBatch
	}

	meta, err := db.Get(keyMeta)
	switch {
	case err == nil && len(meta) >= 8:
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	case err == nil:
		return nil, fmt.Errorf("cursorlog: meta record truncated: %w", ErrCorrupt)
	case pebblestore.IsNotFound(err):
		// fresh store
	default:
		return nil, fmt.Errorf("cursorlog: load meta: %w", err)
	}

	if err := l.loadCursors(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Log) loadCursors() error {
	lo, hi := cursorBounds()
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return fmt.Errorf("cursorlog: cursor iterator: %w", err)
	}
	defer iter.Close()
	for ok := iter.First(); ok; ok = iter.Next() {
		c, okDec := decodeCursor(iter.Value())
		if !okDec {
			return fmt.Errorf("cursorlog: cursor %q: %w", LabelFromKey(iter.Key()), ErrCorrupt)
		}
		l.cursors[LabelFromKey(iter.Key())] = c
	}
	return nil
}

// TTL returns the configured cursor/retention TTL.
func (l *Log) TTL() time.Duration {
	return l.ttl
}

// Len returns the number of retained entries.
func (l *Log) Len() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	oldest, ok, err := l.oldestRetainedLocked()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return l.lastSeq - oldest + 1, nil
}

// Add appends items as one atomic batch and returns the assigned sequences.
// nowMs stamps the entries for TTL retention; 0 means wall clock.
func (l *Log) Add(ctx context.Context, items [][]byte, nowMs int64) ([]uint64, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if nowMs <= 0 {
		nowMs = time.Now().UnixMilli()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	seqs := make([]uint64, len(items))
	seq := l.lastSeq
	for i, it := range items {
		seq++
		if err := b.Set(KeyEntry(seq), EncodeEntry(nowMs, it), nil); err != nil {
			return nil, fmt.Errorf("cursorlog: stage entry: %w", err)
		}
		seqs[i] = seq
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(keyMeta, meta[:], nil); err != nil {
		return nil, fmt.Errorf("cursorlog: stage meta: %w", err)
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("cursorlog: commit add: %w", err)
	}

	l.lastSeq = seq
	// wake blocked readers
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return seqs, nil
}

// oldestRetainedLocked returns the sequence of the earliest retained entry.
// ok is false when the log holds no entries.
func (l *Log) oldestRetainedLocked() (seq uint64, ok bool, err error) {
	lo, hi := entryBounds()
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return 0, false, fmt.Errorf("cursorlog: entry iterator: %w", err)
	}
	defer iter.Close()
	if !iter.First() {
		return 0, false, nil
	}
	return SeqFromKey(iter.Key()), true, nil
}
