package cursorlog

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// Sweep expires cursors idle longer than the TTL, then trims entries that
// are both older than the TTL and behind every live cursor. It runs lazily
// at the top of Next and Labels; calling it directly is also safe.
func (l *Log) Sweep(ctx context.Context, nowMs int64) error {
	if nowMs <= 0 {
		nowMs = time.Now().UnixMilli()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(ctx, nowMs)
}

func (l *Log) sweepLocked(ctx context.Context, nowMs int64) error {
	cutoff := nowMs - l.ttl.Milliseconds()

	if err := l.expireCursorsLocked(ctx, cutoff); err != nil {
		return err
	}
	return l.trimLocked(ctx, cutoff)
}

// expireCursorsLocked removes cursors whose last activity predates cutoff.
func (l *Log) expireCursorsLocked(ctx context.Context, cutoff int64) error {
	var expired []string
	for label, c := range l.cursors {
		if c.lastActive < cutoff {
			expired = append(expired, label)
		}
	}
	if len(expired) == 0 {
		return nil
	}

	b := l.db.NewBatch()
	defer b.Close()
	for _, label := range expired {
		if err := b.Delete(KeyCursor(label), nil); err != nil {
			return fmt.Errorf("cursorlog: stage cursor expiry: %w", err)
		}
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("cursorlog: commit cursor expiry: %w", err)
	}
	for _, label := range expired {
		delete(l.cursors, label)
	}
	return nil
}

// trimLocked deletes entries older than cutoff that no live cursor still
// needs. Deletes are committed in batches of up to sweepBatch keys.
func (l *Log) trimLocked(ctx context.Context, cutoff int64) error {
	// floor: lowest unread position across live cursors; with no cursors the
	// TTL alone bounds retention.
	floor := l.lastSeq + 1
	for _, c := range l.cursors {
		if c.next < floor {
			floor = c.next
		}
	}

	lo, hi := entryBounds()
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return fmt.Errorf("cursorlog: trim iterator: %w", err)
	}
	defer iter.Close()

	for ok := iter.First(); ok; {
		b := l.db.NewBatch()
		n := 0
		for ok && n < l.sweepBatch {
			seq := SeqFromKey(iter.Key())
			if seq >= floor {
				ok = false
				break
			}
			ts, _, okDec := DecodeEntry(iter.Value())
			if !okDec {
				b.Close()
				return fmt.Errorf("cursorlog: entry seq %d: %w", seq, ErrCorrupt)
			}
			// entries are appended in time order; stop at the first young one
			if ts >= cutoff {
				ok = false
				break
			}
			if err := b.Delete(iter.Key(), nil); err != nil {
				b.Close()
				return fmt.Errorf("cursorlog: stage trim: %w", err)
			}
			n++
			ok = iter.Next()
		}
		if n == 0 {
			b.Close()
			break
		}
		if err := l.db.CommitBatch(ctx, b); err != nil {
			b.Close()
			return fmt.Errorf("cursorlog: commit trim: %w", err)
		}
		b.Close()
	}
	return nil
}
