package cursorlog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
)

// Next delivers up to max entries to label, creating its cursor on first use
// per start. It returns the delivered payloads and whether more entries are
// already buffered beyond this batch. A short (possibly empty) batch is
// returned when fewer entries are available; Next never waits.
func (l *Log) Next(ctx context.Context, label string, start StartPosition, max int, nowMs int64) ([][]byte, bool, error) {
	if label == "" {
		return nil, false, ErrInvalidLabel
	}
	if max <= 0 {
		max = 1
	}
	if nowMs <= 0 {
		nowMs = time.Now().UnixMilli()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.sweepLocked(ctx, nowMs); err != nil {
		return nil, false, err
	}

	cur, existed := l.cursors[label]
	if !existed {
		switch start {
		case StartNewest:
			cur = cursor{next: l.lastSeq + 1}
		default:
			oldest, ok, err := l.oldestRetainedLocked()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				oldest = l.lastSeq + 1
			}
			cur = cursor{next: oldest}
		}
	}

	items := make([][]byte, 0, max)
	if cur.next <= l.lastSeq {
		iter, err := l.db.NewIter(&pebble.IterOptions{
			LowerBound: KeyEntry(cur.next),
			UpperBound: KeyEntry(l.lastSeq + 1),
		})
		if err != nil {
			return nil, false, fmt.Errorf("cursorlog: iterator: %w", err)
		}
		for ok := iter.First(); ok && len(items) < max; ok = iter.Next() {
			_, payload, okDec := DecodeEntry(iter.Value())
			if !okDec {
				_ = iter.Close()
				return nil, false, fmt.Errorf("cursorlog: entry seq %d: %w", SeqFromKey(iter.Key()), ErrCorrupt)
			}
			items = append(items, payload)
			cur.next = SeqFromKey(iter.Key()) + 1
		}
		if err := iter.Close(); err != nil {
			return nil, false, fmt.Errorf("cursorlog: iterator close: %w", err)
		}
	}

	cur.lastActive = nowMs
	if err := l.db.Set(KeyCursor(label), encodeCursor(cur)); err != nil {
		return nil, false, fmt.Errorf("cursorlog: persist cursor: %w", err)
	}
	l.cursors[label] = cur

	hasMore := cur.next <= l.lastSeq
	return items, hasMore, nil
}

// Labels returns the live labels, expired cursors excluded.
func (l *Log) Labels(ctx context.Context, nowMs int64) ([]string, error) {
	if nowMs <= 0 {
		nowMs = time.Now().UnixMilli()
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.sweepLocked(ctx, nowMs); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(l.cursors))
	for label := range l.cursors {
		out = append(out, label)
	}
	sort.Strings(out)
	return out, nil
}

// RemoveLabel deletes the cursor for label if present and reports whether one
// existed. Removing an absent label is not an error.
func (l *Log) RemoveLabel(ctx context.Context, label string) (bool, error) {
	if label == "" {
		return false, ErrInvalidLabel
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cursors[label]; !ok {
		return false, nil
	}
	if err := l.db.Delete(KeyCursor(label)); err != nil {
		return false, fmt.Errorf("cursorlog: delete cursor: %w", err)
	}
	delete(l.cursors, label)
	return true, nil
}
