package cursorlog

import (
	"context"
	"reflect"
	"testing"
	"time"
)

const minute = int64(60_000)

func TestIdleCursorExpires(t *testing.T) {
	l := newTestLog(t, time.Minute)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	if _, err := l.Add(ctx, [][]byte{[]byte("a")}, base); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := l.Next(ctx, "idle", StartOldest, 1, base); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, _, err := l.Next(ctx, "busy", StartOldest, 1, base); err != nil {
		t.Fatalf("next: %v", err)
	}

	// keep one label active past the other's TTL
	if _, _, err := l.Next(ctx, "busy", StartOldest, 1, base+minute); err != nil {
		t.Fatalf("next: %v", err)
	}

	labels, err := l.Labels(ctx, base+2*minute)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"busy"}) {
		t.Fatalf("expected only busy to survive, got %v", labels)
	}
}

func TestExpiredLabelReseedsAsFirstUse(t *testing.T) {
	l := newTestLog(t, time.Minute)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	if _, err := l.Add(ctx, [][]byte{[]byte("a")}, base); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := l.Next(ctx, "L1", StartOldest, 1, base); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := l.Add(ctx, [][]byte{[]byte("c")}, base+2*minute); err != nil {
		t.Fatalf("add: %v", err)
	}

	// the label expired, so the Newest start position applies again. A
	// surviving cursor would have resumed and returned the backlog.
	items, hasMore, err := l.Next(ctx, "L1", StartNewest, 1, base+2*minute)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(items) != 0 || hasMore {
		t.Fatalf("expired label did not reseed: %q hasMore=%v", items, hasMore)
	}

	if _, err := l.Add(ctx, [][]byte{[]byte("d")}, base+2*minute); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, _, err = l.Next(ctx, "L1", StartNewest, 1, base+2*minute)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !reflect.DeepEqual(strs(items), []string{"d"}) {
		t.Fatalf("expected tail entry after reseed, got %q", items)
	}
}

func TestTrimKeepsLiveCursorData(t *testing.T) {
	l := newTestLog(t, time.Minute)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	if _, err := l.Add(ctx, [][]byte{[]byte("a"), []byte("b")}, base); err != nil {
		t.Fatalf("add: %v", err)
	}
	// the cursor's last read lands inside the TTL window while the entries
	// themselves age past it
	if _, _, err := l.Next(ctx, "slow", StartOldest, 1, base+minute-1); err != nil {
		t.Fatalf("next: %v", err)
	}

	if err := l.Sweep(ctx, base+minute+1); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	n, err := l.Len()
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 1 {
		t.Fatalf("len after sweep: want 1, got %d", n)
	}
	// entry "b" is old but unread by the live cursor; it must survive
	items, _, err := l.Next(ctx, "slow", StartOldest, 1, base+minute+1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !reflect.DeepEqual(strs(items), []string{"b"}) {
		t.Fatalf("live cursor data was trimmed, got %q", items)
	}
}

func TestTrimWithoutCursorsUsesTTL(t *testing.T) {
	l := newTestLog(t, time.Minute)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	if _, err := l.Add(ctx, [][]byte{[]byte("old")}, base); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add(ctx, [][]byte{[]byte("young")}, base+minute); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := l.Sweep(ctx, base+minute+1); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// "old" aged out; a fresh Oldest reader starts at "young"
	items, _, err := l.Next(ctx, "L1", StartOldest, 2, base+minute+1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !reflect.DeepEqual(strs(items), []string{"young"}) {
		t.Fatalf("expected TTL trim of old entry, got %q", items)
	}
	n, err := l.Len()
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 1 {
		t.Fatalf("len after trim: want 1, got %d", n)
	}
}

func TestReadBehindCursorsAreRetainedUntilTTL(t *testing.T) {
	l := newTestLog(t, time.Minute)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	if _, err := l.Add(ctx, [][]byte{[]byte("a")}, base); err != nil {
		t.Fatalf("add: %v", err)
	}
	// fully drained by one label
	if _, _, err := l.Next(ctx, "L1", StartOldest, 1, base); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := l.Sweep(ctx, base+1); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// within the TTL the entry is still retained: a new Oldest reader sees it
	items, _, err := l.Next(ctx, "L2", StartOldest, 1, base+1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !reflect.DeepEqual(strs(items), []string{"a"}) {
		t.Fatalf("expected retained replay, got %q", items)
	}
}
