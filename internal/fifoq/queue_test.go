package fifoq

import (
	"bytes"
	"context"
	"errors"
	"testing"

	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
)

func newTestQueue(t *testing.T, opts Options) *Queue {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	q, err := Open(db, opts)
	if err != nil {
		t.Fatalf("open queue: %v", err)
	}
	return q
}

func TestPushPopOrder(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 10})
	ctx := context.Background()

	if err := q.Push(ctx, [][]byte{[]byte("a"), []byte("b")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("c")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := q.Len(); got != 3 {
		t.Fatalf("len: want 3, got %d", got)
	}

	items, err := q.Pop(ctx, 2)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if len(items) != 2 || !bytes.Equal(items[0], []byte("a")) || !bytes.Equal(items[1], []byte("b")) {
		t.Fatalf("unexpected items: %q", items)
	}

	items, err = q.Pop(ctx, 5)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if len(items) != 1 || !bytes.Equal(items[0], []byte("c")) {
		t.Fatalf("expected short batch [c], got %q", items)
	}
	if !q.IsEmpty() {
		t.Fatalf("expected empty queue")
	}
}

func TestPopEmpty(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 4})
	if _, err := q.Pop(context.Background(), 1); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("want ErrQueueEmpty, got %v", err)
	}
}

func TestCapacityRejectsWholeBatch(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 2})
	ctx := context.Background()

	if err := q.Push(ctx, [][]byte{[]byte("a")}); err != nil {
		t.Fatalf("push a: %v", err)
	}
	// two more would exceed capacity; nothing from the batch may land
	if err := q.Push(ctx, [][]byte{[]byte("b"), []byte("c")}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
	if got := q.Len(); got != 1 {
		t.Fatalf("partial admission: len %d", got)
	}

	if err := q.Push(ctx, [][]byte{[]byte("b")}); err != nil {
		t.Fatalf("push b: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("c")}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull at capacity, got %v", err)
	}

	// a pop frees space for the rejected item
	if _, err := q.Pop(ctx, 1); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("c")}); err != nil {
		t.Fatalf("push after pop: %v", err)
	}
}

func TestByteBudget(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 100, MaxBytes: 10})
	ctx := context.Background()

	if err := q.Push(ctx, [][]byte{[]byte("0123456")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("89ab")}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull on byte budget, got %v", err)
	}
	if _, err := q.Pop(ctx, 1); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("89ab")}); err != nil {
		t.Fatalf("push after pop: %v", err)
	}
	if got := q.PayloadBytes(); got != 4 {
		t.Fatalf("payload bytes: want 4, got %d", got)
	}
}

func TestDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	q, err := Open(db, Options{MaxElements: 10})
	if err != nil {
		t.Fatalf("open queue: %v", err)
	}
	if err := q.Push(ctx, [][]byte{[]byte("x"), []byte("y"), []byte("z")}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := q.Pop(ctx, 1); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	q2, err := Open(db2, Options{MaxElements: 10})
	if err != nil {
		t.Fatalf("reopen queue: %v", err)
	}
	if got := q2.Len(); got != 2 {
		t.Fatalf("len after reopen: want 2, got %d", got)
	}
	items, err := q2.Pop(ctx, 2)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if !bytes.Equal(items[0], []byte("y")) || !bytes.Equal(items[1], []byte("z")) {
		t.Fatalf("popped items out of order after reopen: %q", items)
	}
}

func TestSequencesNotReusedAfterDrain(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 4})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := q.Push(ctx, [][]byte{{byte(i)}}); err != nil {
			t.Fatalf("push: %v", err)
		}
		if _, err := q.Pop(ctx, 1); err != nil {
			t.Fatalf("pop: %v", err)
		}
	}
	q.mu.Lock()
	head, tail := q.head, q.tail
	q.mu.Unlock()
	if head != tail || tail != 4 {
		t.Fatalf("expected head=tail=4 after three cycles, got head=%d tail=%d", head, tail)
	}
}

func TestEmptyPushIsNoop(t *testing.T) {
	q := newTestQueue(t, Options{MaxElements: 1})
	if err := q.Push(context.Background(), nil); err != nil {
		t.Fatalf("empty push: %v", err)
	}
	if !q.IsEmpty() {
		t.Fatalf("expected empty queue")
	}
}
