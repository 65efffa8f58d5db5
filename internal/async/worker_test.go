package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestWorkerRunsInSubmissionOrder(t *testing.T) {
	w := NewWorker(8)
	defer w.Close()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		task := func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 4 {
				close(done)
			}
		}
		if err := w.Submit(task); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("tasks did not finish")
	}
	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestWorkerSubmitAfterClose(t *testing.T) {
	w := NewWorker(1)
	w.Close()
	if err := w.Submit(func() {}); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("want ErrWorkerClosed, got %v", err)
	}
}

func TestWorkerCloseDrainsBacklog(t *testing.T) {
	w := NewWorker(16)
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		if err := w.Submit(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	w.Close()
	mu.Lock()
	defer mu.Unlock()
	if ran != 10 {
		t.Fatalf("backlog not drained: ran %d of 10", ran)
	}
}

func TestWorkerCloseIdempotent(t *testing.T) {
	w := NewWorker(1)
	w.Close()
	w.Close()
}

func TestHandleResolve(t *testing.T) {
	h := NewHandle[int]()
	if h.Ready() {
		t.Fatalf("fresh handle reported ready")
	}
	if _, _, ok := h.TryGet(); ok {
		t.Fatalf("TryGet succeeded before resolution")
	}

	h.Resolve(42)
	if !h.Ready() {
		t.Fatalf("resolved handle not ready")
	}
	// repeat reads return the same result
	for i := 0; i < 2; i++ {
		v, err := h.Get(context.Background())
		if err != nil || v != 42 {
			t.Fatalf("get: v=%d err=%v", v, err)
		}
	}
	v, err, ok := h.TryGet()
	if !ok || err != nil || v != 42 {
		t.Fatalf("tryget: v=%d err=%v ok=%v", v, err, ok)
	}
}

func TestHandleFail(t *testing.T) {
	sentinel := errors.New("boom")
	h := NewHandle[int]()
	h.Fail(sentinel)
	if _, err := h.Get(context.Background()); !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel error, got %v", err)
	}
}

func TestHandleGetHonorsContext(t *testing.T) {
	h := NewHandle[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := h.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestHandleResolvedByWorker(t *testing.T) {
	w := NewWorker(4)
	defer w.Close()

	h := NewHandle[string]()
	if err := w.Submit(func() { h.Resolve("ok") }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v, err := h.Get(context.Background())
	if err != nil || v != "ok" {
		t.Fatalf("get: v=%q err=%v", v, err)
	}
}
