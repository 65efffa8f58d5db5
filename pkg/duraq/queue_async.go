package duraq

import (
	"context"

	"github.com/duraq-io/duraq/internal/async"
)

// PushHandle resolves once an async push has been applied.
type PushHandle = async.Handle[struct{}]

// PopHandle resolves to the popped items of an async pop.
type PopHandle = async.Handle[[][]byte]

// PushAsync submits a push to the queue's worker and returns immediately.
// The handle fails with ErrClosed when the queue closed before the push
// could be submitted, and with ErrQueueFull when capacity was exceeded at
// execution time.
func (q *Queue) PushAsync(ctx context.Context, items [][]byte) *PushHandle {
	h := async.NewHandle[struct{}]()
	err := q.worker.Submit(func() {
		if err := q.q.Push(ctx, items); err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(struct{}{})
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}

// PopAsync submits a pop to the queue's worker and returns immediately.
func (q *Queue) PopAsync(ctx context.Context, max int) *PopHandle {
	h := async.NewHandle[[][]byte]()
	err := q.worker.Submit(func() {
		items, err := q.q.Pop(ctx, max)
		if err != nil {
			h.Fail(mapErr(err))
			return
		}
		h.Resolve(items)
	})
	if err != nil {
		h.Fail(ErrClosed)
	}
	return h
}
