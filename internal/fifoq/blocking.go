package fifoq

import (
	"context"
	"errors"
)

// PushWait appends items, suspending while the queue is full until pops free
// capacity or ctx is done. A batch that can never fit fails immediately with
// ErrQueueFull.
func (q *Queue) PushWait(ctx context.Context, items [][]byte) error {
	if uint64(len(items)) > q.maxElements {
		return ErrQueueFull
	}
	if q.maxBytes > 0 {
		var sum int64
		for _, it := range items {
			sum += int64(len(it))
		}
		if sum > q.maxBytes {
			return ErrQueueFull
		}
	}
	for {
		q.mu.Lock()
		ch := q.notFull
		err := q.pushLocked(ctx, items)
		q.mu.Unlock()
		if !errors.Is(err, ErrQueueFull) {
			return err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// PopWait removes up to max items, suspending while the queue is empty until
// a push arrives or ctx is done. It never waits for a full batch: as soon as
// at least one item is buffered the available prefix is returned.
func (q *Queue) PopWait(ctx context.Context, max int) ([][]byte, error) {
	for {
		q.mu.Lock()
		ch := q.notEmpty
		items, err := q.popLocked(ctx, max)
		q.mu.Unlock()
		if !errors.Is(err, ErrQueueEmpty) {
			return items, err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
