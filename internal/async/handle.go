package async

import (
	"context"
)

// Handle carries the eventual result of an operation submitted to a Worker.
type Handle[T any] struct {
	done chan struct{}
	res  T
	err  error
}

// NewHandle returns an unresolved handle.
func NewHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// Resolve completes the handle with a result. It must be called at most
// once, and never after Fail.
func (h *Handle[T]) Resolve(res T) {
	h.res = res
	close(h.done)
}

// Fail completes the handle with an error. It must be called at most once,
// and never after Resolve.
func (h *Handle[T]) Fail(err error) {
	h.err = err
	close(h.done)
}

// Ready reports whether the handle has resolved.
func (h *Handle[T]) Ready() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Get blocks until the handle resolves or ctx is done. After resolution it
// returns the same result on every call.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.res, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryGet returns the result if the handle has resolved. ok is false while
// the operation is still in flight.
func (h *Handle[T]) TryGet() (res T, err error, ok bool) {
	select {
	case <-h.done:
		return h.res, h.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Done returns a channel closed when the handle resolves.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}
