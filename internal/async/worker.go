package async

import (
	"errors"
	"sync"
)

// ErrWorkerClosed is returned by Submit after Close.
var ErrWorkerClosed = errors.New("async: worker closed")

// DefaultMaxInflight bounds the backlog when no limit is configured.
const DefaultMaxInflight = 1024

// Worker executes submitted operations on a single goroutine, in
// submission order. Operations are plain closures; each is expected to
// resolve its own Handle.
type Worker struct {
	tasks chan func()

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWorker starts a worker with a backlog of maxInflight pending
// operations. maxInflight <= 0 selects DefaultMaxInflight.
func NewWorker(maxInflight int) *Worker {
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}
	w := &Worker{tasks: make(chan func(), maxInflight)}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *Worker) run() {
	defer w.wg.Done()
	for task := range w.tasks {
		task()
	}
}

// Submit queues an operation. It blocks while the backlog is full and
// returns ErrWorkerClosed after Close.
func (w *Worker) Submit(task func()) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkerClosed
	}
	// holding the lock while sending keeps Close from racing the send on a
	// closed channel
	defer w.mu.Unlock()
	w.tasks <- task
	return nil
}

// Close stops accepting submissions, drains the backlog, and waits for the
// in-flight operation to finish.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.tasks)
	w.mu.Unlock()
	w.wg.Wait()
}
