package duraq

import (
	"errors"
	"fmt"

	"github.com/duraq-io/duraq/internal/cursorlog"
	"github.com/duraq-io/duraq/internal/fifoq"
	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
)

var (
	// ErrQueueFull is returned when a push would exceed the queue capacity.
	ErrQueueFull = fifoq.ErrQueueFull
	// ErrQueueEmpty is returned when a pop finds no buffered items.
	ErrQueueEmpty = fifoq.ErrQueueEmpty
	// ErrPathInUse is returned when a store path is already held open.
	ErrPathInUse = pebblestore.ErrPathInUse
	// ErrNotAStore is returned by Remove for paths that are not stores.
	ErrNotAStore = pebblestore.ErrNotAStore
	// ErrNotFound is returned when an operation names an invalid label.
	ErrNotFound = errors.New("duraq: label not found")
	// ErrCorrupt is returned when a stored record fails validation.
	ErrCorrupt = errors.New("duraq: corrupt record")
	// ErrClosed is returned by operations on a closed handle.
	ErrClosed = errors.New("duraq: handle closed")
)

// mapErr rewrites internal corruption sentinels into the public taxonomy.
// Everything else passes through unchanged.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fifoq.ErrCorrupt), errors.Is(err, cursorlog.ErrCorrupt):
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	default:
		return err
	}
}
