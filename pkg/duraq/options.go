package duraq

import (
	"time"

	pebblestore "github.com/duraq-io/duraq/internal/storage/pebble"
	"github.com/duraq-io/duraq/pkg/log"
)

// FsyncMode controls WAL durability on commits.
type FsyncMode = pebblestore.FsyncMode

const (
	// FsyncAlways syncs the WAL on every committed operation.
	FsyncAlways = pebblestore.FsyncModeAlways
	// FsyncInterval group-commits WAL syncs within FsyncInterval windows.
	FsyncInterval = pebblestore.FsyncModeInterval
	// FsyncNever leaves WAL syncing to the store's own policies.
	FsyncNever = pebblestore.FsyncModeNever
)

// QueueOptions configures OpenQueue.
type QueueOptions struct {
	// MaxElements caps outstanding items. 0 selects the engine default.
	MaxElements uint64
	// MaxBytes optionally caps aggregate outstanding payload bytes.
	MaxBytes int64
	// Fsync selects the WAL sync policy. Zero value syncs every commit.
	Fsync FsyncMode
	// FsyncInterval is the group-commit window for FsyncInterval mode.
	FsyncInterval time.Duration
	// MaxInflight bounds the async worker backlog. 0 selects the default.
	MaxInflight int
	// Logger receives operational logs. nil discards them.
	Logger log.Logger
}

// LogOptions configures OpenLog.
type LogOptions struct {
	// TTL expires idle labels and bounds entry retention. Required.
	TTL time.Duration
	// SweepBatch caps deletions per sweep commit. 0 selects the default.
	SweepBatch int
	// Fsync selects the WAL sync policy. Zero value syncs every commit.
	Fsync FsyncMode
	// FsyncInterval is the group-commit window for FsyncInterval mode.
	FsyncInterval time.Duration
	// MaxInflight bounds the async worker backlog. 0 selects the default.
	MaxInflight int
	// Logger receives operational logs. nil discards them.
	Logger log.Logger
}

// CallOption adjusts a single raw-sync call.
type CallOption func(*callOptions)

type callOptions struct {
	parallel bool
}

// Parallel skips the handle's exclusive execution gate for this call,
// letting I/O-bound calls from multiple goroutines overlap. The result is
// identical to the gated path.
func Parallel() CallOption {
	return func(o *callOptions) { o.parallel = true }
}

func applyCallOptions(opts []CallOption) callOptions {
	var co callOptions
	for _, o := range opts {
		o(&co)
	}
	return co
}

func storageOptions(dir string, mode FsyncMode, interval time.Duration) pebblestore.Options {
	if mode == pebblestore.FsyncModeUnspecified {
		mode = FsyncAlways
	}
	return pebblestore.Options{
		DataDir:       dir,
		Fsync:         mode,
		FsyncInterval: interval,
	}
}
