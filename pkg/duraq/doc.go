// Package duraq is the public API of the duraq queue engine: durable,
// disk-resident queues backed by Pebble.
//
// Two containers are provided. Queue is a capacity-bounded FIFO where each
// item is consumed once. Log is a multi-cursor append log where independent
// named labels each read the full stream at their own pace, with TTL-based
// expiry of abandoned labels and aged-out entries.
//
// # Access modes
//
// Every operation is available in three shapes:
//
//   - Raw sync: Push/Pop, Add/Next/Labels/RemoveLabel. Calls on one handle
//     are serialized through an exclusive gate; passing the Parallel()
//     option skips the gate so I/O-bound calls from multiple goroutines
//     can overlap. Results are identical either way.
//   - Blocking: PushWait/PopWait/NextWait suspend until the full/empty
//     condition clears, the context is done, or the handle is closed.
//   - Non-blocking: PushAsync and friends submit the operation to a
//     per-handle worker goroutine and return a handle immediately; the
//     worker applies operations in submission order.
//
// # Durability
//
// All mutations are committed to the store before returning, under the
// configured fsync mode. A process crash after a successful return never
// loses the operation; a crash mid-operation never applies it partially.
package duraq
