// Package fifoq implements duraq's capacity-bounded durable FIFO queue.
//
// # Overview
//
// A queue owns a contiguous range of entries in Pebble between head (oldest
// unread) and tail (next write position). Keys are lexicographically ordered
// for efficient range scans:
//   - q/m           (meta: head | tail | payload bytes, all be8)
//   - q/e/{seq_be8} (entries: payload | crc32c)
//
// Sequence numbers start at 1, are gapless and are never reused, so FIFO
// order is stable across restarts. The meta record is committed in the same
// batch as the entries it describes; no position is held in memory only.
//
// API surface (internal)
//
//	q, _ := fifoq.Open(db, fifoq.Options{MaxElements: 1000})
//	// All-or-nothing batch admission against the capacity bound
//	err := q.Push(ctx, [][]byte{a, b})      // ErrQueueFull when over capacity
//	items, err := q.Pop(ctx, 4)             // ErrQueueEmpty when nothing buffered
//
//	// Blocking variants ride the queue's notify channels
//	err = q.PushWait(ctx, [][]byte{c})
//	items, err = q.PopWait(ctx, 1)
//
// Pop deletes the consumed range in the same batch that advances head, so a
// crash can never resurface delivered items.
package fifoq
