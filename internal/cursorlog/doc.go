// Package cursorlog implements duraq's multi-cursor (MPMC) durable log.
//
// # Overview
//
// The log is an append-only sequence of entries shared by any number of
// independent named readers. Each reader is identified by a caller-chosen
// label and owns one cursor: the next sequence to deliver plus a
// last-activity timestamp. Keys are lexicographically ordered:
//   - l/m           (meta: lastSeq be8)
//   - l/e/{seq_be8} (entries: ts header | payload | crc32c)
//   - l/c/{label}   (cursors: next seq be8 | last-activity ms be8)
//
// Entries carry their append timestamp in the record header; the TTL sweep
// uses it for retention. A sweep runs lazily at the top of Next and Labels:
// cursors idle longer than the TTL are expired, then entries that are both
// older than the TTL and behind every live cursor are trimmed in batches.
// No live cursor's unread data is ever deleted.
//
// API surface (internal)
//
//	l, _ := cursorlog.Open(db, cursorlog.Options{TTL: time.Hour})
//	seqs, _ := l.Add(ctx, [][]byte{m0, m1}, 0)
//
//	// First use seeds the cursor: StartOldest replays the retained backlog,
//	// StartNewest only sees entries appended after this call.
//	items, hasMore, _ := l.Next(ctx, "worker-1", cursorlog.StartOldest, 100, 0)
//
//	labels, _ := l.Labels(ctx, 0)
//	existed, _ := l.RemoveLabel(ctx, "worker-1")
//
// Operations accept an explicit now-time in milliseconds (0 means wall
// clock) so TTL behavior is deterministic under test.
package cursorlog
