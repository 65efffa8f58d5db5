package cursorlog

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - l/m            (log metadata)
// - l/e/{seq_be8}  (entries)
// - l/c/{label}    (cursors)

var (
	keyMeta      = []byte("l/m")
	entryPrefix  = []byte("l/e/")
	cursorPrefix = []byte("l/c/")
)

// KeyEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return append(k, b[:]...)
}

// SeqFromKey extracts the sequence number from an entry key.
func SeqFromKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(k)-8:])
}

// KeyCursor builds the durable cursor key for a label.
func KeyCursor(label string) []byte {
	k := make([]byte, 0, len(cursorPrefix)+len(label))
	k = append(k, cursorPrefix...)
	return append(k, label...)
}

// LabelFromKey recovers the label from a cursor key.
func LabelFromKey(k []byte) string {
	return string(k[len(cursorPrefix):])
}

// entryBounds returns iterator bounds covering every possible entry key.
func entryBounds() (lo, hi []byte) {
	lo = KeyEntry(0)
	hi = append(KeyEntry(^uint64(0)), 0x00)
	return lo, hi
}

// cursorBounds returns iterator bounds covering every possible cursor key.
// The upper bound is the prefix successor: labels are unrestricted byte
// strings, so no sentinel byte appended to the prefix could sort above all
// of them.
func cursorBounds() (lo, hi []byte) {
	lo = append([]byte(nil), cursorPrefix...)
	hi = append([]byte(nil), cursorPrefix...)
	hi[len(hi)-1]++
	return lo, hi
}
