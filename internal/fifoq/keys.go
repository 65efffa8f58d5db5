package fifoq

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - q/m            (queue metadata)
// - q/e/{seq_be8}  (entries)

var (
	keyMeta     = []byte("q/m")
	entryPrefix = []byte("q/e/")
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

// entryBounds returns iterator bounds covering every possible entry key.
func entryBounds() (lo, hi []byte) {
	lo = KeyEntry(0)
	hi = append(KeyEntry(^uint64(0)), 0x00)
	return lo, hi
}
