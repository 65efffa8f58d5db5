package cursorlog

import (
	"encoding/binary"
)

// cursor is one label's read position: the next sequence to deliver plus the
// last-activity timestamp driving TTL expiry.
type cursor struct {
	next       uint64
	lastActive int64 // unix ms
}

func encodeCursor(c cursor) []byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], c.next)
	binary.BigEndian.PutUint64(b[8:16], uint64(c.lastActive))
	return b[:]
}

func decodeCursor(b []byte) (cursor, bool) {
	if len(b) < 16 {
		return cursor{}, false
	}
	return cursor{
		next:       binary.BigEndian.Uint64(b[0:8]),
		lastActive: int64(binary.BigEndian.Uint64(b[8:16])),
	}, true
}
