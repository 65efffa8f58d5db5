package cursorlog

import (
	"encoding/binary"
	"hash/crc32"
)

// Entry encoding: varint headerLen | header | payload | crc32c(header|payload).
// The header is the append timestamp in milliseconds (8 bytes big-endian).

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func EncodeEntry(tsMs int64, payload []byte) []byte {
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(tsMs))

	out := make([]byte, 0, 1+8+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header[:]...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

func DecodeEntry(b []byte) (tsMs int64, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return 0, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen != 8 {
		return 0, nil, false
	}
	if n+int(hlen)+4 > len(b) {
		return 0, nil, false
	}
	header := b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return 0, nil, false
	}
	tsMs = int64(binary.BigEndian.Uint64(header))
	return tsMs, append([]byte(nil), payload...), true
}
