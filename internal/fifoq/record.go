package fifoq

import (
	"encoding/binary"
	"hash/crc32"
)

// Entry encoding: payload | crc32c(payload)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func EncodeEntry(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+4)
	out = append(out, payload...)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc32.Checksum(payload, castagnoli))
	return append(out, crcb[:]...)
}

func DecodeEntry(b []byte) ([]byte, bool) {
	if len(b) < 4 {
		return nil, false
	}
	payload := b[:len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.Checksum(payload, castagnoli) != expect {
		return nil, false
	}
	return append([]byte(nil), payload...), true
}
