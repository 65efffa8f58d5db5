package cursorlog

import (
	"bytes"
	"testing"
)

func TestEntryRoundtrip(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte(""), []byte("x"), bytes.Repeat([]byte("ab"), 512)} {
		enc := EncodeEntry(1_700_000_000_000, payload)
		ts, got, ok := DecodeEntry(enc)
		if !ok {
			t.Fatalf("decode failed for payload len %d", len(payload))
		}
		if ts != 1_700_000_000_000 {
			t.Fatalf("timestamp: want 1700000000000, got %d", ts)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: %q vs %q", got, payload)
		}
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	enc := EncodeEntry(42, []byte("payload"))
	for i := range enc {
		bad := append([]byte(nil), enc...)
		bad[i] ^= 0x01
		if _, _, ok := DecodeEntry(bad); ok {
			t.Fatalf("flipped byte %d went undetected", i)
		}
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	enc := EncodeEntry(42, []byte("payload"))
	for n := 0; n < len(enc); n++ {
		if _, _, ok := DecodeEntry(enc[:n]); ok {
			t.Fatalf("truncation to %d bytes went undetected", n)
		}
	}
}
