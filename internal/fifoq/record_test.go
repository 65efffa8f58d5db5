package fifoq

import (
	"bytes"
	"testing"
)

func TestEntryRoundTrip(t *testing.T) {
	enc := EncodeEntry([]byte("payload"))
	got, ok := DecodeEntry(enc)
	if !ok || !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("round trip failed: %q ok=%v", got, ok)
	}
}

func TestEntryChecksumDetectsCorruption(t *testing.T) {
	enc := EncodeEntry([]byte("payload"))
	enc[0] ^= 0xFF
	if _, ok := DecodeEntry(enc); ok {
		t.Fatalf("expected checksum failure")
	}
	if _, ok := DecodeEntry([]byte{1, 2}); ok {
		t.Fatalf("expected short entry rejection")
	}
}
