package cursorlog

import (
	"bytes"
	"testing"
)

func TestEntryKeysSortBySequence(t *testing.T) {
	prev := KeyEntry(0)
	for _, seq := range []uint64{1, 2, 255, 256, 1 << 32, ^uint64(0)} {
		k := KeyEntry(seq)
		if bytes.Compare(prev, k) >= 0 {
			t.Fatalf("key ordering broken at seq %d", seq)
		}
		if got := SeqFromKey(k); got != seq {
			t.Fatalf("roundtrip: want %d, got %d", seq, got)
		}
		prev = k
	}
}

func TestEntryBoundsCoverAllSequences(t *testing.T) {
	lo, hi := entryBounds()
	for _, seq := range []uint64{0, 1, ^uint64(0)} {
		k := KeyEntry(seq)
		if bytes.Compare(k, lo) < 0 || bytes.Compare(k, hi) >= 0 {
			t.Fatalf("seq %d outside bounds", seq)
		}
	}
	if bytes.Compare(keyMeta, lo) >= 0 && bytes.Compare(keyMeta, hi) < 0 {
		t.Fatalf("meta key inside entry bounds")
	}
}

func TestCursorKeyRoundtrip(t *testing.T) {
	for _, label := range []string{"a", "consumer-1", "with/slash", "\xff", "\xffbinary"} {
		k := KeyCursor(label)
		if got := LabelFromKey(k); got != label {
			t.Fatalf("roundtrip %q: got %q", label, got)
		}
		lo, hi := cursorBounds()
		if bytes.Compare(k, lo) < 0 || bytes.Compare(k, hi) >= 0 {
			t.Fatalf("cursor key for %q outside bounds", label)
		}
	}
}

func TestCursorBoundsExcludeEntries(t *testing.T) {
	lo, hi := cursorBounds()
	k := KeyEntry(1)
	if bytes.Compare(k, lo) >= 0 && bytes.Compare(k, hi) < 0 {
		t.Fatalf("entry key inside cursor bounds")
	}
	if bytes.Compare(keyMeta, lo) >= 0 && bytes.Compare(keyMeta, hi) < 0 {
		t.Fatalf("meta key inside cursor bounds")
	}
}
