package littlefs

import (
	"fmt"
	"testing"
)

func TestBuildValueEntryChoosesStructByThreshold(t *testing.T) {
	dev := newMemDevice(128, 64)
	h, err := Format(dev, WithLookahead(64))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	threshold := dev.BlockSize() / inlineThresholdDivisor
	inline, err := buildValueEntry(h, 1, make([]byte, threshold))
	if err != nil {
		t.Fatalf("buildValueEntry inline: %v", err)
	}
	if inline.Tag.Chunk != StructInline {
		t.Fatalf("expected inline struct at threshold, got chunk %d", inline.Tag.Chunk)
	}

	ctz, err := buildValueEntry(h, 2, make([]byte, threshold+1))
	if err != nil {
		t.Fatalf("buildValueEntry ctz: %v", err)
	}
	if ctz.Tag.Chunk != StructCTZ {
		t.Fatalf("expected CTZ struct past threshold, got chunk %d", ctz.Tag.Chunk)
	}
}

// TestCommitToDirSplitsWhenFull grows a directory past its metadata block's
// capacity and checks that commitToDir delegates to splitDir: the root pair
// gains a hardtail, and every name originally written is still reachable
// through the chain.
func TestCommitToDirSplitsWhenFull(t *testing.T) {
	dev := newMemDevice(128, 512)
	h, err := Format(dev, WithLookahead(512))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	const n = 40
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("/f%02d.txt", i)
		if err := h.Set(name, []byte("x")); err != nil {
			t.Fatalf("Set %s: %v", name, err)
		}
	}

	block, _, err := readBlockPair(h, h.root)
	if err != nil {
		t.Fatalf("readBlockPair: %v", err)
	}
	if _, ok := block.hardtail(); !ok {
		t.Fatalf("expected root pair to have split into a hardtail chain")
	}

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("/f%02d.txt", i)
		got, err := h.Get(name)
		if err != nil {
			t.Fatalf("Get %s after split: %v", name, err)
		}
		if string(got) != "x" {
			t.Fatalf("Get %s after split: got %q", name, got)
		}
	}
}

func TestSplitDirRejectsSingleIDTooLarge(t *testing.T) {
	dev := newMemDevice(64, 16)
	h, err := Format(dev, WithLookahead(16))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	pair := h.root
	oversized := []Entry{{
		Tag:  Tag{Valid: true, Type3: TypeStruct, Chunk: StructInline, ID: superblockID, Length: uint16(dev.BlockSize())},
		Data: make([]byte, dev.BlockSize()),
	}}
	if err := splitDir(h, &pair, oversized); err == nil {
		t.Fatalf("expected ErrNoSpace for a single id that cannot be split")
	}
}
