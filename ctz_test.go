package littlefs

import (
	"bytes"
	"testing"
)

func TestCtzTrailingZeros(t *testing.T) {
	cases := map[uint32]int{0: 0, 1: 0, 2: 1, 4: 2, 6: 1, 8: 3}
	for n, want := range cases {
		if got := ctzTrailingZeros(n); got != want {
			t.Errorf("ctzTrailingZeros(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestWriteAndReadCTZRoundTrip(t *testing.T) {
	dev := newMemDevice(64, 64)
	h, err := newHandle(dev, []Option{WithLookahead(64)})
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}
	h.root = BlockPair{0, 1}
	if err := writeFreshCommit(h, 0, 1, nil); err != nil {
		t.Fatalf("seed root: %v", err)
	}
	if err := writeFreshCommit(h, 1, 2, nil); err != nil {
		t.Fatalf("seed root: %v", err)
	}

	content := bytes.Repeat([]byte("0123456789"), 30) // 300 bytes, several blocks at 64B/block

	data, _, err := writeCTZ(h, content)
	if err != nil {
		t.Fatalf("writeCTZ: %v", err)
	}

	got, err := readCTZ(h, data)
	if err != nil {
		t.Fatalf("readCTZ: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(content))
	}
}

func TestLastBlockIndexMonotonic(t *testing.T) {
	blockSize := 64
	var prevIdx uint32
	for size := uint32(1); size < 2000; size += 37 {
		idx, used := lastBlockIndex(size, blockSize)
		if used <= 0 || used > dataCapacity(blockSize, idx) {
			t.Fatalf("size %d: used %d out of range for block %d", size, used, idx)
		}
		if idx < prevIdx {
			t.Fatalf("size %d: index decreased from %d to %d", size, prevIdx, idx)
		}
		prevIdx = idx
	}
}
