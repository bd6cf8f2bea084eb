package littlefs

import (
	"bytes"
	"testing"
)

func newTestFS(t *testing.T) *Handle {
	t.Helper()
	dev := newMemDevice(128, 256)
	h, err := Format(dev, WithLookahead(256))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	return h
}

func TestFormatThenConnect(t *testing.T) {
	dev := newMemDevice(128, 256)
	if _, err := Format(dev, WithLookahead(256)); err != nil {
		t.Fatalf("Format: %v", err)
	}
	h2, err := Connect(dev, WithLookahead(256))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if h2.super.BlockCount != 256 {
		t.Fatalf("expected block count 256, got %d", h2.super.BlockCount)
	}
}

func TestSetGetInlineFile(t *testing.T) {
	h := newTestFS(t)
	if err := h.Set("/hello.txt", []byte("hi there")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := h.Get("/hello.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("hi there")) {
		t.Fatalf("got %q, want %q", got, "hi there")
	}
}

func TestSetGetLargeFileUsesCTZ(t *testing.T) {
	h := newTestFS(t)
	content := bytes.Repeat([]byte("x"), 500)
	if err := h.Set("/big.bin", content); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := h.Get("/big.bin")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("round trip mismatch: got %d bytes want %d", len(got), len(content))
	}
}

func TestMkdirAndNestedFile(t *testing.T) {
	h := newTestFS(t)
	if err := h.Mkdir("/sub"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := h.Set("/sub/inner.txt", []byte("nested")); err != nil {
		t.Fatalf("Set nested: %v", err)
	}
	got, err := h.Get("/sub/inner.txt")
	if err != nil {
		t.Fatalf("Get nested: %v", err)
	}
	if string(got) != "nested" {
		t.Fatalf("got %q", got)
	}

	names, err := h.List("/sub")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "inner.txt" {
		t.Fatalf("unexpected listing: %v", names)
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	h := newTestFS(t)
	if err := h.Set("/gone.txt", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.Delete("/gone.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.Get("/gone.txt"); err == nil {
		t.Fatalf("expected ErrNotFound after delete")
	}
}

func TestOverwriteReplacesContent(t *testing.T) {
	h := newTestFS(t)
	if err := h.Set("/f.txt", []byte("first")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.Set("/f.txt", []byte("second")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := h.Get("/f.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("got %q, want %q", got, "second")
	}
}

func TestNameAcrossHardtailChainLastWins(t *testing.T) {
	h := newTestFS(t)

	lowerPair := h.root
	upperA, err := h.alloc.next(h)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	upperB, err := h.alloc.next(h)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	upperPair := BlockPair{upperA, upperB}

	oldEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeName, Chunk: NameChunkReg, ID: 5, Length: 4},
		Data: []byte("dup."),
	}
	oldStruct := Entry{
		Tag:  Tag{Valid: true, Type3: TypeStruct, Chunk: StructInline, ID: 5, Length: 3},
		Data: []byte("old"),
	}
	newEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeName, Chunk: NameChunkReg, ID: 6, Length: 4},
		Data: []byte("dup."),
	}
	newStruct := Entry{
		Tag:  Tag{Valid: true, Type3: TypeStruct, Chunk: StructInline, ID: 6, Length: 3},
		Data: []byte("new"),
	}

	if err := writeFreshCommit(h, upperA, 1, []Entry{newEntry, newStruct}); err != nil {
		t.Fatalf("write upper: %v", err)
	}
	if err := writeFreshCommit(h, upperB, 2, []Entry{newEntry, newStruct}); err != nil {
		t.Fatalf("write upper: %v", err)
	}

	tailData := make([]byte, 8)
	putLeU32(tailData[0:4], upperPair[0])
	putLeU32(tailData[4:8], upperPair[1])
	hardtail := Entry{Tag: Tag{Valid: true, Type3: TypeTail, ID: tailID, Length: 8}, Data: tailData}

	block, curPhys, err := readBlockPair(h, lowerPair)
	if err != nil {
		t.Fatalf("read lower: %v", err)
	}
	live := append(block.compacted(), oldEntry, oldStruct, hardtail)
	target := lowerPair.other(curPhys)
	if err := writeFreshCommit(h, target, block.Revision+1, live); err != nil {
		t.Fatalf("write lower: %v", err)
	}

	de, err := entriesOfName(h, lowerPair, "dup.")
	if err != nil {
		t.Fatalf("entriesOfName: %v", err)
	}
	if de.ID != 6 || string(de.Struct.Data) != "new" {
		t.Fatalf("expected the last block in the hardtail chain to win, got id=%d data=%q", de.ID, de.Struct.Data)
	}
}
