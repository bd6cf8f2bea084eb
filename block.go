package littlefs

import (
	"encoding/binary"
	"fmt"
)

// Block is the decoded, in-memory form of one physical metadata block: a
// revision count followed by zero or more commits, each commit's entries
// appended onto the ones before it. Compaction (see entry.go) is applied on
// demand by callers, not eagerly, so callers can inspect the raw commit
// history when they need it.
type Block struct {
	Revision uint32
	Entries  []Entry

	lastTagRaw uint32 // xor chain state to continue appending
	crcSeed    uint32 // crc chain state to continue appending
	used       int    // bytes occupied by revision count + commits so far
}

// readBlockContents decodes the metadata block stored at blockNum. It reads
// the 4-byte revision count, then parses commits back to back until parsing
// fails or the remaining bytes are exhausted; a failure after at least one
// successful commit is treated as "rest of block unwritten/erased", not
// corruption, since the bytes past the last commit are whatever the erase
// left behind.
func readBlockContents(dev BlockDevice, blockNum uint32) (*Block, error) {
	raw, err := readFullBlock(dev, blockNum)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: block shorter than revision count", ErrCorrupt)
	}

	b := &Block{Revision: binary.LittleEndian.Uint32(raw[:4])}
	offset := 4
	startXor := startingXorTag
	crcSeed := crcUpdate(0, raw[:4])

	for {
		// Commits are padded to a 4-byte boundary (see writeFreshCommit).
		entries, consumed, lastRaw, perr := parseCommit(raw[offset:], startXor, crcSeed, 4)
		if perr != nil {
			if offset == 4 {
				return nil, fmt.Errorf("block %d: %w", blockNum, perr)
			}
			break
		}
		b.Entries = append(b.Entries, entries...)
		offset += consumed
		startXor = lastRaw
		crcSeed = 0 // the crc chain resets to the default seed between commits
		b.lastTagRaw = lastRaw
		b.used = offset
		if offset >= len(raw) {
			break
		}
	}

	return b, nil
}

// compacted returns the block's live entries after applying the splice/slot
// reduction described in entry.go.
func (b *Block) compacted() []Entry {
	return compactEntries(b.Entries)
}

// maxID returns the highest id currently assigned in the block.
func (b *Block) maxID() uint16 {
	return maxID(b.Entries)
}

// hardtail reports the block pair this block's hardtail (TAIL) entry points
// to, if any. A hardtail links metadata-pair overflow: when a directory's
// entries no longer fit in one pair, the newest entries move to a freshly
// allocated pair and a hardtail entry in the old pair links forward to it.
func (b *Block) hardtail() (BlockPair, bool) {
	for _, e := range b.compacted() {
		if e.Tag.IsHardtail() && len(e.Data) == 8 {
			return BlockPair{
				binary.LittleEndian.Uint32(e.Data[0:4]),
				binary.LittleEndian.Uint32(e.Data[4:8]),
			}, true
		}
	}
	return BlockPair{}, false
}

// referencedDataBlocks extracts the physical block numbers this metadata
// block's live struct entries point directly at: directory pointers and CTZ
// head blocks. Used by the mark phase of traversal (traverse.go) to find
// every block in use without walking file contents.
func (b *Block) referencedDataBlocks() []uint32 {
	var out []uint32
	for _, e := range b.compacted() {
		switch {
		case e.Tag.IsStruct(StructDir) && len(e.Data) >= 8:
			out = append(out,
				binary.LittleEndian.Uint32(e.Data[0:4]),
				binary.LittleEndian.Uint32(e.Data[4:8]))
		case e.Tag.IsStruct(StructCTZ) && len(e.Data) >= 4:
			out = append(out, binary.LittleEndian.Uint32(e.Data[0:4]))
		}
	}
	return out
}

