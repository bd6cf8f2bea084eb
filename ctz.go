package littlefs

import (
	"fmt"
	"math/bits"
)

// ctzTrailingZeros counts the trailing zero bits of n, giving the CTZ
// skip-list its name: block n (n >= 1) carries ctzTrailingZeros(n)+1
// pointers to earlier blocks, so the list can be walked in O(log n) hops
// instead of O(n).
func ctzTrailingZeros(n uint32) int {
	if n == 0 {
		return 0
	}
	return bits.TrailingZeros32(n)
}

func pointerCount(index uint32) int {
	if index == 0 {
		return 0
	}
	return ctzTrailingZeros(index) + 1
}

func dataCapacity(blockSize int, index uint32) int {
	return blockSize - 4*pointerCount(index)
}

// lastBlockIndex simulates filling the skip list one block at a time and
// returns the logical index of the block holding the final byte of a file
// of the given size, along with the number of data bytes used in that
// block. A closed-form exists in the reference implementation; simulating
// it here trades a few extra iterations for a version that is obviously
// correct against dataCapacity's definition.
func lastBlockIndex(fileSize uint32, blockSize int) (index uint32, used int) {
	if fileSize == 0 {
		return 0, 0
	}
	var cum uint32
	var n uint32
	for {
		cap := dataCapacity(blockSize, n)
		if cap <= 0 {
			panic("littlefs: block size too small to hold ctz headers")
		}
		if cum+uint32(cap) >= fileSize {
			return n, int(fileSize - cum)
		}
		cum += uint32(cap)
		n++
	}
}

// ctzPointerTargets returns the logical indices that block index's header
// points to, in order (pointer 0 first). Index n (divisible by 2^ctz(n))
// can validly point back to n-2^i for every i up to ctz(n).
func ctzPointerTargets(index uint32) []uint32 {
	count := pointerCount(index)
	targets := make([]uint32, count)
	for i := 0; i < count; i++ {
		targets[i] = index - (1 << uint(i))
	}
	return targets
}

// ctzChain walks a CTZ skip list backward from its head (the physical block
// holding the highest logical index) down to logical index 0, returning the
// physical block numbers in forward (logical) order. Only pointer 0 is
// followed — sufficient for a full sequential read; the remaining pointers
// in each header exist purely for future O(log n) seeking and are otherwise
// unused here.
func ctzChain(dev BlockDevice, headPhysical uint32, fileSize uint32) ([]uint32, error) {
	lastIdx, _ := lastBlockIndex(fileSize, dev.BlockSize())

	chain := make([]uint32, lastIdx+1)
	phys := headPhysical
	idx := lastIdx
	for {
		chain[idx] = phys
		if idx == 0 {
			break
		}
		count := pointerCount(idx)
		header, err := readBlock(dev, phys, 0, 4*count)
		if err != nil {
			return nil, fmt.Errorf("ctz chain at logical block %d: %w", idx, err)
		}
		phys = leU32(header[0:4])
		idx--
	}
	return chain, nil
}

// ctzBlockList is ctzChain with the struct-entry payload (head block number
// + file size, both little-endian uint32) as input, for callers that only
// have the raw STRUCT entry bytes (traverse.go).
func ctzBlockList(h *Handle, data []byte) ([]uint32, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: short ctz struct", ErrCorrupt)
	}
	head := leU32(data[0:4])
	size := leU32(data[4:8])
	return ctzChain(h.dev, head, size)
}

// readCTZ reads the full contents of a CTZ file given its struct payload.
func readCTZ(h *Handle, data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: short ctz struct", ErrCorrupt)
	}
	head := leU32(data[0:4])
	size := leU32(data[4:8])
	if size == 0 {
		return nil, nil
	}

	chain, err := ctzChain(h.dev, head, size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, size)
	for idx, phys := range chain {
		count := pointerCount(uint32(idx))
		headerLen := 4 * count
		capNow := dataCapacity(h.dev.BlockSize(), uint32(idx))
		want := capNow
		if remaining := int(size) - len(out); remaining < want {
			want = remaining
		}
		buf, err := readBlock(h.dev, phys, headerLen, want)
		if err != nil {
			return nil, fmt.Errorf("read ctz block %d (logical %d): %w", phys, idx, err)
		}
		out = append(out, buf...)
	}
	return out, nil
}

// writeCTZ programs the given content as a new CTZ skip list, allocating one
// physical block per logical block. It returns the struct payload (head
// block + size) to store in the owning directory entry.
func writeCTZ(h *Handle, content []byte) (data []byte, blocks []uint32, err error) {
	blockSize := h.dev.BlockSize()
	size := uint32(len(content))
	if size == 0 {
		return make([]byte, 8), nil, nil
	}

	lastIdx, _ := lastBlockIndex(size, blockSize)
	physByIdx := make([]uint32, lastIdx+1)

	var written int
	for idx := uint32(0); idx <= lastIdx; idx++ {
		blockNum, aerr := h.alloc.next(h)
		if aerr != nil {
			return nil, nil, aerr
		}
		physByIdx[idx] = blockNum

		count := pointerCount(idx)
		header := make([]byte, 4*count)
		for i, target := range ctzPointerTargets(idx) {
			putLeU32(header[4*i:4*i+4], physByIdx[target])
		}

		capNow := dataCapacity(blockSize, idx)
		end := written + capNow
		if end > len(content) {
			end = len(content)
		}
		chunk := content[written:end]
		written = end

		if err := h.dev.Erase(blockNum); err != nil {
			return nil, nil, err
		}
		if len(header) > 0 {
			if err := h.dev.ProgramAt(blockNum, 0, header); err != nil {
				return nil, nil, err
			}
		}
		if err := h.dev.ProgramAt(blockNum, len(header), chunk); err != nil {
			return nil, nil, err
		}
	}

	out := make([]byte, 8)
	putLeU32(out[0:4], physByIdx[lastIdx])
	putLeU32(out[4:8], size)
	return out, physByIdx, nil
}
