package littlefs

import "github.com/bits-and-blooms/bitset"

// allocator hands out free physical blocks. Rather than keep a bitmap for
// the entire device, it keeps a lookahead window of a fixed number of bits
// and repopulates it by marking every block reachable from the root (see
// traverse.go) whenever the window is exhausted. The populate scan alternates
// which end of the device it starts from each time, so wear isn't
// concentrated at low block numbers on devices much larger than the window.
type allocator struct {
	lookaheadSize int

	window      *bitset.BitSet
	windowStart uint32
	cursor      int
	biasHigh    bool
}

func newAllocator(lookaheadSize int) *allocator {
	if lookaheadSize <= 0 {
		lookaheadSize = 1024
	}
	return &allocator{lookaheadSize: lookaheadSize}
}

func (a *allocator) populate(h *Handle) error {
	used, err := markUsedBlocks(h)
	if err != nil {
		return err
	}

	count := h.dev.BlockCount()
	size := uint(a.lookaheadSize)
	if uint32(size) > count {
		size = uint(count)
	}

	var start uint32
	if a.biasHigh && count > uint32(size) {
		start = count - uint32(size)
	}
	a.biasHigh = !a.biasHigh

	window := bitset.New(size)
	for i := uint(0); i < size; i++ {
		blk := (start + uint32(i)) % count
		if used.Test(uint(blk)) {
			window.Set(i)
		}
	}

	a.window = window
	a.windowStart = start
	a.cursor = 0
	return nil
}

// next returns the next free physical block, repopulating the lookahead
// window once if it is exhausted (on first use this comes on top of the
// initial fill).
func (a *allocator) next(h *Handle) (uint32, error) {
	if a.window == nil {
		if err := a.populate(h); err != nil {
			return 0, err
		}
	}

	if blk, ok := a.scan(h.dev.BlockCount()); ok {
		return blk, nil
	}

	if err := a.populate(h); err != nil {
		return 0, err
	}
	if blk, ok := a.scan(h.dev.BlockCount()); ok {
		return blk, nil
	}

	return 0, ErrNoSpace
}

func (a *allocator) scan(deviceBlocks uint32) (uint32, bool) {
	size := int(a.window.Len())
	for ; a.cursor < size; a.cursor++ {
		if !a.window.Test(uint(a.cursor)) {
			a.window.Set(uint(a.cursor))
			blk := (a.windowStart + uint32(a.cursor)) % deviceBlocks
			a.cursor++
			return blk, true
		}
	}
	return 0, false
}
