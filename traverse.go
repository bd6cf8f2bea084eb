package littlefs

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// markUsedBlocks walks every reachable metadata pair and file from the root,
// returning a bitset with one bit set per block currently in use. This is
// the allocator's "mark" half of mark-and-sweep lookahead population. A pair
// or CTZ chain that cannot be read fails the walk with ErrDisconnected.
func markUsedBlocks(h *Handle) (*bitset.BitSet, error) {
	used := bitset.New(uint(h.dev.BlockCount()))
	var mu sync.Mutex
	mark := func(block uint32) {
		mu.Lock()
		used.Set(uint(block))
		mu.Unlock()
	}
	mark(h.root[0])
	mark(h.root[1])

	var g errgroup.Group
	g.SetLimit(h.lookaheadSize)
	var walk func(pair BlockPair) error
	seen := map[BlockPair]bool{}
	var smu sync.Mutex

	walk = func(pair BlockPair) error {
		smu.Lock()
		if seen[pair] {
			smu.Unlock()
			return nil
		}
		seen[pair] = true
		smu.Unlock()

		mark(pair[0])
		mark(pair[1])

		block, _, err := readBlockPair(h, pair)
		if err != nil {
			return fmt.Errorf("traverse %v: %w: %w", pair, ErrDisconnected, err)
		}

		for _, db := range block.referencedDataBlocks() {
			mark(db)
		}
		for _, e := range block.compacted() {
			if e.Tag.IsStruct(StructCTZ) && len(e.Data) >= 8 {
				blocks, err := ctzBlockList(h, e.Data)
				if err != nil {
					return fmt.Errorf("traverse %v: %w: %w", pair, ErrDisconnected, err)
				}
				for _, b := range blocks {
					mark(b)
				}
			}
			if e.Tag.IsStruct(StructDir) && len(e.Data) >= 8 {
				child := BlockPair{
					leU32(e.Data[0:4]),
					leU32(e.Data[4:8]),
				}
				g.Go(func() error { return walk(child) })
			}
		}

		if tail, ok := block.hardtail(); ok {
			g.Go(func() error { return walk(tail) })
		}
		return nil
	}

	g.Go(func() error { return walk(h.root) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return used, nil
}
