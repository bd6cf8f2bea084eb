package littlefs

import "fmt"

// dirEntry is one resolved name inside a directory: its id, whether it
// names a file or a subdirectory, and the struct entry backing it.
type dirEntry struct {
	ID     uint16
	IsDir  bool
	Name   string
	Struct Entry
}

// allEntriesInDir decodes every live name in the metadata pair (following
// hardtails) into dirEntry values.
func allEntriesInDir(h *Handle, pair BlockPair) ([]dirEntry, error) {
	var out []dirEntry
	seen := map[BlockPair]bool{}

	for {
		if seen[pair] {
			return nil, fmt.Errorf("%w: hardtail cycle", ErrCorrupt)
		}
		seen[pair] = true

		block, _, err := readBlockPair(h, pair)
		if err != nil {
			return nil, err
		}

		byID := map[uint16]*dirEntry{}
		for _, e := range block.compacted() {
			switch {
			case e.Tag.IsName():
				de := byID[e.Tag.ID]
				if de == nil {
					de = &dirEntry{ID: e.Tag.ID}
					byID[e.Tag.ID] = de
				}
				de.Name = string(e.Data)
				de.IsDir = e.Tag.Chunk == NameChunkDir
			case e.Tag.Type3 == TypeStruct:
				de := byID[e.Tag.ID]
				if de == nil {
					de = &dirEntry{ID: e.Tag.ID}
					byID[e.Tag.ID] = de
				}
				de.Struct = e
			}
		}
		for _, de := range byID {
			if de.Name != "" {
				out = append(out, *de)
			}
		}

		next, ok := block.hardtail()
		if !ok {
			break
		}
		pair = next
	}

	return out, nil
}

// entriesOfName finds the live entry named name directly inside pair. If
// the same name appears again past a hardtail split, the occurrence in the
// last block of the chain wins, since that is the most recently written
// half for that id range.
func entriesOfName(h *Handle, pair BlockPair, name string) (dirEntry, error) {
	entries, err := allEntriesInDir(h, pair)
	if err != nil {
		return dirEntry{}, err
	}

	found := false
	var match dirEntry
	for _, de := range entries {
		if de.Name == name {
			match = de
			found = true
		}
	}
	if !found {
		return dirEntry{}, ErrNotFound
	}
	return match, nil
}

// findFirstBlockpairOfDirectory resolves an absolute path, given as its
// segments, down to the metadata pair of its final directory component, and the basename
// of the last segment (which may be a file, a directory, or "" for root).
func findFirstBlockpairOfDirectory(h *Handle, path []string) (pair BlockPair, basename string, err error) {
	pair = h.root
	if len(path) == 0 {
		return pair, "", nil
	}

	for _, seg := range path[:len(path)-1] {
		de, err := entriesOfName(h, pair, seg)
		if err != nil {
			return BlockPair{}, "", fmt.Errorf("%s: %w", seg, err)
		}
		if !de.IsDir {
			return BlockPair{}, "", fmt.Errorf("%s: %w", seg, ErrDictionaryExpected)
		}
		childPair, err := dirPointer(de.Struct)
		if err != nil {
			return BlockPair{}, "", err
		}
		pair = childPair
	}

	return pair, path[len(path)-1], nil
}

func dirPointer(e Entry) (BlockPair, error) {
	if e.Tag.Type3 != TypeStruct || e.Tag.Chunk != StructDir || len(e.Data) < 8 {
		return BlockPair{}, fmt.Errorf("%w: not a directory entry", ErrDictionaryExpected)
	}
	return BlockPair{leU32(e.Data[0:4]), leU32(e.Data[4:8])}, nil
}
