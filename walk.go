package littlefs

import "path"

// WalkFunc is called once per entry visited by Walk, with the full path
// from the filesystem root.
type WalkFunc func(fullPath string, isDir bool) error

// Walk visits every entry under root (root itself excluded), depth-first,
// supplementing the format's directory primitives with the recursive
// traversal original littlefs deployments build on top of them.
func (h *Handle) Walk(root string, fn WalkFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pair := h.root
	if segs := splitPath(root); len(segs) > 0 {
		parentPair, base, err := findFirstBlockpairOfDirectory(h, segs)
		if err != nil {
			return err
		}
		de, err := entriesOfName(h, parentPair, base)
		if err != nil {
			return err
		}
		if !de.IsDir {
			return ErrDictionaryExpected
		}
		pair, err = dirPointer(de.Struct)
		if err != nil {
			return err
		}
	}

	return h.walkPair(pair, root, fn)
}

func (h *Handle) walkPair(pair BlockPair, prefix string, fn WalkFunc) error {
	entries, err := allEntriesInDir(h, pair)
	if err != nil {
		return err
	}

	for _, de := range entries {
		full := path.Join(prefix, de.Name)
		if err := fn(full, de.IsDir); err != nil {
			return err
		}
		if de.IsDir {
			childPair, err := dirPointer(de.Struct)
			if err != nil {
				return err
			}
			if err := h.walkPair(childPair, full, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
