package littlefs

// readBlockPair reads both halves of pair and returns whichever decodes
// successfully and has the higher revision count — the freshest copy. If
// only one half decodes, that half wins and a warning is logged; if neither
// decodes, the first half's error is returned (wrapping ErrCorrupt for a
// parse failure, or the device's error for a failed read).
func readBlockPair(h *Handle, pair BlockPair) (*Block, uint32, error) {
	var blocks [2]*Block
	var errs [2]error

	for i, blockNum := range pair {
		blocks[i], errs[i] = readBlockContents(h.dev, blockNum)
	}

	switch {
	case errs[0] == nil && errs[1] == nil:
		if blocks[1].Revision > blocks[0].Revision {
			return blocks[1], pair[1], nil
		}
		return blocks[0], pair[0], nil
	case errs[0] == nil:
		h.log.WithError(errs[1]).Warnf("littlefs: block %d of pair %v unreadable, using %d", pair[1], pair, pair[0])
		return blocks[0], pair[0], nil
	case errs[1] == nil:
		h.log.WithError(errs[0]).Warnf("littlefs: block %d of pair %v unreadable, using %d", pair[0], pair, pair[1])
		return blocks[1], pair[1], nil
	default:
		return nil, 0, errs[0]
	}
}
