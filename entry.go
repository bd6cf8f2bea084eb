package littlefs

import "sort"

// Entry is a (tag, payload) pair: one directory, file, or bookkeeping record
// within a commit.
type Entry struct {
	Tag  Tag
	Data []byte
}

// lengthOfEntries sums the on-disk footprint (tag + payload) of entries.
func lengthOfEntries(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += 4 + len(e.Data)
	}
	return n
}

// compactEntries performs the stable reduction described by the format:
// for each id, everything up to and including its most recent SPLICE
// delete is discarded; among the survivors, only the last entry for a given
// (id, type3) slot is kept. Distinct ids keep the relative order of their
// first surviving entry; entries within an id keep their original relative
// order.
func compactEntries(entries []Entry) []Entry {
	type slot struct {
		id    uint16
		type3 uint8
	}

	lastDelete := make(map[uint16]int)
	for i, e := range entries {
		if e.Tag.IsDelete() {
			lastDelete[e.Tag.ID] = i
		}
	}

	survivorIdx := make(map[slot]int)
	firstSeen := make(map[uint16]int)
	for i, e := range entries {
		if tomb, ok := lastDelete[e.Tag.ID]; ok && i <= tomb {
			continue
		}
		if e.Tag.IsDelete() {
			continue
		}
		k := slot{e.Tag.ID, e.Tag.Type3}
		survivorIdx[k] = i // later occurrence overwrites, keeping only the last
		if _, seen := firstSeen[e.Tag.ID]; !seen {
			firstSeen[e.Tag.ID] = i
		}
	}

	ids := make([]uint16, 0, len(firstSeen))
	for id := range firstSeen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return firstSeen[ids[i]] < firstSeen[ids[j]] })

	out := make([]Entry, 0, len(survivorIdx))
	for _, id := range ids {
		var idxs []int
		for k, idx := range survivorIdx {
			if k.id == id {
				idxs = append(idxs, idx)
			}
		}
		sort.Ints(idxs)
		for _, idx := range idxs {
			out = append(out, entries[idx])
		}
	}
	return out
}

// maxID returns the largest id among entries, or 0 if there are none.
func maxID(entries []Entry) uint16 {
	var m uint16
	for _, e := range entries {
		if e.Tag.ID != tailID && e.Tag.ID > m {
			m = e.Tag.ID
		}
	}
	return m
}
