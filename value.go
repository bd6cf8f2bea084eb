package littlefs

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ctimeEntry builds the CTIME attribute entry filed under id, stamped with
// h.clock's current (days_since_epoch, picoseconds_within_day).
func ctimeEntry(h *Handle, id uint16) Entry {
	days, picos := h.clock.Now()
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], days)
	binary.LittleEndian.PutUint64(data[4:12], picos)
	return Entry{
		Tag:  Tag{Valid: true, Type3: TypeUserAttr, Chunk: AttrChunkCTime, ID: id, Length: uint16(len(data))},
		Data: data,
	}
}

// getValue resolves path to a file and returns its full contents.
func getValue(h *Handle, path []string) ([]byte, error) {
	if len(path) == 0 {
		return nil, ErrValueExpected
	}
	pair, base, err := findFirstBlockpairOfDirectory(h, path)
	if err != nil {
		return nil, err
	}
	de, err := entriesOfName(h, pair, base)
	if err != nil {
		return nil, err
	}
	if de.IsDir {
		return nil, ErrValueExpected
	}

	switch de.Struct.Tag.Chunk {
	case StructInline:
		return append([]byte(nil), de.Struct.Data...), nil
	case StructCTZ:
		return readCTZ(h, de.Struct.Data)
	default:
		return nil, fmt.Errorf("%w: unrecognized struct for %s", ErrCorrupt, base)
	}
}

// setInDirectory creates or overwrites path with content, allocating a new
// id if the name does not already exist in its parent directory.
func setInDirectory(h *Handle, path []string, content []byte) error {
	if len(path) == 0 {
		return ErrValueExpected
	}
	pair, base, err := findFirstBlockpairOfDirectory(h, path)
	if err != nil {
		return err
	}

	block, _, err := readBlockPair(h, pair)
	if err != nil {
		return err
	}

	var id uint16
	fresh := false
	if de, err := entriesOfName(h, pair, base); err == nil {
		if de.IsDir {
			return ErrDictionaryExpected
		}
		id = de.ID
	} else {
		id = block.maxID() + 1
		fresh = true
	}

	structEntry, err := buildValueEntry(h, id, content)
	if err != nil {
		return err
	}
	nameEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeName, Chunk: NameChunkReg, ID: id, Length: uint16(len(base))},
		Data: []byte(base),
	}

	entries := []Entry{nameEntry, structEntry}
	if fresh {
		entries = append(entries, ctimeEntry(h, id))
	}
	return commitToDir(h, &pair, entries)
}

// mkdirInDirectory creates an empty subdirectory named path, allocating a
// fresh metadata pair for it.
func mkdirInDirectory(h *Handle, path []string) error {
	if len(path) == 0 {
		return ErrValueExpected
	}
	pair, base, err := findFirstBlockpairOfDirectory(h, path)
	if err != nil {
		return err
	}
	if _, err := entriesOfName(h, pair, base); err == nil {
		return fmt.Errorf("%s: already exists", base)
	}

	block, _, err := readBlockPair(h, pair)
	if err != nil {
		return err
	}
	id := block.maxID() + 1

	childA, err := h.alloc.next(h)
	if err != nil {
		return err
	}
	childB, err := h.alloc.next(h)
	if err != nil {
		return err
	}
	if err := writeFreshCommit(h, childA, 1, nil); err != nil {
		return err
	}
	if err := writeFreshCommit(h, childB, 2, nil); err != nil {
		return err
	}

	dirData := make([]byte, 8)
	putLeU32(dirData[0:4], childA)
	putLeU32(dirData[4:8], childB)

	nameEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeName, Chunk: NameChunkDir, ID: id, Length: uint16(len(base))},
		Data: []byte(base),
	}
	structEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeStruct, Chunk: StructDir, ID: id, Length: 8},
		Data: dirData,
	}

	return commitToDir(h, &pair, []Entry{nameEntry, structEntry, ctimeEntry(h, id)})
}

// deleteInDirectory removes path from its parent directory by filing a
// SPLICE tombstone for its id. A name that is not there is left as is and
// nil is returned.
func deleteInDirectory(h *Handle, path []string) error {
	if len(path) == 0 {
		return ErrValueExpected
	}
	pair, base, err := findFirstBlockpairOfDirectory(h, path)
	if err != nil {
		return err
	}
	de, err := entriesOfName(h, pair, base)
	if errors.Is(err, ErrNotFound) {
		return nil // nothing to delete
	}
	if err != nil {
		return err
	}

	tombstone := Entry{Tag: Tag{Valid: true, Type3: TypeSplice, ID: de.ID}}
	return commitToDir(h, &pair, []Entry{tombstone})
}
