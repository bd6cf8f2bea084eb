package littlefs

import (
	"fmt"
	"strings"
)

// Connect mounts an already-formatted filesystem image on dev.
func Connect(dev BlockDevice, opts ...Option) (*Handle, error) {
	h, err := newHandle(dev, opts)
	if err != nil {
		return nil, err
	}
	h.root = BlockPair{0, 1}

	entries, err := allEntriesInDir(h, h.root)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	found := false
	for _, de := range entries {
		if de.Name == magic && de.Struct.Tag.Chunk == StructInline {
			if err := h.super.UnmarshalBinary(de.Struct.Data); err != nil {
				return nil, err
			}
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("connect: %w: no superblock entry in root pair", ErrCorrupt)
	}

	h.nameLengthMax = h.super.NameLengthMax
	h.fileSizeMax = h.super.FileSizeMax
	return h, nil
}

// Format initializes a blank device with a fresh, empty filesystem.
func Format(dev BlockDevice, opts ...Option) (*Handle, error) {
	h, err := newHandle(dev, opts)
	if err != nil {
		return nil, err
	}
	h.root = BlockPair{0, 1}

	super := defaultSuperblock(dev.BlockSize(), dev.BlockCount())
	super.NameLengthMax = h.nameLengthMax
	super.FileSizeMax = h.fileSizeMax
	superData, err := super.MarshalBinary()
	if err != nil {
		return nil, err
	}
	h.super = super

	nameEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeName, Chunk: NameChunkReg, ID: superblockID, Length: uint16(len(magic))},
		Data: []byte(magic),
	}
	structEntry := Entry{
		Tag:  Tag{Valid: true, Type3: TypeStruct, Chunk: StructInline, ID: superblockID, Length: uint16(len(superData))},
		Data: superData,
	}

	if err := dev.Erase(0); err != nil {
		return nil, err
	}
	if err := dev.Erase(1); err != nil {
		return nil, err
	}
	if err := writeFreshCommit(h, 0, 1, []Entry{nameEntry, structEntry}); err != nil {
		return nil, err
	}
	if err := writeFreshCommit(h, 1, 2, []Entry{nameEntry, structEntry}); err != nil {
		return nil, err
	}

	h.log.WithFields(map[string]interface{}{
		"block_size":  dev.BlockSize(),
		"block_count": dev.BlockCount(),
	}).Info("littlefs: formatted")

	return h, nil
}

// Super returns a copy of the mounted filesystem's superblock.
func (h *Handle) Super() Superblock {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.super
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Get reads the full contents of the file at path.
func (h *Handle) Get(path string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return getValue(h, splitPath(path))
}

// Set creates or overwrites the file at path with content.
func (h *Handle) Set(path string, content []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return setInDirectory(h, splitPath(path), content)
}

// Mkdir creates an empty directory at path.
func (h *Handle) Mkdir(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return mkdirInDirectory(h, splitPath(path))
}

// Delete removes the file or directory at path by filing a tombstone for
// its entry; a directory is not checked for emptiness first. Deleting a name
// that is absent from an existing parent directory succeeds.
func (h *Handle) Delete(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return deleteInDirectory(h, splitPath(path))
}

// List returns the names of entries directly inside the directory at path.
func (h *Handle) List(path string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pair := h.root
	segs := splitPath(path)
	if len(segs) > 0 {
		parentPair, base, err := findFirstBlockpairOfDirectory(h, segs)
		if err != nil {
			return nil, err
		}
		de, err := entriesOfName(h, parentPair, base)
		if err != nil {
			return nil, err
		}
		if !de.IsDir {
			return nil, ErrDictionaryExpected
		}
		pair, err = dirPointer(de.Struct)
		if err != nil {
			return nil, err
		}
	}

	entries, err := allEntriesInDir(h, pair)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, de := range entries {
		names = append(names, de.Name)
	}
	return names, nil
}
