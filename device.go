package littlefs

import (
	"fmt"
	"io"
)

// BlockDevice is the storage abstraction every filesystem operation is built
// on: a fixed number of fixed-size blocks, each erased as a whole before it
// can be reprogrammed. ReadAt may be called from several goroutines at once
// (traverse.go walks subdirectories concurrently); the other methods are
// called one at a time.
type BlockDevice interface {
	// ReadAt reads len(p) bytes from block at the given byte offset within
	// it. off+len(p) must not exceed BlockSize().
	ReadAt(block uint32, off int, p []byte) error

	// ProgramAt writes p to block at the given byte offset. Most real media
	// only allow programming a block once between erases; the filesystem
	// never relies on overwriting already-programmed bytes.
	ProgramAt(block uint32, off int, p []byte) error

	// Erase resets block to its erased state.
	Erase(block uint32) error

	// Sync flushes any buffered writes to stable storage.
	Sync() error

	BlockSize() int
	BlockCount() uint32
}

// readBlock is a convenience wrapper returning a freshly allocated buffer.
func readBlock(dev BlockDevice, block uint32, off, length int) ([]byte, error) {
	buf := make([]byte, length)
	if err := dev.ReadAt(block, off, buf); err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}
	return buf, nil
}

// readFullBlock reads the entire contents of block.
func readFullBlock(dev BlockDevice, block uint32) ([]byte, error) {
	return readBlock(dev, block, 0, dev.BlockSize())
}

// sectionReader adapts a single block of dev into a bounds-checked
// io.ReaderAt.
type sectionReader struct {
	dev   BlockDevice
	block uint32
}

func (s *sectionReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > s.dev.BlockSize() {
		return 0, io.ErrUnexpectedEOF
	}
	if err := s.dev.ReadAt(s.block, int(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}
