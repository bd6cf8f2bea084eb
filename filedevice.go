package littlefs

import "os"

// FileDevice backs a BlockDevice with a regular file, the common case for
// testing an image on a workstation or loopback-mounting it. Erase simply
// zero-fills the block; a real flash chip's program-once constraint doesn't
// apply here but we still never assume overwriting already-programmed bytes
// is safe, to keep the same code path working on both.
type FileDevice struct {
	f          *os.File
	blockSize  int
	blockCount uint32
}

// OpenFileDevice opens path as a BlockDevice of the given block size. If the
// file is smaller than blockSize*blockCount it is extended (sparse) to fit;
// a larger file is truncated to that size.
func OpenFileDevice(path string, blockSize int, blockCount uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	total := int64(blockSize) * int64(blockCount)
	if err := f.Truncate(total); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{f: f, blockSize: blockSize, blockCount: blockCount}, nil
}

func (d *FileDevice) ReadAt(block uint32, off int, p []byte) error {
	_, err := d.f.ReadAt(p, int64(block)*int64(d.blockSize)+int64(off))
	return err
}

func (d *FileDevice) ProgramAt(block uint32, off int, p []byte) error {
	_, err := d.f.WriteAt(p, int64(block)*int64(d.blockSize)+int64(off))
	return err
}

func (d *FileDevice) Erase(block uint32) error {
	zero := make([]byte, d.blockSize)
	_, err := d.f.WriteAt(zero, int64(block)*int64(d.blockSize))
	return err
}

func (d *FileDevice) Sync() error { return d.f.Sync() }

func (d *FileDevice) BlockSize() int     { return d.blockSize }
func (d *FileDevice) BlockCount() uint32 { return d.blockCount }

// Close releases the underlying file.
func (d *FileDevice) Close() error { return d.f.Close() }
