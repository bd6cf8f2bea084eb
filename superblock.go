package littlefs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Superblock is the fixed-layout payload carried inside the root directory's
// STRUCT entry. Its on-disk representation is little-endian, one field after
// another — the same reflect-driven encode/decode the teacher uses for its
// own fixed-layout header, generalized to littlefs's superblock.
type Superblock struct {
	VersionMinor         uint16
	VersionMajor         uint16
	BlockSize            uint32
	BlockCount           uint32
	NameLengthMax        uint32
	FileSizeMax          uint32
	FileAttributeSizeMax uint32
}

func defaultSuperblock(blockSize int, blockCount uint32) Superblock {
	return Superblock{
		VersionMinor:         defaultVersionMinor,
		VersionMajor:         defaultVersionMajor,
		BlockSize:            uint32(blockSize),
		BlockCount:           blockCount,
		NameLengthMax:        defaultNameLengthMax,
		FileSizeMax:          defaultFileSizeMax,
		FileAttributeSizeMax: defaultFileAttributeSizeMax,
	}
}

// MarshalBinary encodes the superblock's fields, little-endian. The
// "littlefs" magic is not part of this payload — it is the owning NAME
// entry's data, not the STRUCT entry's.
func (s *Superblock) MarshalBinary() ([]byte, error) {
	buf := &bytes.Buffer{}
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		if err := binary.Write(buf, binary.LittleEndian, v.Field(i).Interface()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a superblock previously written by MarshalBinary.
func (s *Superblock) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		if err := binary.Read(r, binary.LittleEndian, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	logrus.WithFields(logrus.Fields{
		"version": fmt.Sprintf("%d.%d", s.VersionMajor, s.VersionMinor),
		"blocks":  s.BlockCount,
	}).Debug("littlefs: parsed superblock")
	return nil
}
