package littlefs

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Commit is a contiguous, CRC-terminated run of entries within a metadata
// block.
type Commit struct {
	Entries []Entry
}

// startingXorTag is the mask applied to the first tag of the first commit
// in a block — the format reserves the all-ones word for this.
const startingXorTag uint32 = 0xffffffff

func crcUpdate(seed uint32, data []byte) uint32 {
	return crc32.Update(seed, crc32.IEEETable, data)
}

// serializeCommit encodes entries as a commit: each tag XOR-chained against
// the previous tag's on-disk bytes (or startXor for the first entry), a
// terminating CRC tag + CRC word, and zero padding up to a multiple of
// programBlockSize. crcSeed is the running CRC state this commit starts
// from (CRC32 of the revision_count bytes for the first commit in a block,
// 0 — the format resets the CRC chain between commits — otherwise).
//
// It returns the serialized bytes and the CRC tag's on-disk bytes, which
// become the next commit's starting xor mask.
func serializeCommit(entries []Entry, startXor uint32, crcSeed uint32, programBlockSize int) (data []byte, lastTagRaw uint32, err error) {
	var buf []byte
	runningXor := startXor
	runningCRC := crcSeed

	for _, e := range entries {
		disk := e.Tag.Emit(runningXor)
		buf = append(buf, disk[:]...)
		buf = append(buf, e.Data...)
		runningCRC = crcUpdate(runningCRC, disk[:])
		runningCRC = crcUpdate(runningCRC, e.Data)
		runningXor = binary.BigEndian.Uint32(disk[:])
	}

	crcTag := Tag{Valid: true, Type3: TypeCRC, Chunk: 0, ID: 0, Length: 4}
	crcDisk := crcTag.Emit(runningXor)
	buf = append(buf, crcDisk[:]...)
	runningCRC = crcUpdate(runningCRC, crcDisk[:])

	crcWord := crcSeed ^ runningCRC
	var crcWordBytes [4]byte
	binary.BigEndian.PutUint32(crcWordBytes[:], crcWord)
	buf = append(buf, crcWordBytes[:]...)

	if programBlockSize > 0 {
		if rem := len(buf) % programBlockSize; rem != 0 {
			buf = append(buf, make([]byte, programBlockSize-rem)...)
		}
	}

	return buf, binary.BigEndian.Uint32(crcDisk[:]), nil
}

// parseCommit walks one commit out of buf starting at offset 0, XOR-unmasking
// tags against startXor / the previous tag's raw bytes, accumulating a CRC
// seeded with crcSeed. It returns the entries (excluding the terminating CRC
// entry), the number of bytes consumed (including padding, rounded up to
// programBlockSize), and the CRC tag's raw on-disk bytes for chaining into
// the next commit.
func parseCommit(buf []byte, startXor uint32, crcSeed uint32, programBlockSize int) (entries []Entry, consumed int, lastTagRaw uint32, err error) {
	runningXor := startXor
	runningCRC := crcSeed
	offset := 0

	for {
		if offset+4 > len(buf) {
			return nil, 0, 0, fmt.Errorf("%w: truncated tag", ErrCorrupt)
		}
		rawDisk := binary.BigEndian.Uint32(buf[offset : offset+4])
		packed := rawDisk ^ runningXor
		tag, perr := ParseTag(packed)
		if perr != nil {
			return nil, 0, 0, perr
		}
		runningCRC = crcUpdate(runningCRC, buf[offset:offset+4])
		offset += 4

		if tag.IsCRC() {
			if offset+4 > len(buf) {
				return nil, 0, 0, fmt.Errorf("%w: truncated crc word", ErrCorrupt)
			}
			storedWord := binary.BigEndian.Uint32(buf[offset : offset+4])
			offset += 4
			wantWord := crcSeed ^ runningCRC
			if storedWord != wantWord {
				return nil, 0, 0, fmt.Errorf("%w: crc mismatch", ErrCorrupt)
			}

			naturalLen := offset
			paddedLen := naturalLen
			if programBlockSize > 0 {
				if rem := naturalLen % programBlockSize; rem != 0 {
					paddedLen = naturalLen + (programBlockSize - rem)
				}
			}
			if paddedLen > len(buf) {
				return nil, 0, 0, fmt.Errorf("%w: padding runs past block", ErrCorrupt)
			}
			for _, b := range buf[naturalLen:paddedLen] {
				if b != 0 {
					return nil, 0, 0, fmt.Errorf("%w: non-zero padding", ErrCorrupt)
				}
			}

			return entries, paddedLen, rawDisk, nil
		}

		if offset+int(tag.Length) > len(buf) {
			return nil, 0, 0, fmt.Errorf("%w: truncated payload", ErrCorrupt)
		}
		payload := buf[offset : offset+int(tag.Length)]
		runningCRC = crcUpdate(runningCRC, payload)
		entries = append(entries, Entry{Tag: tag, Data: payload})
		offset += int(tag.Length)
		runningXor = rawDisk
	}
}
