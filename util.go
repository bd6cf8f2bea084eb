package littlefs

import "encoding/binary"

func leU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func putLeU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
