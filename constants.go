package littlefs

// Abstract tag types (the 3-bit type3 field). These mirror the on-disk
// layout described by the format this package implements: a 32-bit tag is
// valid(1) | type3(3) | chunk(8) | id(10) | length(10).
const (
	TypeName     uint8 = 0x0
	typeReserved uint8 = 0x1 // never valid; parse must reject it
	TypeStruct   uint8 = 0x2
	TypeUserAttr uint8 = 0x3
	TypeSplice   uint8 = 0x4
	TypeCRC      uint8 = 0x5
	TypeTail     uint8 = 0x6
	TypeGState   uint8 = 0x7
)

// Chunk values for TypeStruct entries.
const (
	StructDir    uint8 = 0x00
	StructInline uint8 = 0x01
	StructCTZ    uint8 = 0x02
)

// Chunk values for TypeName entries: what kind of thing this id names.
const (
	NameChunkReg uint8 = 0x01
	NameChunkDir uint8 = 0x02
)

// AttrChunkCTime is the TypeUserAttr chunk value identifying a CTIME
// attribute payload (days_since_epoch u32 | picoseconds_within_day u64).
const AttrChunkCTime uint8 = 't'

// tailID is the reserved id a hardtail entry is filed under. It never
// collides with a real directory entry id because ids are allocated
// starting at 1 and a directory never grows past 0x3fe live entries.
const tailID uint16 = 0x3ff

// superblockID is the id the format superblock NAME/STRUCT pair lives
// under in block (0, 1).
const superblockID uint16 = 0

const magic = "littlefs"

// defaultNameLengthMax, defaultFileSizeMax and defaultFileAttributeSizeMax
// mirror the historical defaults this format ships with.
const (
	defaultVersionMajor         = 2
	defaultVersionMinor         = 0
	defaultNameLengthMax        = 32
	defaultFileSizeMax          = 2147483647
	defaultFileAttributeSizeMax = 1022
)

// inlineThresholdDivisor: a value is stored inline when its length is at
// most blockSize/inlineThresholdDivisor; larger values use a CTZ skip list.
const inlineThresholdDivisor = 4
