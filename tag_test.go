package littlefs

import (
	"encoding/binary"
	"testing"
)

func TestTagRoundTrip(t *testing.T) {
	cases := []Tag{
		{Valid: true, Type3: TypeName, Chunk: 0x02, ID: 5, Length: 8},
		{Valid: true, Type3: TypeStruct, Chunk: StructCTZ, ID: 0x3ff, Length: 0x3ff},
		{Valid: false, Type3: TypeCRC, Chunk: 0, ID: 0, Length: 4},
		{Valid: true, Type3: TypeTail, Chunk: 0, ID: tailID, Length: 16},
	}

	masks := []uint32{0, 0xffffffff, 0x12345678, 0xdeadbeef}

	for _, want := range cases {
		for _, mask := range masks {
			disk := want.Emit(mask)
			raw := binary.BigEndian.Uint32(disk[:]) ^ mask
			got, err := ParseTag(raw)
			if err != nil {
				t.Fatalf("parse(%v emitted with mask %x): %v", want, mask, err)
			}
			if got != want {
				t.Errorf("round trip mismatch: want %v got %v (mask %x)", want, got, mask)
			}
		}
	}
}

func TestTagAllOnesIdentity(t *testing.T) {
	t.Helper()
	allOnes := Tag{
		Valid:  true,
		Type3:  0x7,
		Chunk:  0xff,
		ID:     0x3ff,
		Length: 0x3ff,
	}
	if allOnes.Pack() != 0xffffffff {
		t.Fatalf("expected all-ones tag to pack to 0xffffffff, got %#x", allOnes.Pack())
	}
	disk := allOnes.Emit(0xffffffff)
	for _, b := range disk {
		if b != 0 {
			t.Fatalf("all-ones tag XOR all-ones mask should be zero bytes, got %v", disk)
		}
	}
}

func TestTagRejectsReservedType(t *testing.T) {
	reserved := Tag{Valid: true, Type3: typeReserved, Chunk: 0, ID: 0, Length: 0}
	raw := reserved.Pack()
	if _, err := ParseTag(raw); err == nil {
		t.Fatalf("expected abstract type 1 to be rejected")
	}
}

func TestTagIdentityHelpers(t *testing.T) {
	dir := Tag{Valid: true, Type3: TypeStruct, Chunk: StructDir}
	if !dir.IsStruct(StructDir) || dir.IsStruct(StructInline) {
		t.Fatalf("IsStruct mismatch for %v", dir)
	}
	tail := Tag{Valid: true, Type3: TypeTail}
	if !tail.IsHardtail() {
		t.Fatalf("expected hardtail tag to report IsHardtail")
	}
	crc := Tag{Valid: true, Type3: TypeCRC}
	if !crc.IsCRC() {
		t.Fatalf("expected crc tag to report IsCRC")
	}
	del := Tag{Valid: true, Type3: TypeSplice}
	if !del.IsDelete() {
		t.Fatalf("expected splice tag to report IsDelete")
	}
}
