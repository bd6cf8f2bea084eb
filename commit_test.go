package littlefs

import "testing"

func TestSerializeParseCommitRoundTrip(t *testing.T) {
	entries := []Entry{
		{Tag: Tag{Valid: true, Type3: TypeName, Chunk: NameChunkReg, ID: 1, Length: 5}, Data: []byte("hello")},
		{Tag: Tag{Valid: true, Type3: TypeStruct, Chunk: StructInline, ID: 1, Length: 5}, Data: []byte("world")},
	}

	data, _, err := serializeCommit(entries, startingXorTag, 0, 64)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if len(data)%64 != 0 {
		t.Fatalf("expected padding to a multiple of 64, got %d bytes", len(data))
	}

	got, consumed, _, err := parseCommit(data, startingXorTag, 0, 64)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if consumed != len(data) {
		t.Fatalf("expected to consume %d bytes, consumed %d", len(data), consumed)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i := range entries {
		if got[i].Tag != entries[i].Tag {
			t.Errorf("entry %d tag mismatch: want %v got %v", i, entries[i].Tag, got[i].Tag)
		}
		if string(got[i].Data) != string(entries[i].Data) {
			t.Errorf("entry %d data mismatch: want %q got %q", i, entries[i].Data, got[i].Data)
		}
	}
}

func TestParseCommitDetectsCorruption(t *testing.T) {
	entries := []Entry{
		{Tag: Tag{Valid: true, Type3: TypeName, ID: 1, Length: 3}, Data: []byte("abc")},
	}
	data, _, err := serializeCommit(entries, startingXorTag, 0, 32)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	corrupt := append([]byte(nil), data...)
	corrupt[len(corrupt)-1] ^= 0xff

	if _, _, _, err := parseCommit(corrupt, startingXorTag, 0, 32); err == nil {
		t.Fatalf("expected corruption to be detected")
	}
}

func TestSerializeCommitChainsAcrossCommits(t *testing.T) {
	first := []Entry{{Tag: Tag{Valid: true, Type3: TypeName, ID: 1, Length: 1}, Data: []byte("a")}}
	second := []Entry{{Tag: Tag{Valid: true, Type3: TypeName, ID: 2, Length: 1}, Data: []byte("b")}}

	data1, lastRaw, err := serializeCommit(first, startingXorTag, 0, 32)
	if err != nil {
		t.Fatalf("serialize first: %v", err)
	}
	data2, _, err := serializeCommit(second, lastRaw, 0, 32)
	if err != nil {
		t.Fatalf("serialize second: %v", err)
	}

	combined := append(append([]byte(nil), data1...), data2...)

	got1, consumed1, lastRawGot, err := parseCommit(combined, startingXorTag, 0, 32)
	if err != nil {
		t.Fatalf("parse first: %v", err)
	}
	if len(got1) != 1 {
		t.Fatalf("expected 1 entry in first commit, got %d", len(got1))
	}
	if lastRawGot != lastRaw {
		t.Fatalf("xor chain state mismatch: want %#x got %#x", lastRaw, lastRawGot)
	}

	got2, _, _, err := parseCommit(combined[consumed1:], lastRawGot, 0, 32)
	if err != nil {
		t.Fatalf("parse second: %v", err)
	}
	if len(got2) != 1 || string(got2[0].Data) != "b" {
		t.Fatalf("unexpected second commit entries: %v", got2)
	}
}
