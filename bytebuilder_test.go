package flic

import "testing"

func TestByteBuilderWritesAndPatch(t *testing.T) {
	b := newByteBuilder()
	b.writeU8(0xAB)
	b.writeI8(-1)
	off := b.len()
	b.writeU16(0)
	b.writeU32(0x01020304)
	b.write([]byte{9, 9})

	b.patchU16(off, 0xBEEF)

	want := []byte{0xAB, 0xFF, 0xEF, 0xBE, 0x04, 0x03, 0x02, 0x01, 9, 9}
	if string(b.bytes()) != string(want) {
		t.Fatalf("bytes = %v, want %v", b.bytes(), want)
	}
}

func TestFitsHelpers(t *testing.T) {
	if !fitsU8(0) || !fitsU8(255) || fitsU8(256) || fitsU8(-1) {
		t.Fatal("fitsU8 boundary mismatch")
	}
	if !fitsU16(0) || !fitsU16(65535) || fitsU16(65536) || fitsU16(-1) {
		t.Fatal("fitsU16 boundary mismatch")
	}
}
