/*
NAME
  bytebuilder.go

DESCRIPTION
  bytebuilder.go provides the encoder-side counterpart to byteCursor: a
  small little-endian byte builder that every codec's encoder appends
  packets to before the chunk body is wrapped in its 6-byte header.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import "encoding/binary"

// byteBuilder accumulates a chunk body in memory. Callers check
// ErrExceededLimit via fitsU8/fitsU16 before pixels already written
// are committed to the on-disk packet count fields.
type byteBuilder struct {
	buf []byte
}

func newByteBuilder() *byteBuilder {
	return &byteBuilder{}
}

func (b *byteBuilder) len() int { return len(b.buf) }

func (b *byteBuilder) bytes() []byte { return b.buf }

func (b *byteBuilder) writeU8(v byte) {
	b.buf = append(b.buf, v)
}

func (b *byteBuilder) writeI8(v int) {
	b.buf = append(b.buf, byte(int8(v)))
}

func (b *byteBuilder) writeU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *byteBuilder) writeI16(v int) {
	b.writeU16(uint16(int16(v)))
}

func (b *byteBuilder) writeU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *byteBuilder) write(p []byte) {
	b.buf = append(b.buf, p...)
}

// patchU16 overwrites the uint16 at byte offset off, for backpatching
// a packet count that is only known after its packets are written.
func (b *byteBuilder) patchU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(b.buf[off:], v)
}

// fitsU8 and fitsU16 report whether n fits in the named field width,
// the encoder's way of surfacing ErrExceededLimit before corrupting an
// on-disk count.
func fitsU8(n int) bool  { return n >= 0 && n <= 0xFF }
func fitsU16(n int) bool { return n >= 0 && n <= 0xFFFF }
