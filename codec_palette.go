/*
NAME
  codec_palette.go

DESCRIPTION
  codec_palette.go implements the two palette chunk types: COLOR256,
  which stores full 0..255 RGB components, and COLOR64, its older
  0..63-per-component ancestor. Both share the same skip/copy packet
  grammar and differ only in how a component byte is scaled on the
  wire.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

// decodeColor256 applies a COLOR256 chunk body to pal in place.
func decodeColor256(body []byte, pal []byte) error {
	return decodePaletteChunk(body, pal, 1, 255)
}

// decodeColor64 applies a COLOR64 chunk body to pal in place. Each
// on-disk component must be <= 63; anything larger is corrupt.
func decodeColor64(body []byte, pal []byte) error {
	return decodePaletteChunk(body, pal, 4, 63)
}

func decodePaletteChunk(body []byte, pal []byte, scale int, maxOnDisk byte) error {
	if len(pal) != PaletteSize {
		return ErrBadInput
	}
	c := newByteCursor(body)

	numPackets, err := c.readU16()
	if err != nil {
		return wrap(err, "palette packet count")
	}

	pos := 0
	for i := 0; i < int(numPackets); i++ {
		skip, err := c.readU8()
		if err != nil {
			return wrap(err, "palette packet skip")
		}
		pos += int(skip)

		rawCopy, err := c.readU8()
		if err != nil {
			return wrap(err, "palette packet copy")
		}
		n := int(rawCopy)
		if n == 0 {
			n = NumColors
		}
		if pos+n > NumColors {
			return ErrCorrupted
		}

		for j := 0; j < n; j++ {
			for k := 0; k < 3; k++ {
				v, err := c.readU8()
				if err != nil {
					return wrap(err, "palette component")
				}
				if v > maxOnDisk {
					return ErrCorrupted
				}
				pal[(pos+j)*3+k] = v * byte(scale)
			}
		}
		pos += n
	}
	return nil
}

// encodeColor256 writes a COLOR256 chunk body. If old is nil, it emits
// a full palette; otherwise it emits only the triplets that changed
// from old to new.
func encodeColor256(old, new []byte) ([]byte, error) {
	return encodePaletteChunk(old, new, 1)
}

// encodeColor64 writes a COLOR64 chunk body, truncating each
// component to 0..63.
func encodeColor64(old, new []byte) ([]byte, error) {
	return encodePaletteChunk(old, new, 4)
}

func encodePaletteChunk(old, new []byte, scale int) ([]byte, error) {
	if len(new) != PaletteSize || (old != nil && len(old) != PaletteSize) {
		return nil, ErrBadInput
	}

	b := newByteBuilder()
	b.writeU16(0) // packet count, backpatched below

	writePacket := func(skip, start, n int) {
		b.writeU8(byte(skip))
		if n == NumColors {
			b.writeU8(0)
		} else {
			b.writeU8(byte(n))
		}
		for i := 0; i < n; i++ {
			for k := 0; k < 3; k++ {
				b.writeU8(new[(start+i)*3+k] / byte(scale))
			}
		}
	}

	numPackets := 0
	if old == nil {
		writePacket(0, 0, NumColors)
		numPackets = 1
	} else {
		eq := func(i int) bool {
			return old[i*3] == new[i*3] &&
				old[i*3+1] == new[i*3+1] &&
				old[i*3+2] == new[i*3+2]
		}
		it := newGroupByEq(NumColors, eq)
		skip := 0
		for {
			g, ok := it.next()
			if !ok {
				break
			}
			if g.kind == groupSame {
				skip += g.n
				continue
			}
			writePacket(skip, g.start, g.n)
			numPackets++
			skip = 0
		}
	}

	b.patchU16(0, uint16(numPackets))
	return b.bytes(), nil
}
