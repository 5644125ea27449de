/*
NAME
  codec_lc.go

DESCRIPTION
  codec_lc.go implements the LC ("line compressed") chunk type, the
  original FLI delta codec: a run of unchanged lines at the top, a run
  of lines that each carry their own skip/copy/replicate packets, and
  an implicit unchanged tail.

  Packet sign convention (opposite of BRUN): a positive packet size is
  a literal byte count to copy verbatim; a negative size is the count,
  negated, of a single following byte to replicate.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import "bytes"

// decodeLC applies an LC chunk body to dst in place.
func decodeLC(body []byte, dst RasterMut) error {
	c := newByteCursor(body)

	skipLines, err := c.readU16()
	if err != nil {
		return wrap(err, "LC skip lines")
	}
	numLines, err := c.readU16()
	if err != nil {
		return wrap(err, "LC line count")
	}

	h := dst.Height()
	y := int(skipLines)
	if y+int(numLines) > h {
		return ErrCorrupted
	}

	for i := 0; i < int(numLines); i++ {
		row := dst.row(y)
		if err := decodeLinePackets(c, row); err != nil {
			return err
		}
		y++
	}
	return nil
}

// decodeLinePackets decodes one line's worth of LC packets into row,
// starting from a fresh packet count byte.
func decodeLinePackets(c *byteCursor, row []byte) error {
	packetCount, err := c.readU8()
	if err != nil {
		return wrap(err, "line packet count")
	}

	x := 0
	for p := 0; p < int(packetCount); p++ {
		skip, err := c.readU8()
		if err != nil {
			return wrap(err, "packet skip")
		}
		x += int(skip)

		size, err := c.readI8()
		if err != nil {
			return wrap(err, "packet size")
		}

		if size >= 0 {
			n := size
			if x+n > len(row) {
				return ErrCorrupted
			}
			for k := 0; k < n; k++ {
				v, err := c.readU8()
				if err != nil {
					return wrap(err, "literal byte")
				}
				row[x+k] = v
			}
			x += n
		} else {
			n := -size
			if x+n > len(row) {
				return ErrCorrupted
			}
			v, err := c.readU8()
			if err != nil {
				return wrap(err, "replicate byte")
			}
			for k := 0; k < n; k++ {
				row[x+k] = v
			}
			x += n
		}
	}
	return nil
}

// encodeLC writes an LC chunk body describing the change from old to
// new. Both rasters must have identical dimensions.
func encodeLC(old, new Raster) ([]byte, error) {
	if old.Width() != new.Width() || old.Height() != new.Height() {
		return nil, ErrWrongResolution
	}
	h := new.Height()

	firstChanged, lastChanged := -1, -1
	for y := 0; y < h; y++ {
		if !bytes.Equal(old.row(y), new.row(y)) {
			if firstChanged < 0 {
				firstChanged = y
			}
			lastChanged = y
		}
	}

	b := newByteBuilder()
	if firstChanged < 0 {
		b.writeU16(0)
		b.writeU16(0)
		return b.bytes(), nil
	}

	b.writeU16(uint16(firstChanged))
	numLines := lastChanged - firstChanged + 1
	b.writeU16(uint16(numLines))

	for y := firstChanged; y <= lastChanged; y++ {
		if bytes.Equal(old.row(y), new.row(y)) {
			b.writeU8(0)
			continue
		}
		if err := encodeLinePackets(b, old.row(y), new.row(y)); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}

// encodeLinePackets appends one line's worth of packets to b, always
// as replicate packets: groupByRuns guarantees each diff run is a
// constant-valued run, so a literal-copy packet is never cheaper.
func encodeLinePackets(b *byteBuilder, oldRow, newRow []byte) error {
	countOff := b.len()
	b.writeU8(0) // packet count, backpatched below

	it := newGroupByRuns(oldRow, newRow).setIgnoreFinalSameRun()
	skip := 0
	numPackets := 0

	for {
		g, ok := it.next()
		if !ok {
			break
		}
		if g.kind == groupSame {
			skip += g.n
			continue
		}

		value := newRow[g.start]
		remaining := g.n
		first := true
		for remaining > 0 {
			n := remaining
			if n > 128 {
				n = 128
			}

			for skip > 255 {
				if !fitsU8(numPackets) {
					return ErrExceededLimit
				}
				b.writeU8(255)
				b.writeI8(0)
				numPackets++
				skip -= 255
			}

			s := 0
			if first {
				s = skip
				first = false
			}
			if !fitsU8(s) {
				return ErrExceededLimit
			}
			b.writeU8(byte(s))
			b.writeI8(-n)
			b.writeU8(value)
			numPackets++
			skip = 0

			remaining -= n
		}
	}

	if !fitsU8(numPackets) {
		return ErrExceededLimit
	}
	b.bytes()[countOff] = byte(numPackets)
	return nil
}
