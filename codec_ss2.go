/*
NAME
  codec_ss2.go

DESCRIPTION
  codec_ss2.go implements the SS2 ("word aligned delta compression")
  chunk type, the delta codec Animator Pro favours for every frame but
  the first. It is line-oriented like LC, but every quantity -
  skips, copies, replications - operates on 2-byte words rather than
  single bytes, and each line is prefixed by zero or more meta-words
  that can skip whole lines or patch a single odd trailing byte before
  the line's own packet count.

  Meta-word dispatch, keyed on the high two bits:

    bit15 bit14   meaning
      0     0     plain packet count for this line
      1     0     low byte patches the line's last byte; another word,
                   the real packet count, follows
      1     1     line-skip count, the negated value of the word

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import "bytes"

// decodeSS2 applies an SS2 chunk body to dst in place.
func decodeSS2(body []byte, dst RasterMut) error {
	c := newByteCursor(body)
	h := dst.Height()

	remaining, err := c.readU16()
	if err != nil {
		return wrap(err, "SS2 line count")
	}

	y := 0
	for y < h && remaining > 0 {
		count, err := c.readU16()
		if err != nil {
			return wrap(err, "SS2 meta word")
		}

		if count&0x8000 != 0 {
			if count&0x4000 != 0 {
				// Line skip: magnitude is the negation of the
				// signed 16-bit value.
				y += int(-int16(count))
				continue
			}

			// Patch the line's last byte, then read the real
			// packet count (never re-tested for meta bits).
			row := dst.row(y)
			if len(row) == 0 {
				return ErrCorrupted
			}
			row[len(row)-1] = byte(count)

			count, err = c.readU16()
			if err != nil {
				return wrap(err, "SS2 packet count")
			}
			if count == 0 {
				y++
				remaining--
				continue
			}
		}

		row := dst.row(y)
		if err := decodeSS2LinePackets(c, row, int(count)); err != nil {
			return err
		}
		y++
		remaining--
	}
	return nil
}

func decodeSS2LinePackets(c *byteCursor, row []byte, packetCount int) error {
	x := 0
	for p := 0; p < packetCount; p++ {
		skip, err := c.readU8()
		if err != nil {
			return wrap(err, "SS2 packet skip")
		}
		// The per-packet skip, unlike the replicate/literal lengths
		// that follow it, counts bytes rather than words.
		x += int(skip)

		size, err := c.readI8()
		if err != nil {
			return wrap(err, "SS2 packet size")
		}

		if size >= 0 {
			n := 2 * size
			if x+n > len(row) {
				return ErrCorrupted
			}
			if err := c.readExact(row[x : x+n]); err != nil {
				return wrap(err, "SS2 literal words")
			}
			x += n
		} else {
			n := 2 * -size
			var word [2]byte
			if err := c.readExact(word[:]); err != nil {
				return wrap(err, "SS2 replicate word")
			}
			if x+n > len(row) {
				return ErrCorrupted
			}
			for k := x; k < x+n; k += 2 {
				row[k] = word[0]
				row[k+1] = word[1]
			}
			x += n
		}
	}
	return nil
}

// encodeSS2 writes an SS2 chunk body describing the change from old
// to new.
func encodeSS2(old, new Raster) ([]byte, error) {
	if old.Width() != new.Width() || old.Height() != new.Height() {
		return nil, ErrWrongResolution
	}
	w, h := new.Width(), new.Height()

	var changedLines []int
	for y := 0; y < h; y++ {
		if !bytes.Equal(old.row(y), new.row(y)) {
			changedLines = append(changedLines, y)
		}
	}

	b := newByteBuilder()
	b.writeU16(0) // line count, backpatched below
	if len(changedLines) == 0 {
		return b.bytes(), nil
	}

	prevY := -1
	for _, y := range changedLines {
		gap := y - prevY - 1
		if prevY < 0 {
			gap = y
		}
		if err := writeSS2Skip(b, gap); err != nil {
			return nil, err
		}
		if err := encodeSS2Line(b, old.row(y), new.row(y), w); err != nil {
			return nil, err
		}
		prevY = y
	}

	if !fitsU16(len(changedLines)) {
		return nil, ErrExceededLimit
	}
	b.patchU16(0, uint16(len(changedLines)))
	return b.bytes(), nil
}

func writeSS2Skip(b *byteBuilder, n int) error {
	for n > 0 {
		k := n
		if k > 16384 {
			k = 16384
		}
		b.writeU16(uint16(int16(-k)))
		n -= k
	}
	return nil
}

func encodeSS2Line(b *byteBuilder, oldRow, newRow []byte, w int) error {
	wordsW := w / 2
	oddTail := w%2 == 1 && oldRow[w-1] != newRow[w-1]

	if oddTail {
		b.writeU16(0x8000 | uint16(newRow[w-1]))
	}

	countOff := b.len()
	b.writeU16(0) // packet count, backpatched below

	numPackets := 0
	skipBytes := 0 // a packet's skip field counts bytes, not words
	i := 0
	for i < wordsW {
		if bytes.Equal(oldRow[2*i:2*i+2], newRow[2*i:2*i+2]) {
			j := i
			for j < wordsW && bytes.Equal(oldRow[2*j:2*j+2], newRow[2*j:2*j+2]) {
				j++
			}
			skipBytes += 2 * (j - i)
			i = j
			continue
		}

		v0, v1 := newRow[2*i], newRow[2*i+1]
		j := i
		for j < wordsW &&
			!bytes.Equal(oldRow[2*j:2*j+2], newRow[2*j:2*j+2]) &&
			newRow[2*j] == v0 && newRow[2*j+1] == v1 {
			j++
		}
		n := j - i

		remaining := n
		first := true
		for remaining > 0 {
			chunk := remaining
			if chunk > 128 {
				chunk = 128
			}

			for skipBytes > 254 {
				if !fitsU8(numPackets) {
					return ErrExceededLimit
				}
				b.writeU8(254)
				b.writeI8(0)
				numPackets++
				skipBytes -= 254
			}

			s := 0
			if first {
				s = skipBytes
				first = false
			}
			if !fitsU8(s) {
				return ErrExceededLimit
			}
			b.writeU8(byte(s))
			b.writeI8(-chunk)
			b.writeU8(v0)
			b.writeU8(v1)
			numPackets++
			skipBytes = 0

			remaining -= chunk
		}
		i = j
	}

	if !fitsU16(numPackets) {
		return ErrExceededLimit
	}
	b.patchU16(countOff, uint16(numPackets))
	return nil
}
