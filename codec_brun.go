/*
NAME
  codec_brun.go

DESCRIPTION
  codec_brun.go implements the BRUN ("byte run length") chunk type,
  a whole-frame RLE codec used for the first frame of an animation and
  for postage stamp pixel data. Its packet sign convention is the
  mirror image of LC/SS2: a positive packet size replicates one
  following pixel, a negative size copies the following pixels
  literally.

  Each line's leading packet-count byte is a holdover from the
  original Animator and is not trusted on decode; the raster's width
  drives how many packets are read per line instead, since a wide
  enough line can need more packets than a byte can count.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

// decodeBRUN applies a BRUN chunk body to dst in place.
func decodeBRUN(body []byte, dst RasterMut) error {
	c := newByteCursor(body)
	w, h := dst.Width(), dst.Height()

	for y := 0; y < h; y++ {
		row := dst.row(y)
		if _, err := c.readU8(); err != nil { // line packet count, ignored
			return wrap(err, "BRUN line count")
		}

		x := 0
		for x < w {
			size, err := c.readI8()
			if err != nil {
				return wrap(err, "BRUN packet size")
			}

			if size >= 0 {
				n := size
				if x+n > w {
					return ErrCorrupted
				}
				v, err := c.readU8()
				if err != nil {
					return wrap(err, "BRUN replicate byte")
				}
				for k := 0; k < n; k++ {
					row[x+k] = v
				}
				x += n
			} else {
				n := -size
				if x+n > w {
					return ErrCorrupted
				}
				if err := c.readExact(row[x : x+n]); err != nil {
					return wrap(err, "BRUN literal bytes")
				}
				x += n
			}
		}
	}
	return nil
}

// brunState is the BRUN row encoder's one-packet lookahead: either a
// replicate run (a single constant value repeated n times) or a
// literal run accumulated by merging short replicate runs together
// when that is cheaper than emitting them as separate packets.
type brunState struct {
	diff  bool
	start int
	n     int
}

// encodeBRUN writes a whole-frame BRUN chunk body for src, merging
// short runs per the table in the BRUN codec's row encoder.
func encodeBRUN(src Raster) ([]byte, error) {
	b := newByteBuilder()
	h := src.Height()

	for y := 0; y < h; y++ {
		row := src.row(y)
		countOff := b.len()
		b.writeU8(0) // line packet count, patched below if it fits

		numPackets := 0
		emit := func(s brunState) error {
			n, err := emitBrunRun(b, row, s)
			numPackets += n
			return err
		}

		var state *brunState
		it := newGroupByValue(row)
		for {
			g, ok := it.next()
			if !ok {
				break
			}
			if state == nil {
				state = &brunState{start: g.start, n: g.n}
				continue
			}
			if !state.diff {
				if 1+state.n+g.n <= 4 {
					state = &brunState{diff: true, start: state.start, n: state.n + g.n}
					continue
				}
				if err := emit(*state); err != nil {
					return nil, err
				}
				state = &brunState{start: g.start, n: g.n}
			} else {
				if g.n <= 2 {
					state.n += g.n
					continue
				}
				if err := emit(*state); err != nil {
					return nil, err
				}
				state = &brunState{start: g.start, n: g.n}
			}
		}
		if state != nil {
			if err := emit(*state); err != nil {
				return nil, err
			}
		}

		if fitsU8(numPackets) {
			b.bytes()[countOff] = byte(numPackets)
		}
	}
	if b.len()%2 != 0 {
		b.writeU8(0)
	}
	return b.bytes(), nil
}

// emitBrunRun writes s as one or more packets (splitting oversized
// runs at the signed-byte limit) and returns how many packets it
// produced.
func emitBrunRun(b *byteBuilder, row []byte, s brunState) (int, error) {
	n := 0
	if !s.diff {
		value := row[s.start]
		remaining := s.n
		for remaining > 0 {
			chunk := remaining
			if chunk > 127 {
				chunk = 127
			}
			b.writeI8(chunk)
			b.writeU8(value)
			n++
			remaining -= chunk
		}
		return n, nil
	}

	pos := s.start
	remaining := s.n
	for remaining > 0 {
		chunk := remaining
		if chunk > 128 {
			chunk = 128
		}
		b.writeI8(-chunk)
		b.write(row[pos : pos+chunk])
		n++
		pos += chunk
		remaining -= chunk
	}
	return n, nil
}
