/*
NAME
  codec_legacy.go

DESCRIPTION
  codec_legacy.go implements the two chunk types left over from very
  early, pre-Animator-Pro development FLICs: WRUN (word run length)
  and SBSRSC (the last name lost to history along with most FLICs that
  used it). Both only ever make sense for a full 320x200 frame, and
  neither is ever produced by this package's encoder - they are
  decode-only, for reading files old enough to predate LC.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

func checkLegacyResolution(dst RasterMut) error {
	if dst.Width() != 320 || dst.Height() != 200 {
		return ErrWrongResolution
	}
	return nil
}

// decodeWRUN applies a WRUN chunk body to dst in place. Its packet
// size is a 16-bit field even though only the low signed byte is
// meaningful, a quirk of the format this decoder reproduces exactly.
// Sign convention matches BRUN: positive replicates, negative copies.
func decodeWRUN(body []byte, dst RasterMut) error {
	if err := checkLegacyResolution(dst); err != nil {
		return err
	}
	buf := dst.visible()
	c := newByteCursor(body)

	count, err := c.readU16()
	if err != nil {
		return wrap(err, "WRUN packet count")
	}

	idx := 0
	for i := 0; i < int(count); i++ {
		raw, err := c.readU16()
		if err != nil {
			return wrap(err, "WRUN packet size")
		}
		size := int(int8(raw))

		if size >= 0 {
			n := 2 * size
			if idx+n > len(buf) {
				return ErrCorrupted
			}
			c0, err := c.readU8()
			if err != nil {
				return wrap(err, "WRUN replicate word")
			}
			c1, err := c.readU8()
			if err != nil {
				return wrap(err, "WRUN replicate word")
			}
			for k := idx; k < idx+n; k += 2 {
				buf[k] = c0
				buf[k+1] = c1
			}
			idx += n
		} else {
			n := 2 * -size
			if idx+n > len(buf) {
				return ErrCorrupted
			}
			if err := c.readExact(buf[idx : idx+n]); err != nil {
				return wrap(err, "WRUN literal words")
			}
			idx += n
		}
	}
	return nil
}

// decodeSBSRSC applies an SBSRSC chunk body to dst in place. Sign
// convention matches LC/SS2: positive copies, negative replicates.
func decodeSBSRSC(body []byte, dst RasterMut) error {
	if err := checkLegacyResolution(dst); err != nil {
		return err
	}
	buf := dst.visible()
	c := newByteCursor(body)

	idx, err := c.readU16()
	if err != nil {
		return wrap(err, "SBSRSC base offset")
	}
	count, err := c.readU16()
	if err != nil {
		return wrap(err, "SBSRSC packet count")
	}

	pos := int(idx)
	for i := 0; i < int(count); i++ {
		skip, err := c.readU8()
		if err != nil {
			return wrap(err, "SBSRSC packet skip")
		}
		pos += int(skip)

		size, err := c.readI8()
		if err != nil {
			return wrap(err, "SBSRSC packet size")
		}

		if size >= 0 {
			n := size
			if pos+n > len(buf) {
				return ErrCorrupted
			}
			if err := c.readExact(buf[pos : pos+n]); err != nil {
				return wrap(err, "SBSRSC literal bytes")
			}
			pos += n
		} else {
			n := -size
			if pos+n > len(buf) {
				return ErrCorrupted
			}
			v, err := c.readU8()
			if err != nil {
				return wrap(err, "SBSRSC replicate byte")
			}
			for k := pos; k < pos+n; k++ {
				buf[k] = v
			}
			pos += n
		}
	}
	return nil
}
