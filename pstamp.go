/*
NAME
  pstamp.go

DESCRIPTION
  pstamp.go builds and reads the postage stamp embedded in a FLIC's
  first frame: a thumbnail no larger than 100x63, remapped into a
  fixed 216-color "six-cube" palette so it stays legible regardless of
  whatever palette the full animation is using.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import "io"

// StandardPstampW and StandardPstampH are the largest postage stamp
// Animator Pro will ever create.
const (
	StandardPstampW = standardPstampW
	StandardPstampH = standardPstampH
)

// sixCubePalette writes the 216-entry six-cube palette into the
// first 216 entries of pal (768 bytes, 256 RGB triplets).
func sixCubePalette(pal []byte) {
	c := 0
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for bl := 0; bl < 6; bl++ {
				pal[3*c+0] = byte((r * 256) / 6)
				pal[3*c+1] = byte((g * 256) / 6)
				pal[3*c+2] = byte((bl * 256) / 6)
				c++
			}
		}
	}
}

// buildXlat256 builds a 256-entry translation table mapping each
// entry of pal to its nearest six-cube index.
func buildXlat256(pal []byte) [256]byte {
	var xlat [256]byte
	for c := 0; c < NumColors; c++ {
		r := uint32(pal[3*c+0])
		g := uint32(pal[3*c+1])
		b := uint32(pal[3*c+2])
		xlat[c] = byte((6*r/256)*36 + (6*g/256)*6 + (6*b/256))
	}
	return xlat
}

// applyXlat256 remaps every pixel of dst through xlat in place.
func applyXlat256(xlat [256]byte, dst RasterMut) {
	for y := 0; y < dst.Height(); y++ {
		row := dst.row(y)
		for i, v := range row {
			row[i] = xlat[v]
		}
	}
}

// getPstampSize returns the largest (sw, sh) with sw <= maxW,
// sh <= maxH, preserving w:h aspect ratio as closely as integer
// division allows. When all four arguments are positive it never
// returns zero in either dimension; otherwise it returns (0, 0).
func getPstampSize(maxW, maxH, w, h int) (int, int) {
	if maxW <= 0 || maxH <= 0 || w <= 0 || h <= 0 {
		return 0, 0
	}

	var sw, sh int
	if w*maxH/h > maxW {
		sw = maxW
		sh = h * maxW / w
	} else {
		sw = w * maxH / h
		sh = maxH
	}
	if sw <= 0 {
		sw = 1
	}
	if sh <= 0 {
		sh = 1
	}
	return sw, sh
}

// preparePstamp builds a dstW x dstH image sampled down from src and
// remapped through xlat.
func preparePstamp(src Raster, xlat [256]byte, dstW, dstH int) []byte {
	out := make([]byte, dstW*dstH)

	ys := newLinScale(src.Height(), dstH)
	for {
		sy, dy, ok := ys.next()
		if !ok {
			break
		}
		srcRow := src.row(sy)
		dstRow := out[dstW*dy : dstW*(dy+1)]

		xs := newLinScale(src.Width(), dstW)
		for {
			sx, dx, ok := xs.next()
			if !ok {
				break
			}
			dstRow[dx] = xlat[srcRow[sx]]
		}
	}
	return out
}

// decodeFpsCopy decodes an FPS_COPY sub-chunk body of dimensions
// srcW x srcH, scaling it up into dst.
func decodeFpsCopy(body []byte, srcW, srcH int, dst RasterMut) error {
	if srcW <= 0 || srcH <= 0 || srcW*srcH > len(body) {
		return ErrWrongResolution
	}
	return scaleBufferInto(body, srcW, srcH, dst)
}

// decodeFpsBrun decodes an FPS_BRUN sub-chunk body of dimensions
// srcW x srcH, scaling it up into dst.
func decodeFpsBrun(body []byte, srcW, srcH int, dst RasterMut) error {
	if srcW <= 0 || srcH <= 0 {
		return ErrWrongResolution
	}
	tmpPal := make([]byte, PaletteSize)
	tmp := NewRasterMut(srcW, srcH, make([]byte, srcW*srcH), tmpPal)
	if err := decodeBRUN(body, tmp); err != nil {
		return err
	}
	return scaleBufferInto(tmp.asRaster().visible(), srcW, srcH, dst)
}

func scaleBufferInto(buf []byte, srcW, srcH int, dst RasterMut) error {
	for dy := 0; dy < dst.Height(); dy++ {
		sy := linScaleIndex(srcH, dst.Height(), dy)
		srcRow := buf[srcW*sy : srcW*(sy+1)]
		dstRow := dst.row(dy)
		for dx := 0; dx < dst.Width(); dx++ {
			sx := linScaleIndex(srcW, dst.Width(), dx)
			dstRow[dx] = srcRow[sx]
		}
	}
	return nil
}

// PostageStamp accumulates the chunks of a first frame until it has
// enough information (an image, plus a palette or translation table)
// to produce the finished thumbnail in dst.
type PostageStamp struct {
	flicW, flicH int
	haveImage    bool
	havePalette  bool
	haveXlat256  bool
	applyXlat256 bool
	xlat256      [256]byte
	dst          RasterMut
}

// NewPostageStamp allocates a postage stamp builder targeting dst,
// which must already be sized to the desired stamp dimensions.
// flicW/flicH are the full animation's frame dimensions.
func NewPostageStamp(flicW, flicH int, dst RasterMut) *PostageStamp {
	if flicW <= 0 || flicH <= 0 {
		panic("flic: NewPostageStamp requires a positive frame size")
	}
	return &PostageStamp{
		flicW: flicW, flicH: flicH,
		applyXlat256: true,
		dst:          dst,
	}
}

// Feed processes one chunk of the first frame. It returns true once
// the postage stamp is complete.
func (p *PostageStamp) Feed(magic uint16, body []byte) (bool, error) {
	switch magic {
	case chunkColor256:
		if !p.haveXlat256 {
			if err := decodeColor256(body, p.dst.Palette()); err != nil {
				return false, err
			}
			p.havePalette = true
		}
	case chunkColor64:
		if !p.haveXlat256 {
			if err := decodeColor64(body, p.dst.Palette()); err != nil {
				return false, err
			}
			p.havePalette = true
		}
	case chunkBlack:
		decodeBlack(p.dst)
		p.haveImage = true
		p.applyXlat256 = false
	case chunkICOLORS:
		if !p.haveXlat256 {
			if err := decodeICOLORS(p.dst.Palette()); err != nil {
				return false, err
			}
			p.havePalette = true
		}
	case chunkBRUN:
		if err := decodeFpsBrun(body, p.flicW, p.flicH, p.dst); err != nil {
			return false, err
		}
		p.haveImage = true
	case chunkCopy:
		if err := decodeFpsCopy(body, p.flicW, p.flicH, p.dst); err != nil {
			return false, err
		}
		p.haveImage = true
	case chunkPstamp:
		created, err := decodeFliPstamp(body, p.dst, &p.xlat256)
		if err != nil {
			// A malformed embedded stamp is not fatal: a stamp can
			// still be built from scratch from the rest of the frame.
			break
		}
		if created {
			p.haveImage = true
			p.applyXlat256 = false
		} else {
			p.haveXlat256 = true
		}
	default:
		return false, ErrBadMagic
	}

	done := p.haveImage && (p.havePalette || p.haveXlat256 || !p.applyXlat256)
	if done {
		if p.applyXlat256 {
			if !p.haveXlat256 {
				p.xlat256 = buildXlat256(p.dst.Palette())
			}
			applyXlat256(p.xlat256, p.dst)
		}
		sixCubePalette(p.dst.Palette())
	}
	return done, nil
}

// decodeFliPstamp decodes an embedded FLI_PSTAMP chunk, either
// producing an image directly into dst (true) or only loading a
// translation table into xlat256 (false).
func decodeFliPstamp(src []byte, dst RasterMut, xlat256 *[256]byte) (bool, error) {
	c := newByteCursor(src)

	height, err := c.readU16()
	if err != nil {
		return false, wrap(err, "pstamp height")
	}
	width, err := c.readU16()
	if err != nil {
		return false, wrap(err, "pstamp width")
	}
	if _, err := c.readU16(); err != nil { // xlate type, unchecked
		return false, wrap(err, "pstamp xlate")
	}

	size, err := c.readU32()
	if err != nil {
		return false, wrap(err, "pstamp sub-chunk size")
	}
	magic, err := c.readU16()
	if err != nil {
		return false, wrap(err, "pstamp sub-chunk type")
	}
	if size < 6 {
		return false, ErrCorrupted
	}

	const headerLen = 12
	start := headerLen
	end := start + int(size) - 6
	if end > len(src) {
		return false, ErrCorrupted
	}

	switch magic {
	case fpsBrun:
		if width == 0 || height == 0 {
			return false, ErrWrongResolution
		}
		if err := decodeFpsBrun(src[start:end], int(width), int(height), dst); err != nil {
			return false, err
		}
		return true, nil
	case fpsCopy:
		if width == 0 || height == 0 {
			return false, ErrWrongResolution
		}
		if err := decodeFpsCopy(src[start:end], int(width), int(height), dst); err != nil {
			return false, err
		}
		return true, nil
	case fpsXlat256:
		if size < 6+256 {
			return false, ErrCorrupted
		}
		copy(xlat256[:], src[start:start+256])
		return false, nil
	default:
		return false, ErrBadMagic
	}
}

const (
	sizeOfFullPstampChunk = sizeOfChunkHeader + 6 + sizeOfChunkHeader
)

// writePstampData writes a postage stamp chunk for next at the
// writer's current position. When next has fewer pixels than the
// stamp would, it writes an FPS_XLAT256 translation table alone;
// otherwise it writes the stamp image as FPS_BRUN if that is smaller
// than the raw stamp, else as FPS_COPY. It writes nothing (and returns
// 0) when next is solid black.
func writePstampData(next Raster, w io.WriteSeeker) (int, error) {
	if next.Width() > 0xFFFF || next.Height() > 0xFFFF {
		return 0, ErrExceededLimit
	}

	pstampW, pstampH := getPstampSize(StandardPstampW, StandardPstampH, next.Width(), next.Height())
	if pstampW <= 0 || pstampH <= 0 || canEncodeBlack(next) {
		return 0, nil
	}

	pos0, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if err := zeroPad(w, sizeOfFullPstampChunk); err != nil {
		return 0, err
	}
	pos1, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	xlat256 := buildXlat256(next.Palette())
	chunkSize := pstampW * pstampH
	chunkMagic := uint16(fpsCopy)

	if next.Width()*next.Height() < chunkSize {
		chunkSize = 256
		chunkMagic = fpsXlat256
		if _, err := w.Write(xlat256[:]); err != nil {
			return 0, err
		}
	}

	if chunkMagic == fpsCopy {
		buf := preparePstamp(next, xlat256, pstampW, pstampH)
		stamp := NewRaster(pstampW, pstampH, buf, next.Palette())

		brunBody, err := encodeBRUN(stamp)
		if err == nil && len(brunBody) < chunkSize {
			if _, werr := w.Write(brunBody); werr != nil {
				return 0, werr
			}
			chunkSize = len(brunBody)
			chunkMagic = fpsBrun
		}

		if chunkMagic == fpsCopy {
			if _, err := w.Seek(pos1, io.SeekStart); err != nil {
				return 0, err
			}
			copyBody := encodeCopy(stamp)
			if _, err := w.Write(copyBody); err != nil {
				return 0, err
			}
			chunkSize = len(copyBody)
		}
	}

	pos2, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.Seek(pos0, io.SeekStart); err != nil {
		return 0, err
	}

	total := sizeOfFullPstampChunk + chunkSize
	if uint64(total) > 0xFFFFFFFF {
		return 0, ErrExceededLimit
	}

	if err := writeU32To(w, uint32(total)); err != nil {
		return 0, err
	}
	if err := writeU16To(w, chunkPstamp); err != nil {
		return 0, err
	}
	if err := writeU16To(w, uint16(pstampH)); err != nil {
		return 0, err
	}
	if err := writeU16To(w, uint16(pstampW)); err != nil {
		return 0, err
	}
	if err := writeU16To(w, pstampSixCube); err != nil {
		return 0, err
	}
	if err := writeU32To(w, uint32(sizeOfChunkHeader+chunkSize)); err != nil {
		return 0, err
	}
	if err := writeU16To(w, chunkMagic); err != nil {
		return 0, err
	}

	if _, err := w.Seek(pos2, io.SeekStart); err != nil {
		return 0, err
	}
	return int(pos2 - pos0), nil
}
