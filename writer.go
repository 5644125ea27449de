/*
NAME
  writer.go

DESCRIPTION
  writer.go implements the container writer: each call to WriteNextFrame
  picks the smallest valid encoding for the palette and pixel change
  since the previous frame, and Close synthesizes the ring frame that
  lets playback loop back to the first frame without a visible jump.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import (
	"bytes"
	"io"
	"time"
)

// FlicFileWriter writes a FLIC container one frame at a time. Frames
// after the first are automatically delta-encoded against the frame
// before them.
type FlicFileWriter struct {
	w             io.WriteSeeker
	width, height int
	isFLC         bool

	creator, updater         uint32
	created, updated         uint32
	aspectX, aspectY         uint16

	frameCount   int
	frameOffsets []int64
	ringOffset   int64

	firstPal, firstPix []byte
	prevPal, prevPix   []byte

	closed bool
}

// CreateFLC begins writing an Animator Pro FLC of the given frame
// size to w, reserving its 128-byte header at the writer's current
// position. Close writes the finished header at offset 0 of w.
func CreateFLC(w io.WriteSeeker, width, height int) (*FlicFileWriter, error) {
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return nil, ErrWrongResolution
	}
	return newWriter(w, width, height, true)
}

// CreateFLI begins writing an original Animator FLI, always 320x200,
// to w.
func CreateFLI(w io.WriteSeeker) (*FlicFileWriter, error) {
	return newWriter(w, 320, 200, false)
}

func newWriter(w io.WriteSeeker, width, height int, isFLC bool) (*FlicFileWriter, error) {
	if err := zeroPad(w, sizeOfFileHeader); err != nil {
		return nil, wrap(err, "reserve file header")
	}
	now := uint32(time.Now().Unix())
	return &FlicFileWriter{
		w: w, width: width, height: height, isFLC: isFLC,
		created: now, updated: now, updater: updaterFLRS, creator: updaterFLRS,
	}, nil
}

// SetCreator overrides the FLC creator ID (FLI ignores it).
func (fw *FlicFileWriter) SetCreator(id uint32) { fw.creator = id }

// SetUpdater overrides the FLC updater ID (FLI ignores it).
func (fw *FlicFileWriter) SetUpdater(id uint32) { fw.updater = id }

// SetAspectRatio sets the FLC pixel aspect ratio (FLI ignores it). If
// either component is 0, Close writes 1:1.
func (fw *FlicFileWriter) SetAspectRatio(x, y uint16) { fw.aspectX, fw.aspectY = x, y }

// Closed reports whether Close has already run.
func (fw *FlicFileWriter) Closed() bool { return fw.closed }

// FrameCount returns the number of frames written so far, not
// counting the ring frame Close will add.
func (fw *FlicFileWriter) FrameCount() int { return fw.frameCount }

// WriteNextFrame encodes frame as the next frame of the animation. The
// first call establishes the animation's starting image and palette;
// every later call is encoded as a delta against the previous frame.
func (fw *FlicFileWriter) WriteNextFrame(frame Raster) error {
	if fw.closed {
		return ErrBadInput
	}
	if frame.Width() != fw.width || frame.Height() != fw.height {
		return ErrWrongResolution
	}

	pos0, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return wrap(err, "seek frame start")
	}
	if err := zeroPad(fw.w, sizeOfFrameHeader); err != nil {
		return wrap(err, "reserve frame header")
	}

	var old *Raster
	if fw.frameCount > 0 {
		r := NewRaster(fw.width, fw.height, fw.prevPix, fw.prevPal)
		old = &r
	}

	numChunks, err := fw.writeFrameBody(old, frame, fw.isFLC && fw.frameCount == 0)
	if err != nil {
		return err
	}

	if err := fw.backpatchFrameHeader(pos0, numChunks); err != nil {
		return err
	}

	fw.frameOffsets = append(fw.frameOffsets, pos0)
	fw.snapshot(frame)
	fw.frameCount++
	return nil
}

// snapshot copies frame's pixels and palette so later calls (and
// Close's ring frame) can diff against them without the caller's
// buffer being aliased.
func (fw *FlicFileWriter) snapshot(frame Raster) {
	pix := append([]byte(nil), frame.visible()...)
	pal := append([]byte(nil), frame.Palette()...)
	if fw.frameCount == 0 {
		fw.firstPix, fw.firstPal = pix, pal
	}
	fw.prevPix, fw.prevPal = pix, pal
}

// backpatchFrameHeader fills in a frame header reserved at pos0 once
// its size and chunk count are known.
func (fw *FlicFileWriter) backpatchFrameHeader(pos0 int64, numChunks int) error {
	pos1, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	size := pos1 - pos0
	if size > 0xFFFFFFFF {
		return ErrExceededLimit
	}

	if _, err := fw.w.Seek(pos0, io.SeekStart); err != nil {
		return err
	}
	if err := writeU32To(fw.w, uint32(size)); err != nil {
		return err
	}
	if err := writeU16To(fw.w, magicFrame); err != nil {
		return err
	}
	if err := writeU16To(fw.w, uint16(numChunks)); err != nil {
		return err
	}
	if _, err := fw.w.Seek(pos1, io.SeekStart); err != nil {
		return err
	}
	return nil
}

// writeFrameBody writes the optional postage stamp, palette, and pixel
// chunks making up one frame's subordinate chunk list, choosing the
// smallest valid pixel encoding among BLACK, LC, SS2 (FLC only), BRUN,
// and COPY.
func (fw *FlicFileWriter) writeFrameBody(old *Raster, new Raster, withPstamp bool) (int, error) {
	numChunks := 0

	if withPstamp {
		start, err := fw.w.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, wrap(err, "seek pstamp start")
		}
		n, err := writePstampData(new, fw.w)
		if err != nil {
			// The postage stamp is optional: rewind over whatever was
			// written of it and carry on without one.
			if _, err := fw.w.Seek(start, io.SeekStart); err != nil {
				return 0, wrap(err, "rewind pstamp")
			}
		} else if n > 0 {
			numChunks++
		}
	}

	palChunk, err := fw.buildPaletteChunk(old, new)
	if err != nil {
		return numChunks, err
	}
	if palChunk != nil {
		if err := writeChunk(fw.w, palChunk.magic, palChunk.body); err != nil {
			return numChunks, err
		}
		numChunks++
	}

	pixChunk := fw.bestPixelChunk(old, new)
	if err := writeChunk(fw.w, pixChunk.magic, pixChunk.body); err != nil {
		return numChunks, err
	}
	numChunks++

	return numChunks, nil
}

type chunkCandidate struct {
	magic uint16
	body  []byte
}

// buildPaletteChunk returns a full-palette chunk when old is nil, a
// delta chunk when the palette actually changed, or nil when it
// didn't. FLC always uses COLOR256; FLI uses its older COLOR64
// ancestor, matching which chunk type each format's native tools wrote.
func (fw *FlicFileWriter) buildPaletteChunk(old *Raster, new Raster) (*chunkCandidate, error) {
	var oldPal []byte
	if old != nil {
		if bytes.Equal(old.Palette(), new.Palette()) {
			return nil, nil
		}
		oldPal = old.Palette()
	}

	var body []byte
	var err error
	var magic uint16
	if fw.isFLC {
		body, err = encodeColor256(oldPal, new.Palette())
		magic = chunkColor256
	} else {
		body, err = encodeColor64(oldPal, new.Palette())
		magic = chunkColor64
	}
	if err != nil {
		return nil, err
	}
	return &chunkCandidate{magic: magic, body: body}, nil
}

func (fw *FlicFileWriter) bestPixelChunk(old *Raster, new Raster) chunkCandidate {
	var candidates []chunkCandidate

	if canEncodeBlack(new) {
		candidates = append(candidates, chunkCandidate{chunkBlack, nil})
	}
	if old != nil {
		if body, err := encodeLC(*old, new); err == nil {
			candidates = append(candidates, chunkCandidate{chunkLC, body})
		}
		if fw.isFLC {
			if body, err := encodeSS2(*old, new); err == nil {
				candidates = append(candidates, chunkCandidate{chunkSS2, body})
			}
		}
	}
	if body, err := encodeBRUN(new); err == nil {
		candidates = append(candidates, chunkCandidate{chunkBRUN, body})
	}
	candidates = append(candidates, chunkCandidate{chunkCopy, encodeCopy(new)})

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.body) < len(best.body) {
			best = c
		}
	}
	return best
}

// writeChunk writes a 6-byte chunk header followed by body, padding
// the body by one zero byte when the chunk's total size would
// otherwise be odd.
func writeChunk(w io.Writer, magic uint16, body []byte) error {
	total := sizeOfChunkHeader + len(body)
	pad := total%2 != 0
	if pad {
		total++
	}
	if err := writeU32To(w, uint32(total)); err != nil {
		return err
	}
	if err := writeU16To(w, magic); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	if pad {
		return writeU8To(w, 0)
	}
	return nil
}

// Close writes the ring frame (a delta from the last frame back to the
// first) and backpatches the file header. Calling it again after it
// has succeeded is a no-op that returns nil; calling it on a writer
// with no frames returns ErrBadInput and writes nothing.
func (fw *FlicFileWriter) Close() error {
	if fw.closed {
		return nil
	}
	if fw.frameCount == 0 {
		return ErrBadInput
	}

	ringPos0, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return wrap(err, "seek ring frame start")
	}
	if err := zeroPad(fw.w, sizeOfFrameHeader); err != nil {
		return wrap(err, "reserve ring frame header")
	}

	oldRaster := NewRaster(fw.width, fw.height, fw.prevPix, fw.prevPal)
	firstRaster := NewRaster(fw.width, fw.height, fw.firstPix, fw.firstPal)

	numChunks, err := fw.writeFrameBody(&oldRaster, firstRaster, false)
	if err != nil {
		return err
	}
	if err := fw.backpatchFrameHeader(ringPos0, numChunks); err != nil {
		return err
	}
	fw.ringOffset = ringPos0

	fileEnd, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return wrap(err, "seek file end")
	}

	if err := fw.writeFileHeader(fileEnd); err != nil {
		return err
	}
	if _, err := fw.w.Seek(fileEnd, io.SeekStart); err != nil {
		return wrap(err, "seek back to file end")
	}

	fw.closed = true
	return nil
}

func (fw *FlicFileWriter) writeFileHeader(fileSize int64) error {
	if _, err := fw.w.Seek(0, io.SeekStart); err != nil {
		return wrap(err, "seek file header")
	}

	magic := uint16(magicFLI)
	flags := uint16(0)
	if fw.isFLC {
		magic = magicFLC
		flags = 3
	}

	if err := writeU32To(fw.w, uint32(fileSize)); err != nil {
		return err
	}
	if err := writeU16To(fw.w, magic); err != nil {
		return err
	}
	if err := writeU16To(fw.w, uint16(fw.frameCount)); err != nil {
		return err
	}
	if err := writeU16To(fw.w, uint16(fw.width)); err != nil {
		return err
	}
	if err := writeU16To(fw.w, uint16(fw.height)); err != nil {
		return err
	}
	if err := writeU16To(fw.w, 8); err != nil { // depth: always 8 bits/pixel
		return err
	}
	if err := writeU16To(fw.w, flags); err != nil {
		return err
	}
	if err := writeU32To(fw.w, 70); err != nil { // speed: always 70 (milliseconds on FLC, jiffies on FLI)
		return err
	}
	if err := zeroPad(fw.w, 2); err != nil { // reserved1
		return err
	}

	if !fw.isFLC {
		return zeroPad(fw.w, sizeOfFileHeader-22)
	}

	if err := writeU32To(fw.w, fw.created); err != nil {
		return err
	}
	if err := writeU32To(fw.w, fw.creator); err != nil {
		return err
	}
	if err := writeU32To(fw.w, fw.updated); err != nil {
		return err
	}
	if err := writeU32To(fw.w, fw.updater); err != nil {
		return err
	}
	aspectX, aspectY := fw.aspectX, fw.aspectY
	if aspectX == 0 || aspectY == 0 {
		aspectX, aspectY = 1, 1
	}
	if err := writeU16To(fw.w, aspectX); err != nil {
		return err
	}
	if err := writeU16To(fw.w, aspectY); err != nil {
		return err
	}
	if err := zeroPad(fw.w, 38); err != nil { // reserved2
		return err
	}

	var oframe1, oframe2 uint32
	if len(fw.frameOffsets) > 0 {
		oframe1 = uint32(fw.frameOffsets[0])
	}
	if len(fw.frameOffsets) > 1 {
		oframe2 = uint32(fw.frameOffsets[1])
	}
	if err := writeU32To(fw.w, oframe1); err != nil {
		return err
	}
	if err := writeU32To(fw.w, oframe2); err != nil {
		return err
	}
	return zeroPad(fw.w, 40) // reserved3
}
