/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the container reader: it walks a FLIC's header
  and every frame's chunk table once at Open, then serves ReadNextFrame
  and ReadPostageStamp calls by seeking directly to the chunk bodies
  already indexed.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
)

// FileHeader is the decoded 128-byte FLIC file header. Fields marked
// FLC-only are zero when Magic is FLI.
type FileHeader struct {
	Size       uint32
	Magic      uint16
	FrameCount uint16
	Width      int
	Height     int
	Depth      uint16
	Flags      uint16
	Speed      uint32 // jiffies (FLI) or milliseconds (FLC)

	// FLC-only.
	Created uint32
	Creator uint32
	Updated uint32
	Updater uint32
	AspectX uint16
	AspectY uint16
	OFrame1 uint32
	OFrame2 uint32
}

// IsFLC reports whether the header is for an Animator Pro FLC, as
// opposed to an original Animator FLI.
func (h FileHeader) IsFLC() bool { return h.Magic == magicFLC }

type chunkID struct {
	offset int64
	size   uint32
	magic  uint16
}

type frameRecord struct {
	chunks []chunkID
}

// FlicPlaybackResult reports what ReadNextFrame did.
type FlicPlaybackResult struct {
	// Ended is true when the next call to ReadNextFrame will decode
	// the ring frame.
	Ended bool
	// Looped is true when this call just wrapped the cursor back to
	// frame 1 after decoding the ring frame.
	Looped bool
	// PaletteUpdated is true when some chunk in this frame changed
	// the palette.
	PaletteUpdated bool
}

// FlicFile is an open FLIC container positioned at a particular
// frame. It owns the underlying reader's cursor.
type FlicFile struct {
	hdr    FileHeader
	frames []frameRecord
	frame  int

	r   io.ReadSeeker
	c   io.Closer
	log logging.Logger
}

// OpenFile opens the FLIC file at path, reading its full header and
// frame index before returning.
func OpenFile(path string) (*FlicFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoFile
		}
		return nil, wrap(err, "stat")
	}
	if !fi.Mode().IsRegular() {
		return nil, ErrNotARegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(err, "open")
	}

	ff, err := Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	ff.c = f
	return ff, nil
}

// Open reads a FLIC's header and frame index from r, an already-open
// random-access reader. The caller retains ownership of r; Close only
// closes it if it also implements io.Closer and was opened via
// OpenFile. Warnings encountered while indexing frames (legacy chunk
// types, the COPY size bug, frame size mismatches) are discarded; use
// OpenWithLogger to surface them.
func Open(r io.ReadSeeker) (*FlicFile, error) {
	return OpenWithLogger(r, nil)
}

// OpenWithLogger is Open, but recoverable warnings found while
// indexing frames are reported to log instead of being discarded.
func OpenWithLogger(r io.ReadSeeker, log logging.Logger) (*FlicFile, error) {
	hdr, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}

	frames, err := readFrameHeaders(r, hdr, log)
	if err != nil {
		return nil, err
	}

	return &FlicFile{hdr: hdr, frames: frames, frame: 0, r: r, log: log}, nil
}

func (f *FlicFile) logf(level int8, msg string, params ...interface{}) {
	warnf(f.log, level, msg, params...)
}

func warnf(log logging.Logger, level int8, msg string, params ...interface{}) {
	if log == nil {
		return
	}
	log.Log(level, msg, params...)
}

// Close releases the underlying file handle, if FlicFile opened it
// itself via OpenFile.
func (f *FlicFile) Close() error {
	if f.c != nil {
		return f.c.Close()
	}
	return nil
}

// Header returns the parsed file header.
func (f *FlicFile) Header() FileHeader { return f.hdr }

// Frame returns the index of the next frame ReadNextFrame will decode.
func (f *FlicFile) Frame() int { return f.frame }

// FrameCount returns the frame count, not including the ring frame.
func (f *FlicFile) FrameCount() int { return int(f.hdr.FrameCount) }

// Width and Height return the FLIC's frame dimensions.
func (f *FlicFile) Width() int  { return f.hdr.Width }
func (f *FlicFile) Height() int { return f.hdr.Height }

func readFileHeader(r io.ReadSeeker) (FileHeader, error) {
	var buf [sizeOfFileHeader]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileHeader{}, wrap(err, "file header")
	}
	c := newByteCursor(buf[:])

	size, _ := c.readU32()
	magic, _ := c.readU16()
	if magic != magicFLI && magic != magicFLC {
		return FileHeader{}, ErrBadMagic
	}

	frameCount, _ := c.readU16()
	width, _ := c.readU16()
	height, _ := c.readU16()
	depth, _ := c.readU16()
	flags, _ := c.readU16()
	speed, _ := c.readU32() // jiffies in the low word for FLI, milliseconds for FLC
	c.skip(2)               // reserved1

	hdr := FileHeader{
		Size:       size,
		Magic:      magic,
		FrameCount: frameCount,
		Width:      int(width),
		Height:     int(height),
		Depth:      depth,
		Flags:      flags,
		Speed:      speed,
	}

	if magic == magicFLC {
		created, _ := c.readU32()
		creator, _ := c.readU32()
		updated, _ := c.readU32()
		updater, _ := c.readU32()
		aspectX, _ := c.readU16()
		aspectY, _ := c.readU16()
		c.skip(38) // reserved2
		oframe1, _ := c.readU32()
		oframe2, _ := c.readU32()

		hdr.Created = created
		hdr.Creator = creator
		hdr.Updated = updated
		hdr.Updater = updater
		hdr.AspectX = aspectX
		hdr.AspectY = aspectY
		hdr.OFrame1 = oframe1
		hdr.OFrame2 = oframe2
	}

	if magic == magicFLI && (hdr.Width != 320 || hdr.Height != 200) {
		return FileHeader{}, ErrWrongResolution
	}
	if magic == magicFLC && (hdr.Width == 0 || hdr.Height == 0) {
		return FileHeader{}, ErrWrongResolution
	}
	if frameCount == 0 {
		return FileHeader{}, ErrCorrupted
	}
	return hdr, nil
}

func readFrameHeaders(r io.ReadSeeker, hdr FileHeader, log logging.Logger) ([]frameRecord, error) {
	offset := int64(sizeOfFileHeader)
	frames := make([]frameRecord, 0, int(hdr.FrameCount)+1)

	for frameNum := 0; frameNum < int(hdr.FrameCount)+1; frameNum++ {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, wrap(err, "seek frame header")
		}

		headerStart := offset
		size, magic, err := readChunkHeader(r)
		if err != nil {
			return nil, err
		}

		if frameNum == 0 && magic == magicPrefix {
			// An optional prefix chunk occupies the position of the
			// first frame header: its own size/type header, a body of
			// settings sub-chunks this package never interprets, then
			// the real frame header immediately follows.
			if size < sizeOfChunkHeader || uint64(offset)+uint64(size) > uint64(hdr.Size) {
				return nil, ErrCorrupted
			}
			headerStart = offset + int64(size)
			if _, err := r.Seek(headerStart, io.SeekStart); err != nil {
				return nil, wrap(err, "seek past prefix chunk")
			}
			size, magic, err = readChunkHeader(r)
			if err != nil {
				return nil, err
			}
		}

		if magic != magicFrame {
			return nil, ErrBadMagic
		}
		if size < sizeOfFrameHeader || uint64(headerStart)+uint64(size) > uint64(hdr.Size) {
			return nil, ErrCorrupted
		}

		var rest [sizeOfFrameHeader - sizeOfChunkHeader]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return nil, wrap(err, "frame header")
		}
		numChunks := int(binary.LittleEndian.Uint16(rest[:2]))

		frameStart := headerStart + sizeOfFrameHeader
		frameEnd := headerStart + int64(size)

		chunks, err := readChunkHeaders(r, hdr, frameStart, uint32(frameEnd-frameStart), numChunks, log)
		if err != nil {
			return nil, err
		}

		if len(chunks) > 0 {
			last := chunks[len(chunks)-1]
			pos := last.offset + int64(last.size)
			if pos != frameEnd {
				warnf(log, logging.Warning, "flic: frame %d size mismatch: chunks end at %d, frame declares %d", frameNum, pos, frameEnd)
			}
		}

		frames = append(frames, frameRecord{chunks: chunks})
		offset = frameEnd
	}

	return frames, nil
}

func readChunkHeader(r io.ReadSeeker) (size uint32, magic uint16, err error) {
	var buf [sizeOfChunkHeader]byte
	if _, err = io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, wrap(err, "chunk header")
	}
	c := newByteCursor(buf[:])
	size, _ = c.readU32()
	magic, _ = c.readU16()
	return size, magic, nil
}

func readChunkHeaders(r io.ReadSeeker, hdr FileHeader, frameDataStart int64, frameSize uint32, numChunks int, log logging.Logger) ([]chunkID, error) {
	chunks := make([]chunkID, 0, numChunks)
	offset := frameDataStart

	for i := 0; i < numChunks; i++ {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, wrap(err, "seek chunk header")
		}
		size, magic, err := readChunkHeader(r)
		if err != nil {
			return nil, err
		}
		if size < sizeOfChunkHeader || size > frameSize {
			return nil, ErrCorrupted
		}

		bodySize := size

		switch magic {
		case chunkWRUN, chunkSBSRSC, chunkICOLORS:
			warnf(log, logging.Warning, "flic: chunk %d uses legacy type %#x", i, magic)
		case chunkCopy:
			// A bug in Animator and Animator Pro wrote FLI_COPY chunks
			// with size = data + 4 instead of data + 6.
			if want := uint32(hdr.Width*hdr.Height) + 4; size == want {
				bodySize = uint32(hdr.Width*hdr.Height) + sizeOfChunkHeader
				warnf(log, logging.Warning, "flic: chunk %d is an undersized COPY chunk, correcting size", i)
			}
		case chunkColor64, chunkColor256, chunkLC, chunkSS2, chunkBlack, chunkBRUN, chunkPstamp:
		default:
			warnf(log, logging.Warning, "flic: chunk %d has unknown type %#x", i, magic)
		}

		chunks = append(chunks, chunkID{
			offset: offset + sizeOfChunkHeader,
			size:   bodySize - sizeOfChunkHeader,
			magic:  magic,
		})
		offset += int64(size)
	}

	return chunks, nil
}

// ReadNextFrame decodes every subordinate chunk of the current frame
// into dst, then advances the frame cursor, wrapping via the ring
// frame when the end of the animation is reached.
func (f *FlicFile) ReadNextFrame(dst RasterMut) (FlicPlaybackResult, error) {
	var res FlicPlaybackResult

	if f.hdr.Width != dst.Width() || f.hdr.Height != dst.Height() {
		return res, ErrWrongResolution
	}

	frame := f.frames[f.frame]
	for _, ch := range frame.chunks {
		if _, err := f.r.Seek(ch.offset, io.SeekStart); err != nil {
			return res, wrap(err, "seek chunk body")
		}
		body := make([]byte, ch.size)
		if _, err := io.ReadFull(f.r, body); err != nil {
			return res, wrap(err, "chunk body")
		}

		if err := decodeChunk(ch.magic, body, dst); err != nil {
			return res, err
		}
		res.PaletteUpdated = res.PaletteUpdated || chunkModifiesPalette(ch.magic)
	}

	if f.frame+1 >= len(f.frames) {
		f.frame = 1
		res.Looped = true
	} else {
		f.frame++
	}
	if f.frame+1 >= len(f.frames) {
		res.Ended = true
	}
	return res, nil
}

// decodeChunk dispatches a single subordinate chunk body to its
// codec.
func decodeChunk(magic uint16, body []byte, dst RasterMut) error {
	switch magic {
	case chunkWRUN:
		return decodeWRUN(body, dst)
	case chunkColor256:
		return decodeColor256(body, dst.Palette())
	case chunkSS2:
		return decodeSS2(body, dst)
	case chunkSBSRSC:
		return decodeSBSRSC(body, dst)
	case chunkColor64:
		return decodeColor64(body, dst.Palette())
	case chunkLC:
		return decodeLC(body, dst)
	case chunkBlack:
		decodeBlack(dst)
		return nil
	case chunkICOLORS:
		return decodeICOLORS(dst.Palette())
	case chunkBRUN:
		return decodeBRUN(body, dst)
	case chunkCopy:
		return decodeCopy(body, dst)
	case chunkPstamp:
		// The postage stamp accompanies the first frame but carries no
		// full-size image data of its own; ReadPostageStamp handles it
		// separately.
		return nil
	default:
		return nil
	}
}

// ReadPostageStamp reconstructs the first frame's postage stamp
// thumbnail into dst, which must already be sized to the desired
// stamp dimensions.
func (f *FlicFile) ReadPostageStamp(dst RasterMut) error {
	if len(f.frames) == 0 {
		return ErrCorrupted
	}

	ps := NewPostageStamp(f.hdr.Width, f.hdr.Height, dst)
	for _, ch := range f.frames[0].chunks {
		if _, err := f.r.Seek(ch.offset, io.SeekStart); err != nil {
			return wrap(err, "seek pstamp chunk")
		}
		body := make([]byte, ch.size)
		if _, err := io.ReadFull(f.r, body); err != nil {
			return wrap(err, "pstamp chunk body")
		}

		done, err := ps.Feed(ch.magic, body)
		if err != nil {
			f.logf(logging.Warning, "pstamp: %v", err)
			continue
		}
		if done {
			return nil
		}
	}
	return nil
}
