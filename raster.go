/*
NAME
  raster.go

DESCRIPTION
  raster.go provides non-owning windows over a pixel buffer and a
  256-entry RGB palette, shared by every codec and the container
  reader/writer.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

// NumColors is the number of entries a FLIC palette always carries,
// even when fewer are semantically meaningful.
const NumColors = 256

// PaletteSize is the size in bytes of a full 256-entry RGB palette.
const PaletteSize = 3 * NumColors

// Raster is an immutable, non-owning window over a pixel buffer and
// its palette. It never outlives the slices it borrows.
type Raster struct {
	x, y, w, h, stride int
	buf                []byte
	pal                []byte
}

// RasterMut is a mutable, non-owning window over a pixel buffer and
// its palette.
type RasterMut struct {
	x, y, w, h, stride int
	buf                []byte
	pal                []byte
}

// NewRaster allocates a raster covering the whole of buf with origin
// (0,0) and stride w. It panics if the buffers are inconsistent with
// w, h (caller bug, not a runtime error).
func NewRaster(w, h int, buf, pal []byte) Raster {
	return NewRasterWithOffset(0, 0, w, h, w, buf, pal)
}

// NewRasterWithOffset allocates a raster for a sub-rectangle (x, y,
// w, h) of a buffer with the given row stride. It panics on invariant
// violation.
func NewRasterWithOffset(x, y, w, h, stride int, buf, pal []byte) Raster {
	checkRasterBounds(x, y, w, h, stride, len(buf), len(pal))
	return Raster{x: x, y: y, w: w, h: h, stride: stride, buf: buf, pal: pal}
}

// NewRasterMut allocates a mutable raster covering the whole of buf
// with origin (0,0) and stride w.
func NewRasterMut(w, h int, buf, pal []byte) RasterMut {
	return NewRasterMutWithOffset(0, 0, w, h, w, buf, pal)
}

// NewRasterMutWithOffset allocates a mutable raster for a sub-rectangle
// (x, y, w, h) of a buffer with the given row stride.
func NewRasterMutWithOffset(x, y, w, h, stride int, buf, pal []byte) RasterMut {
	checkRasterBounds(x, y, w, h, stride, len(buf), len(pal))
	return RasterMut{x: x, y: y, w: w, h: h, stride: stride, buf: buf, pal: pal}
}

func checkRasterBounds(x, y, w, h, stride, bufLen, palLen int) {
	x1 := x + w
	y1 := y + h
	if !(x < x1 && x1 <= stride && h > 0) {
		panic("flic: raster x/w/stride out of range")
	}
	if stride*y1 > bufLen {
		panic("flic: raster buffer too small")
	}
	if palLen != PaletteSize {
		panic("flic: palette must be 768 bytes")
	}
}

// asRaster returns a Raster sharing the same window as r, for codecs
// that take a read-only view of what is logically a mutable raster
// (e.g. an encoder reading the "next" frame).
func (r RasterMut) asRaster() Raster {
	return Raster{x: r.x, y: r.y, w: r.w, h: r.h, stride: r.stride, buf: r.buf, pal: r.pal}
}

// Width and Height report the raster's visible rectangle.
func (r Raster) Width() int  { return r.w }
func (r Raster) Height() int { return r.h }

func (r RasterMut) Width() int  { return r.w }
func (r RasterMut) Height() int { return r.h }

// Palette returns the raster's 768-byte palette slice.
func (r Raster) Palette() []byte  { return r.pal }
func (r RasterMut) Palette() []byte { return r.pal }

// row returns the slice of pixel bytes making up visible row dy of
// the raster, dy in [0, h).
func (r Raster) row(dy int) []byte {
	start := r.stride*(r.y+dy) + r.x
	return r.buf[start : start+r.w]
}

func (r RasterMut) row(dy int) []byte {
	start := r.stride*(r.y+dy) + r.x
	return r.buf[start : start+r.w]
}

// visible returns the full set of rows making up the raster's visible
// rectangle as one contiguous strided slice, for codecs that chunk
// over dst.stride directly (mirroring the original implementation's
// buf[start..end].chunks_mut(stride) idiom).
func (r Raster) visible() []byte {
	start := r.stride * r.y
	end := r.stride * (r.y + r.h)
	return r.buf[start:end]
}

func (r RasterMut) visible() []byte {
	start := r.stride * r.y
	end := r.stride * (r.y + r.h)
	return r.buf[start:end]
}

func rows(buf []byte, stride int) [][]byte {
	n := len(buf) / stride
	out := make([][]byte, n)
	for i := range out {
		out[i] = buf[i*stride : (i+1)*stride]
	}
	return out
}
