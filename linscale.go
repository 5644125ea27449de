/*
NAME
  linscale.go

DESCRIPTION
  linscale.go provides the integer linear-scale iterator used both to
  prepare a postage stamp (new -> small) and to decode one (small ->
  new).

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

// linScale iterates dx over [0, dw), yielding the corresponding source
// index sx = (dx*sw + sw/2) / dw, with sx = 0 forced at dx = 0. It
// keeps dx*sw in an accumulator built up by repeated addition rather
// than multiplying on each step; the accumulator holds the full
// product, so the range it can handle is that of int.
type linScale struct {
	sw, dw int
	dx     int
	// acc tracks dx*sw, built up by repeated addition of sw.
	acc int
}

// newLinScale builds an iterator that will yield exactly dw pairs
// (sx, dx) for dx in [0, dw).
func newLinScale(sw, dw int) *linScale {
	return &linScale{sw: sw, dw: dw}
}

// next returns the next (sx, dx) pair, or ok=false once dw pairs have
// been produced.
func (l *linScale) next() (sx, dx int, ok bool) {
	if l.dx >= l.dw {
		return 0, 0, false
	}

	dx = l.dx
	if dx == 0 {
		sx = 0
	} else {
		sx = (l.acc + l.sw/2) / l.dw
	}

	l.acc += l.sw
	l.dx++
	return sx, dx, true
}

// linScaleIndex is a direct (non-iterator) computation of the same
// formula, used by codecs that need a single scaled index rather than
// a full sweep (e.g. FPS_COPY decode, which walks dst rows/cols).
func linScaleIndex(sw, dw, dx int) int {
	if dx == 0 {
		return 0
	}
	return (dx*sw + sw/2) / dw
}
