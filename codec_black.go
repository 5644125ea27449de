/*
NAME
  codec_black.go

DESCRIPTION
  codec_black.go implements the two no-payload chunk types: BLACK,
  which clears the visible raster to color index 0, and ICOLORS, a
  legacy palette reset this package never emits but still decodes.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

// decodeBlack fills dst's visible rectangle with color index 0.
func decodeBlack(dst RasterMut) {
	for y := 0; y < dst.Height(); y++ {
		row := dst.row(y)
		for i := range row {
			row[i] = 0
		}
	}
}

// canEncodeBlack reports whether src is entirely color index 0, i.e.
// whether a BLACK chunk alone reproduces it.
func canEncodeBlack(src Raster) bool {
	for y := 0; y < src.Height(); y++ {
		for _, v := range src.row(y) {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// decodeICOLORS installs the identity RGB palette: component v of
// palette entry i is i itself, for every i in 0..256.
func decodeICOLORS(pal []byte) error {
	if len(pal) != PaletteSize {
		return ErrBadInput
	}
	for i := 0; i < NumColors; i++ {
		v := byte(i)
		pal[i*3] = v
		pal[i*3+1] = v
		pal[i*3+2] = v
	}
	return nil
}
