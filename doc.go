/*
NAME
  doc.go

DESCRIPTION
  Package flic provides a pure Go encoder and decoder for the Autodesk
  Animator FLI and Animator Pro FLC animation file formats: 8-bit
  indexed-color, palette-animated raster animations built from a
  header plus a chain of delta-compressed frames.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

// Package flic reads and writes FLI/FLC animation files: an 8-bit
// indexed-color raster format where most frames store only the delta
// from the previous frame.
//
// The package supports:
//   - Decoding FLI and FLC files, including the ring (looping) frame
//   - Encoding FLC files (and 320x200 FLI files) with automatic
//     selection of the smallest valid per-frame chunk encoding
//   - Postage-stamp thumbnail generation and decoding
//
// Basic usage for decoding:
//
//	f, err := flic.OpenFile("anim.flc")
//	raster := flic.NewRasterMut(f.Width(), f.Height(), buf, pal)
//	res, err := f.ReadNextFrame(raster)
//
// Basic usage for encoding:
//
//	out, err := os.Create("anim.flc")
//	w, err := flic.CreateFLC(out, width, height)
//	err = w.WriteNextFrame(frame)
//	err = w.Close()
package flic
