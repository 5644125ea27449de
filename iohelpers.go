/*
NAME
  iohelpers.go

DESCRIPTION
  iohelpers.go provides little-endian primitive reads and writes
  against an io.Reader/io.Writer, used by the container reader and
  writer (and the postage-stamp chunk writer) wherever a value is
  read or written directly against the file rather than through an
  in-memory chunk body.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import (
	"encoding/binary"
	"io"
)

func readU8From(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readU16From(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readU32From(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeU8To(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeU16To(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeU32To(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// zeroPad writes n zero bytes, used to reserve space for a header
// that will be backpatched once its contents are known.
func zeroPad(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}
