package flic

import "testing"

// TestDecodeSS2 reproduces libflic's decode_fli_ss2 test vector,
// including the mixed plain-count/line-skip/last-byte-patch meta words
// and the byte-granular (not word-granular) per-packet skip.
func TestDecodeSS2(t *testing.T) {
	body := []byte{
		0x02, 0x00, // line count: 2
		0x02, 0x00, // meta word: plain packet count 2
		3, 5, // skip 3 bytes, literal length 5 words
		0x01, 0x12, 0x23, 0x34, 0x45, 0x56, 0x67, 0x78, 0x89, 0x90,
		2, 0xFC, // skip 2 bytes, replicate length 4 words (size -4)
		0xAB, 0xCD,
		0xFF, 0xFF, // meta word: skip 1 line
		0xEE, 0x80, // meta word: patch last byte to 0xEE, packet count follows
		0x00, 0x00, // packet count 0
	}
	expected := []byte{
		0x00, 0x00, 0x00,
		0x01, 0x12, 0x23, 0x34, 0x45, 0x56, 0x67, 0x78, 0x89, 0x90,
		0x00, 0x00,
		0xAB, 0xCD, 0xAB, 0xCD, 0xAB, 0xCD, 0xAB, 0xCD,
	}

	const w, h = 320, 200
	buf := make([]byte, w*h)
	pal := make([]byte, PaletteSize)
	dst := NewRasterMut(w, h, buf, pal)

	if err := decodeSS2(body, dst); err != nil {
		t.Fatalf("decodeSS2: %v", err)
	}
	if string(buf[:len(expected)]) != string(expected) {
		t.Fatalf("buf[0:%d] = %v, want %v", len(expected), buf[:len(expected)], expected)
	}
	if got := buf[w*2+w-1]; got != 0xEE {
		t.Fatalf("last byte of row 2 = %#x, want 0xee", got)
	}
}

func TestEncodeDecodeSS2RoundTrip(t *testing.T) {
	w, h := 40, 6
	pal := make([]byte, PaletteSize)

	old := make([]byte, w*h)
	for i := range old {
		old[i] = byte(i % 7)
	}
	next := append([]byte(nil), old...)
	// Change a run in the middle of one line and a single byte in the
	// final word of another, so the unchanged lines before and between
	// them are encoded as line-skip meta words.
	for x := 4; x < 12; x++ {
		next[2*w+x] = 0x55
	}
	next[4*w+w-1] = 0x9

	oldR := NewRaster(w, h, old, pal)
	newR := NewRaster(w, h, next, pal)

	body, err := encodeSS2(oldR, newR)
	if err != nil {
		t.Fatalf("encodeSS2: %v", err)
	}

	dstBuf := append([]byte(nil), old...)
	dstPal := make([]byte, PaletteSize)
	dst := NewRasterMut(w, h, dstBuf, dstPal)
	if err := decodeSS2(body, dst); err != nil {
		t.Fatalf("decodeSS2: %v", err)
	}
	for i := range next {
		if dstBuf[i] != next[i] {
			t.Fatalf("round trip mismatch at %d: got %d, want %d", i, dstBuf[i], next[i])
		}
	}
}
