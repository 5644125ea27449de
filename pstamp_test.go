package flic

import "testing"

func TestSixCubePalette(t *testing.T) {
	pal := make([]byte, PaletteSize)
	sixCubePalette(pal)
	// Entry 0 is pure black, entry 215 (5,5,5) is the brightest step
	// below full white.
	if pal[0] != 0 || pal[1] != 0 || pal[2] != 0 {
		t.Fatalf("entry 0 = %v, want black", pal[0:3])
	}
	last := 215 * 3
	if pal[last] != byte(5*256/6) {
		t.Fatalf("entry 215 red = %d, want %d", pal[last], 5*256/6)
	}
}

func TestBuildAndApplyXlat256(t *testing.T) {
	pal := make([]byte, PaletteSize)
	pal[0], pal[1], pal[2] = 255, 0, 0 // pure red at index 0

	xlat := buildXlat256(pal)
	// Pure red should land in the red corner of the six-cube (g=0,b=0,
	// r=5 the brightest red step).
	if xlat[0] != 5*36 {
		t.Fatalf("xlat[0] = %d, want %d", xlat[0], 5*36)
	}

	buf := []byte{0, 0, 0, 0}
	rasterPal := make([]byte, PaletteSize)
	dst := NewRasterMut(2, 2, buf, rasterPal)
	applyXlat256(xlat, dst)
	for i, v := range buf {
		if v != xlat[0] {
			t.Fatalf("byte %d = %d, want %d", i, v, xlat[0])
		}
	}
}

func TestGetPstampSize(t *testing.T) {
	cases := []struct{ w, h, wantW, wantH int }{
		{320, 200, StandardPstampW, 63},
		{100, 63, StandardPstampW, StandardPstampH},
		{1, 1000, 1, StandardPstampH},
	}
	for _, c := range cases {
		gotW, gotH := getPstampSize(StandardPstampW, StandardPstampH, c.w, c.h)
		if gotW > StandardPstampW || gotH > StandardPstampH || gotW <= 0 || gotH <= 0 {
			t.Fatalf("getPstampSize(%d,%d) = (%d,%d), out of bounds", c.w, c.h, gotW, gotH)
		}
		if gotW != c.wantW || gotH != c.wantH {
			t.Fatalf("getPstampSize(%d,%d) = (%d,%d), want (%d,%d)", c.w, c.h, gotW, gotH, c.wantW, c.wantH)
		}
	}
}

func TestPostageStampFeedBrunThenPalette(t *testing.T) {
	const w, h = 4, 4
	dstBuf := make([]byte, w*h)
	dstPal := make([]byte, PaletteSize)
	dst := NewRasterMut(w, h, dstBuf, dstPal)

	ps := NewPostageStamp(w, h, dst)

	src := make([]byte, w*h)
	for i := range src {
		src[i] = byte(i + 1)
	}
	srcPal := make([]byte, PaletteSize)
	brunBody, err := encodeBRUN(NewRaster(w, h, src, srcPal))
	if err != nil {
		t.Fatalf("encodeBRUN: %v", err)
	}

	done, err := ps.Feed(chunkBRUN, brunBody)
	if err != nil {
		t.Fatalf("Feed(BRUN): %v", err)
	}
	if done {
		t.Fatal("expected Feed to need a palette chunk before completing")
	}

	newPal := make([]byte, PaletteSize)
	for i := range newPal {
		newPal[i] = byte(i)
	}
	palBody, err := encodeColor256(nil, newPal)
	if err != nil {
		t.Fatalf("encodeColor256: %v", err)
	}

	done, err = ps.Feed(chunkColor256, palBody)
	if err != nil {
		t.Fatalf("Feed(COLOR256): %v", err)
	}
	if !done {
		t.Fatal("expected Feed to complete once a palette is available")
	}

	// The finished stamp's palette is always the fixed six-cube, not
	// the animation's own palette.
	if dst.Palette()[0] != 0 {
		t.Fatalf("stamp palette entry 0 = %d, want 0 (six-cube black)", dst.Palette()[0])
	}
}

func TestPostageStampFeedBlackNeedsNoPalette(t *testing.T) {
	const w, h = 4, 4
	dstBuf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	dstPal := make([]byte, PaletteSize)
	dst := NewRasterMut(w, h, dstBuf, dstPal)

	ps := NewPostageStamp(w, h, dst)
	done, err := ps.Feed(chunkBlack, nil)
	if err != nil {
		t.Fatalf("Feed(BLACK): %v", err)
	}
	if !done {
		t.Fatal("expected a BLACK chunk alone to complete the stamp")
	}
	for _, v := range dstBuf {
		if v != 0 {
			t.Fatalf("stamp buffer not cleared: %v", dstBuf)
		}
	}
}
