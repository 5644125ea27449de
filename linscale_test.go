package flic

import "testing"

func TestLinScaleUpsample(t *testing.T) {
	// 3 source columns scaled to 6 destination columns: every source
	// column should be hit exactly twice, in order, matching the
	// FPS_COPY postage-stamp expansion.
	ls := newLinScale(3, 6)
	var got []int
	for {
		sx, _, ok := ls.next()
		if !ok {
			break
		}
		got = append(got, sx)
	}
	want := []int{0, 0, 1, 1, 2, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLinScaleIndexMatchesIterator(t *testing.T) {
	sw, dw := 5, 13
	ls := newLinScale(sw, dw)
	for {
		sx, dx, ok := ls.next()
		if !ok {
			break
		}
		if got := linScaleIndex(sw, dw, dx); got != sx {
			t.Fatalf("linScaleIndex(%d,%d,%d) = %d, want %d", sw, dw, dx, got, sx)
		}
	}
}

func TestLinScaleFirstIndexIsAlwaysZero(t *testing.T) {
	if got := linScaleIndex(100, 3, 0); got != 0 {
		t.Fatalf("linScaleIndex at dx=0 = %d, want 0", got)
	}
}
