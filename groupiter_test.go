package flic

import "testing"

func TestGroupByValue(t *testing.T) {
	buf := []byte{1, 1, 1, 2, 2, 3}
	it := newGroupByValue(buf)

	want := []group{
		{kind: groupSame, start: 0, n: 3},
		{kind: groupSame, start: 3, n: 2},
		{kind: groupSame, start: 5, n: 1},
	}
	for i, w := range want {
		g, ok := it.next()
		if !ok {
			t.Fatalf("group %d: iterator exhausted early", i)
		}
		if g != w {
			t.Fatalf("group %d = %+v, want %+v", i, g, w)
		}
	}
	if _, ok := it.next(); ok {
		t.Fatal("expected iterator to be exhausted")
	}
}

func TestGroupByEq(t *testing.T) {
	a := []int{1, 1, 2, 2, 2, 9}
	b := []int{1, 1, 3, 3, 3, 9}
	eq := func(i int) bool { return a[i] == b[i] }
	it := newGroupByEq(len(a), eq)

	want := []group{
		{kind: groupSame, start: 0, n: 2},
		{kind: groupDiff, start: 2, n: 3},
		{kind: groupSame, start: 5, n: 1},
	}
	for i, w := range want {
		g, ok := it.next()
		if !ok {
			t.Fatalf("group %d: iterator exhausted early", i)
		}
		if g != w {
			t.Fatalf("group %d = %+v, want %+v", i, g, w)
		}
	}
	if _, ok := it.next(); ok {
		t.Fatal("expected iterator to be exhausted")
	}
}

func TestGroupByRuns(t *testing.T) {
	old := []byte{5, 5, 5, 1, 1, 5, 5}
	new := []byte{5, 5, 5, 9, 9, 5, 5}
	it := newGroupByRuns(old, new)

	want := []group{
		{kind: groupSame, start: 0, n: 3},
		{kind: groupDiff, start: 3, n: 2},
		{kind: groupSame, start: 5, n: 2},
	}
	for i, w := range want {
		g, ok := it.next()
		if !ok {
			t.Fatalf("group %d: iterator exhausted early", i)
		}
		if g != w {
			t.Fatalf("group %d = %+v, want %+v", i, g, w)
		}
	}
	if _, ok := it.next(); ok {
		t.Fatal("expected iterator to be exhausted")
	}
}

func TestGroupByRunsIgnoreFinalSameRun(t *testing.T) {
	old := []byte{1, 1, 5, 5}
	new := []byte{9, 9, 5, 5}
	it := newGroupByRuns(old, new).setIgnoreFinalSameRun()

	g, ok := it.next()
	if !ok || g.kind != groupDiff || g.start != 0 || g.n != 2 {
		t.Fatalf("first group = %+v, ok=%v", g, ok)
	}
	if _, ok := it.next(); ok {
		t.Fatal("expected the trailing same-run to be suppressed")
	}
}
