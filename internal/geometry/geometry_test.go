package geometry

import "testing"

func TestResolveS1StaticHello(t *testing.T) {
	// 80x24 terminal, box at 25%,40%-75%,60%.
	root := Rect{X1: 0, Y1: 0, X2: 80, Y2: 24}
	pos := Position{X1: Pct(25), Y1: Pct(40), X2: Pct(75), Y2: Pct(60)}
	res := Resolve(root, pos, OverflowScroll)

	x1, y1, x2, y2 := res.Rect.ToInclusive()
	if x1 != 20 || y1 != 10 || x2 != 60 || y2 != 14 {
		t.Fatalf("got inclusive (%d,%d)-(%d,%d)", x1, y1, x2, y2)
	}
}

func TestResolveContainedInParent(t *testing.T) {
	root := Rect{X1: 0, Y1: 0, X2: 80, Y2: 24}
	positions := []Position{
		{X1: Pct(0), Y1: Pct(0), X2: Pct(100), Y2: Pct(100)},
		{X1: Pct(10), Y1: Pct(10), X2: Pct(90), Y2: Pct(90)},
		{X1: Abs(5), Y1: Abs(5), X2: Abs(1000), Y2: Abs(1000)},
	}
	for _, p := range positions {
		res := Resolve(root, p, OverflowScroll)
		if !root.Contains(res.Rect) {
			t.Errorf("rect %v not contained in parent %v", res.Rect, root)
		}
	}
}

func TestResolveDegenerateRemoved(t *testing.T) {
	root := Rect{X1: 0, Y1: 0, X2: 80, Y2: 24}
	pos := Position{X1: Pct(50), Y1: Pct(50), X2: Pct(50), Y2: Pct(90)}
	res := Resolve(root, pos, OverflowRemoved)
	if !res.Degenerate || !res.Removed {
		t.Fatalf("expected degenerate+removed, got %+v", res)
	}
}

func TestResolveDegenerateCrossOutKeepsCell(t *testing.T) {
	root := Rect{X1: 0, Y1: 0, X2: 80, Y2: 24}
	pos := Position{X1: Pct(50), Y1: Pct(50), X2: Pct(50), Y2: Pct(90)}
	res := Resolve(root, pos, OverflowCrossOut)
	if !res.Degenerate || res.Removed {
		t.Fatalf("expected degenerate, not removed: %+v", res)
	}
	if res.Rect.Empty() {
		t.Fatalf("expected a non-empty anchor cell, got %v", res.Rect)
	}
}

func TestInteriorReservesBorder(t *testing.T) {
	r := Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}
	in := Interior(r, true)
	if in != (Rect{X1: 11, Y1: 11, X2: 19, Y2: 19}) {
		t.Fatalf("got %v", in)
	}
	if Interior(r, false) != r {
		t.Fatalf("expected unchanged rect when not bordered")
	}
}

func TestClampScrollYResizeSmaller(t *testing.T) {
	// S6: 1000-line scrollback, sy=990, viewport 20 -> resize to viewport 100.
	sy := ClampScrollY(990, 1000, 100)
	if sy > 900 {
		t.Fatalf("expected sy <= 900, got %d", sy)
	}
}

func TestClampScrollYNeverNegative(t *testing.T) {
	if ClampScrollY(-5, 100, 10) != 0 {
		t.Fatal("expected 0")
	}
}

func TestMeetsMinimum(t *testing.T) {
	r := Rect{X1: 0, Y1: 0, X2: 5, Y2: 3}
	if MeetsMinimum(r, 10, 0) {
		t.Fatal("expected false: width too small")
	}
	if !MeetsMinimum(r, 5, 3) {
		t.Fatal("expected true: exactly meets minimum")
	}
}
