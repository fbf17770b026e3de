package render

import (
	"strings"
	"testing"
)

func TestNewFrameIsBlank(t *testing.T) {
	f := NewFrame(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if f.Cells[y][x] != blank {
				t.Fatalf("cell (%d,%d) not blank", x, y)
			}
		}
	}
}

func TestWriteStringClipsAtEdge(t *testing.T) {
	f := NewFrame(3, 1)
	f.WriteString(1, 0, "abcdef", "")
	if f.Cells[0][1].Rune != 'a' || f.Cells[0][2].Rune != 'b' {
		t.Fatalf("unexpected row: %+v", f.Cells[0])
	}
}

func TestDiffFirstFrameChangesEverything(t *testing.T) {
	next := NewFrame(2, 1)
	next.WriteString(0, 0, "hi", "")
	out := Diff(nil, next)
	if !strings.Contains(out, "h") || !strings.Contains(out, "i") {
		t.Fatalf("expected both runes present, got %q", out)
	}
}

func TestDiffOnlyChangedCells(t *testing.T) {
	prev := NewFrame(3, 1)
	prev.WriteString(0, 0, "abc", "")
	next := NewFrame(3, 1)
	next.WriteString(0, 0, "abx", "")
	out := Diff(prev, next)
	if strings.Contains(out, "a") || strings.Contains(out, "b") {
		t.Fatalf("expected unchanged cells omitted, got %q", out)
	}
	if !strings.Contains(out, "x") {
		t.Fatalf("expected changed cell present, got %q", out)
	}
}

func TestDiffNoChangesProducesEmpty(t *testing.T) {
	prev := NewFrame(2, 1)
	prev.WriteString(0, 0, "ab", "")
	next := NewFrame(2, 1)
	next.WriteString(0, 0, "ab", "")
	if out := Diff(prev, next); out != "" {
		t.Fatalf("expected no diff, got %q", out)
	}
}

func TestFillPaintsRegion(t *testing.T) {
	f := NewFrame(4, 4)
	f.Fill(1, 1, 3, 3, '#', "")
	if f.Cells[1][1].Rune != '#' || f.Cells[2][2].Rune != '#' {
		t.Fatal("expected fill region painted")
	}
	if f.Cells[0][0].Rune != ' ' {
		t.Fatal("expected outside-fill cell untouched")
	}
}
