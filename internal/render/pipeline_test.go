package render

import (
	"testing"

	"github.com/muesli/termenv"

	"boxmux/internal/geometry"
	"boxmux/internal/model"
	"boxmux/internal/scrollback"
	"boxmux/internal/style"
)

func testPipeline() *Pipeline {
	return NewPipeline(style.NewResolver(termenv.ANSI))
}

func TestRenderLayoutProducesFrameSizedToRoot(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 20, Y2: 10}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{
		{ID: "a", Position: geometry.Position{
			X1: geometry.Abs(0), Y1: geometry.Abs(0), X2: geometry.Abs(20), Y2: geometry.Abs(10),
		}},
	}}
	f := p.RenderLayout(layout, root, "")
	if f.W != 20 || f.H != 10 {
		t.Fatalf("got %dx%d, want 20x10", f.W, f.H)
	}
}

func TestRenderLayoutRecordsGeometryCache(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 20, Y2: 10}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{
		{ID: "a", Position: geometry.Position{
			X1: geometry.Pct(0), Y1: geometry.Pct(0), X2: geometry.Pct(50), Y2: geometry.Pct(100),
		}},
	}}
	p.RenderLayout(layout, root, "")
	if id := p.Geometry.HitTest(2, 2); id != "a" {
		t.Fatalf("got hit %q, want a", id)
	}
	if id := p.Geometry.HitTest(15, 2); id != "" {
		t.Fatalf("expected no hit outside box, got %q", id)
	}
}

func TestDrawBorderDrawsCorners(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 10, Y2: 5}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{
		{ID: "a", Border: true, Position: geometry.Position{
			X1: geometry.Abs(0), Y1: geometry.Abs(0), X2: geometry.Abs(10), Y2: geometry.Abs(5),
		}},
	}}
	f := p.RenderLayout(layout, root, "")
	if f.Cells[0][0].Rune != '┌' || f.Cells[0][9].Rune != '┐' {
		t.Fatalf("missing top corners: %+v", f.Cells[0])
	}
	if f.Cells[4][0].Rune != '└' || f.Cells[4][9].Rune != '┘' {
		t.Fatalf("missing bottom corners: %+v", f.Cells[4])
	}
}

func TestDrawChoicesHighlightsSelected(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 10, Y2: 5}
	b := &model.MuxBox{
		ID: "menu",
		Position: geometry.Position{
			X1: geometry.Abs(0), Y1: geometry.Abs(0), X2: geometry.Abs(10), Y2: geometry.Abs(5),
		},
		Choices:     []*model.Choice{{ID: "c1", Content: "one"}, {ID: "c2", Content: "two"}},
		SelectedIdx: 1,
	}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{b}}
	f := p.RenderLayout(layout, root, "")
	if f.Cells[0][0].Rune != 'o' || f.Cells[1][0].Rune != 't' {
		t.Fatalf("expected choice text on rows 0/1, got %+v / %+v", f.Cells[0][:3], f.Cells[1][:3])
	}
}

func TestDrawScrollbackRendersWindow(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 10, Y2: 3}
	sb := scrollback.New(100)
	sb.AppendText("line1\nline2\nline3")
	b := &model.MuxBox{
		ID: "log",
		Position: geometry.Position{
			X1: geometry.Abs(0), Y1: geometry.Abs(0), X2: geometry.Abs(10), Y2: geometry.Abs(3),
		},
		Scrollback: sb,
	}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{b}}
	f := p.RenderLayout(layout, root, "")
	if f.Cells[2][0].Rune != 'l' {
		t.Fatalf("expected last line at bottom row, got %+v", f.Cells[2][:5])
	}
}

func TestRemovedBoxIsSkipped(t *testing.T) {
	p := testPipeline()
	root := geometry.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
	b := &model.MuxBox{
		ID:       "gone",
		Overflow: model.OverflowRemoved,
		Position: geometry.Position{
			X1: geometry.Pct(50), Y1: geometry.Pct(50), X2: geometry.Pct(50), Y2: geometry.Pct(90),
		},
	}
	layout := &model.Layout{ID: "main", Children: []*model.MuxBox{b}}
	p.RenderLayout(layout, root, "")
	if !b.Removed {
		t.Fatal("expected box marked removed")
	}
	if _, ok := p.Geometry.Rect("gone"); ok {
		t.Fatal("expected no geometry recorded for a removed box")
	}
}
