package input

import (
	"testing"

	"boxmux/internal/geometry"
	"boxmux/internal/msg"
	"boxmux/internal/render"
)

func TestRouteTabProducesFocusNext(t *testing.T) {
	r := NewRouter()
	got := r.Route(Event{IsKey: true, Special: KeyTab}, Snapshot{})
	if len(got) != 1 || got[0].(msg.InputCmd).Kind != msg.InputFocusNext {
		t.Fatalf("got %+v", got)
	}
}

func TestRouteCtrlCCopiesWhenFocusedCanCopy(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1", FocusedCanCopy: true}
	got := r.Route(Event{IsKey: true, Rune: 'c', Ctrl: true}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputClipboardCopy || cmd.BoxID != "box1" {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRouteCtrlCForwardsSignalToPTY(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1", FocusedIsPTY: true}
	got := r.Route(Event{IsKey: true, Rune: 'c', Ctrl: true}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputPTYBytes || cmd.PTYBytes[0] != 0x03 {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRouteCtrlCRequestsShutdownOtherwise(t *testing.T) {
	r := NewRouter()
	got := r.Route(Event{IsKey: true, Rune: 'c', Ctrl: true}, Snapshot{})
	if got[0].(msg.InputCmd).Kind != msg.InputShutdown {
		t.Fatalf("got %+v", got)
	}
}

func TestRouteArrowScrollsWhenNotPTYOrKeypress(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1"}
	got := r.Route(Event{IsKey: true, Special: KeyUp}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputScroll || cmd.Dir != msg.ScrollLineUp {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRouteOnKeypressOverridesScroll(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1", FocusedOnKeypress: map[string]bool{"up": true}}
	got := r.Route(Event{IsKey: true, Special: KeyUp}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputRunKeypress || cmd.Key != "up" {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRouteArrowForwardsToPTYWhenFocused(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1", FocusedIsPTY: true}
	got := r.Route(Event{IsKey: true, Special: KeyUp}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputPTYBytes || string(cmd.PTYBytes) != "\x1b[A" {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRoutePlainRuneForwardsToPTY(t *testing.T) {
	r := NewRouter()
	snap := Snapshot{FocusedID: "box1", FocusedIsPTY: true}
	got := r.Route(Event{IsKey: true, Rune: 'x'}, snap)
	cmd := got[0].(msg.InputCmd)
	if cmd.Kind != msg.InputPTYBytes || string(cmd.PTYBytes) != "x" {
		t.Fatalf("got %+v", cmd)
	}
}

func TestRoutePlainRuneProducesNothingWhenNotPTY(t *testing.T) {
	r := NewRouter()
	got := r.Route(Event{IsKey: true, Rune: 'x'}, Snapshot{FocusedID: "box1"})
	if got != nil {
		t.Fatalf("expected no message, got %+v", got)
	}
}

func TestRouteMouseClickHitTestsGeometry(t *testing.T) {
	r := NewRouter()
	g := &render.GeometryCache{}
	// The cache stays empty: res below is resolved but never recorded into it.
	res := geometry.Resolve(geometry.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10},
		geometry.Position{X1: geometry.Abs(0), Y1: geometry.Abs(0), X2: geometry.Abs(10), Y2: geometry.Abs(10)},
		geometry.OverflowScroll)
	_ = res
	snap := Snapshot{Geometry: g}
	got := r.Route(Event{IsMouse: true, X: 2, Y: 2}, snap)
	if got != nil {
		t.Fatalf("expected no hit on empty cache, got %+v", got)
	}
}

func TestRouteMouseReleaseIgnored(t *testing.T) {
	r := NewRouter()
	got := r.Route(Event{IsMouse: true, Release: true}, Snapshot{})
	if got != nil {
		t.Fatalf("expected release ignored, got %+v", got)
	}
}
