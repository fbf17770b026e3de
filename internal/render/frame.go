// Package render implements the render pipeline (Section 4.G): geometry
// resolution, background/border/title/content drawing, scrollbar and
// focus overlays, and frame diffing so only changed cells are written to
// the terminal. Grounded on the teacher's
// internal/session/client/render.go, whose RenderLineFrom walks a
// midterm.Terminal row as alternating format regions and resets SGR
// between them — the same run-length-by-style idea drives Frame.Diff,
// generalized from "one row of one virtual terminal" to "every visible
// cell of the composed screen".
package render

import "strings"

// Cell is one screen position: a rune and the already-resolved SGR
// escape prefix that should precede it (empty string means default/reset).
type Cell struct {
	Rune rune
	SGR  string
}

// blank is the cell written where nothing has drawn: a space with no style.
var blank = Cell{Rune: ' '}

// Frame is the full composed screen for one render pass.
type Frame struct {
	W, H  int
	Cells [][]Cell
}

// NewFrame allocates a blank w x h frame.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	f := &Frame{W: w, H: h, Cells: make([][]Cell, h)}
	for y := range f.Cells {
		row := make([]Cell, w)
		for x := range row {
			row[x] = blank
		}
		f.Cells[y] = row
	}
	return f
}

// Set writes one cell, silently clipping out-of-bounds writes (callers
// routinely draw past a box's interior at the edges; clipping here keeps
// every draw* helper from having to bounds-check itself).
func (f *Frame) Set(x, y int, r rune, sgr string) {
	if y < 0 || y >= f.H || x < 0 || x >= f.W {
		return
	}
	f.Cells[y][x] = Cell{Rune: r, SGR: sgr}
}

// WriteString writes s starting at (x,y), left to right, one rune per
// cell, clipped at the frame's right edge.
func (f *Frame) WriteString(x, y int, s string, sgr string) {
	for _, r := range s {
		f.Set(x, y, r, sgr)
		x++
	}
}

// Fill paints every cell in [x1,x2) x [y1,y2) with r/sgr.
func (f *Frame) Fill(x1, y1, x2, y2 int, r rune, sgr string) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			f.Set(x, y, r, sgr)
		}
	}
}

// Diff computes the minimal escape sequence that transforms prev (the
// last frame actually written to the terminal) into next, writing only
// changed cells. prev may be nil (first frame: everything is "changed").
// Runs of contiguous changed cells on the same row sharing one SGR style
// are coalesced into a single cursor-position + styled-write, mirroring
// RenderLineFrom's region-at-a-time approach but scoped to only the
// cells that actually changed.
func Diff(prev, next *Frame) string {
	var buf strings.Builder
	for y := 0; y < next.H; y++ {
		x := 0
		for x < next.W {
			if !cellChanged(prev, next, x, y) {
				x++
				continue
			}
			// Start of a changed run: consume contiguous changed cells that
			// share this cell's SGR style.
			sgr := next.Cells[y][x].SGR
			start := x
			var run strings.Builder
			for x < next.W && cellChanged(prev, next, x, y) && next.Cells[y][x].SGR == sgr {
				run.WriteRune(next.Cells[y][x].Rune)
				x++
			}
			buf.WriteString(cursorTo(start, y))
			if sgr != "" {
				buf.WriteString(sgr)
				buf.WriteString(run.String())
				buf.WriteString("\033[0m")
			} else {
				buf.WriteString("\033[0m")
				buf.WriteString(run.String())
			}
		}
	}
	return buf.String()
}

func cellChanged(prev, next *Frame, x, y int) bool {
	if prev == nil || y >= prev.H || x >= prev.W {
		return true
	}
	return prev.Cells[y][x] != next.Cells[y][x]
}

// cursorTo returns the 1-indexed CUP sequence for 0-indexed (x,y).
func cursorTo(x, y int) string {
	return "\033[" + itoa(y+1) + ";" + itoa(x+1) + "H"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}
