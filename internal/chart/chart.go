// Package chart renders bar, line, and histogram charts into a character
// grid sized to a MuxBox's content interior (Section 4.F). It is grounded
// on the same "pure function of inputs and interior size" shape the
// teacher's render/diff pipeline expects of every content renderer, using
// github.com/mattn/go-runewidth for width-aware label layout the way the
// teacher's client/render.go measures glyphs before placing them.
package chart

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Type selects the chart rendering strategy (Section 4.F).
type Type string

const (
	TypeBar       Type = "bar"
	TypeLine      Type = "line"
	TypeHistogram Type = "histogram"
)

// Config describes a chart_config block.
type Config struct {
	Type       Type
	Width      int
	Height     int
	Title      string
	XAxisLabel string
	YAxisLabel string
}

// DataPoint is one row of chart data: Label for bar/histogram, X for line
// series (Section 4.F: "(label,value) or (x,y)").
type DataPoint struct {
	Label string
	X     float64
	Value float64
}

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Render produces a character grid of exactly interiorW x interiorH cells
// (Section 4.F: "a character grid sized to fit the box interior"), never
// smaller or larger, so the caller can blit it directly.
func Render(cfg Config, data []DataPoint, interiorW, interiorH int) [][]rune {
	grid := newGrid(interiorW, interiorH)
	if interiorW <= 0 || interiorH <= 0 {
		return grid
	}

	top := 0
	if cfg.Title != "" && interiorH > 0 {
		writeCentered(grid[0], cfg.Title, interiorW)
		top = 1
	}
	bottom := interiorH
	if cfg.XAxisLabel != "" && bottom > top {
		bottom--
		writeCentered(grid[bottom], cfg.XAxisLabel, interiorW)
	}
	plotH := bottom - top
	if plotH <= 0 || len(data) == 0 {
		return grid
	}

	switch cfg.Type {
	case TypeLine:
		renderLine(grid[top:bottom], data, interiorW)
	case TypeHistogram:
		renderBars(grid[top:bottom], bucketize(data, interiorW), interiorW, true)
	default:
		renderBars(grid[top:bottom], data, interiorW, false)
	}
	return grid
}

func newGrid(w, h int) [][]rune {
	grid := make([][]rune, h)
	for i := range grid {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		grid[i] = row
	}
	return grid
}

func writeCentered(row []rune, text string, w int) {
	tw := runewidth.StringWidth(text)
	start := (w - tw) / 2
	if start < 0 {
		start = 0
	}
	i := start
	for _, r := range text {
		if i >= w {
			break
		}
		row[i] = r
		i += runewidth.RuneWidth(r)
	}
}

func maxValue(data []DataPoint) float64 {
	max := 0.0
	for _, d := range data {
		if d.Value > max {
			max = d.Value
		}
	}
	if max == 0 {
		max = 1
	}
	return max
}

// renderBars draws vertical bars, each point w/len(data) columns wide (at
// least one; points that would start past the width are not drawn), using
// sub-cell block characters for fractional heights.
func renderBars(grid [][]rune, data []DataPoint, w int, histogram bool) {
	h := len(grid)
	if h == 0 || len(data) == 0 {
		return
	}
	max := maxValue(data)
	colW := w / len(data)
	if colW < 1 {
		colW = 1
	}
	for i, d := range data {
		frac := d.Value / max
		cellsFull := int(frac * float64(h))
		rem := frac*float64(h) - float64(cellsFull)
		level := int(rem * float64(len(blocks)-1))
		col := i * colW
		if col >= w {
			break
		}
		for row := 0; row < h; row++ {
			fromBottom := h - 1 - row
			var ch rune
			switch {
			case fromBottom < cellsFull:
				ch = blocks[len(blocks)-1]
			case fromBottom == cellsFull && level > 0:
				ch = blocks[level]
			default:
				ch = ' '
			}
			for c := col; c < col+colW && c < w; c++ {
				grid[row][c] = ch
			}
		}
	}
	_ = histogram
}

// bucketize groups data into evenly spaced buckets across the value range
// and counts membership, the standard histogram transform.
func bucketize(data []DataPoint, buckets int) []DataPoint {
	if buckets <= 0 {
		buckets = 1
	}
	min, max := data[0].Value, data[0].Value
	for _, d := range data {
		if d.Value < min {
			min = d.Value
		}
		if d.Value > max {
			max = d.Value
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}
	counts := make([]float64, buckets)
	for _, d := range data {
		idx := int((d.Value - min) / span * float64(buckets))
		if idx >= buckets {
			idx = buckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	out := make([]DataPoint, buckets)
	for i, c := range counts {
		out[i] = DataPoint{Label: fmt.Sprintf("%d", i), Value: c}
	}
	return out
}

// renderLine plots each point as a single '●' at the row nearest its
// value, spreading points evenly across the width. Consecutive points are
// not connected.
func renderLine(grid [][]rune, data []DataPoint, w int) {
	h := len(grid)
	if h == 0 || len(data) == 0 {
		return
	}
	maxV, minV := data[0].Value, data[0].Value
	for _, d := range data {
		if d.Value > maxV {
			maxV = d.Value
		}
		if d.Value < minV {
			minV = d.Value
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	n := len(data)
	for i, d := range data {
		col := 0
		if n > 1 {
			col = i * (w - 1) / (n - 1)
		}
		if col >= w {
			col = w - 1
		}
		frac := (d.Value - minV) / span
		row := h - 1 - int(frac*float64(h-1))
		if row < 0 {
			row = 0
		}
		if row >= h {
			row = h - 1
		}
		grid[row][col] = '●'
	}
}

// PlainText renders the grid as newline-joined rows, for snapshot tests
// and clipboard export fallback.
func PlainText(grid [][]rune) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
