// Package table renders table_config content into a character grid,
// computing column widths, sorting, filtering, and paging as pure
// functions of the input rows and interior size (Section 4.F). Grounded
// on the same renderer contract as internal/chart, using
// github.com/mattn/go-runewidth for column-width measurement the way the
// teacher's render path measures glyph widths before laying out cells.
package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle selects the table's border glyph set (Section 4.F).
type BorderStyle string

const (
	BorderNone    BorderStyle = "none"
	BorderSingle  BorderStyle = "single"
	BorderDouble  BorderStyle = "double"
	BorderRounded BorderStyle = "rounded"
	BorderThick   BorderStyle = "thick"
)

// Config describes a table_config block.
type Config struct {
	Headers        []string
	Sortable       bool
	Filterable     bool
	PageSize       int
	ShowRowNumbers bool
	ZebraStriping  bool
	BorderStyle    BorderStyle
}

// State is the mutable view state a box keeps for an interactive table:
// current sort column/direction, filter text, and page index.
type State struct {
	SortCol   int
	SortDesc  bool
	Filter    string
	Page      int
}

type borderGlyphs struct {
	h, v, cross rune
}

func glyphsFor(style BorderStyle) (borderGlyphs, bool) {
	switch style {
	case BorderSingle:
		return borderGlyphs{'─', '│', '┼'}, true
	case BorderDouble:
		return borderGlyphs{'═', '║', '╬'}, true
	case BorderRounded:
		return borderGlyphs{'─', '│', '┼'}, true
	case BorderThick:
		return borderGlyphs{'━', '┃', '╋'}, true
	default:
		return borderGlyphs{}, false
	}
}

// isNumericColumn reports whether every non-empty cell in a column parses
// as a float, the auto-detection rule Section 4.F specifies for sort mode.
func isNumericColumn(rows [][]string, col int) bool {
	seen := false
	for _, r := range rows {
		if col >= len(r) || r[col] == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(r[col]), 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// Filter keeps only rows containing the filter text, case-insensitive,
// in any column (Section 4.F: "case-insensitive substring filter").
func Filter(rows [][]string, text string) [][]string {
	if text == "" {
		return rows
	}
	needle := strings.ToLower(text)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		for _, cell := range r {
			if strings.Contains(strings.ToLower(cell), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort orders rows by column col, numerically if the column auto-detects
// as numeric, lexically (case-insensitive) otherwise. Stable, so equal
// keys retain their relative order.
func Sort(rows [][]string, col int, desc bool) [][]string {
	if col < 0 {
		return rows
	}
	out := append([][]string(nil), rows...)
	numeric := isNumericColumn(out, col)
	less := func(i, j int) bool {
		a, b := cell(out[i], col), cell(out[j], col)
		if numeric {
			av, _ := strconv.ParseFloat(strings.TrimSpace(a), 64)
			bv, _ := strconv.ParseFloat(strings.TrimSpace(b), 64)
			return av < bv
		}
		return strings.ToLower(a) < strings.ToLower(b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
	return out
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// Page returns the slice of rows for the given 0-based page index, along
// with the total page count, per Section 4.F paging with a page_size.
func Page(rows [][]string, pageSize, page int) (slice [][]string, totalPages int) {
	if pageSize <= 0 {
		return rows, 1
	}
	totalPages = (len(rows) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	start := page * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], totalPages
}

func columnWidths(headers []string, rows [][]string, showRowNumbers bool, rowNumWidth int) []int {
	n := len(headers)
	widths := make([]int, n)
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i := 0; i < n && i < len(r); i++ {
			if w := runewidth.StringWidth(r[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	_ = rowNumWidth
	return widths
}

// Render produces a character grid of exactly interiorW x interiorH
// cells: header row, optional border separators, data rows (zebra-striped
// if configured), and a page-footer indicator when paging is active.
func Render(cfg Config, rows [][]string, state State, interiorW, interiorH int) [][]rune {
	grid := newGrid(interiorW, interiorH)
	if interiorW <= 0 || interiorH <= 0 {
		return grid
	}

	working := rows
	if cfg.Filterable {
		working = Filter(working, state.Filter)
	}
	if cfg.Sortable {
		working = Sort(working, state.SortCol, state.SortDesc)
	}

	pageSize := cfg.PageSize
	footer := pageSize > 0 && len(working) > pageSize
	contentH := interiorH
	if footer {
		contentH--
	}

	var totalPages int
	if pageSize > 0 {
		working, totalPages = Page(working, pageSize, state.Page)
	}

	rowNumWidth := 0
	if cfg.ShowRowNumbers {
		rowNumWidth = len(strconv.Itoa(len(rows))) + 1
	}
	widths := columnWidths(cfg.Headers, rows, cfg.ShowRowNumbers, rowNumWidth)

	glyphs, hasBorder := glyphsFor(cfg.BorderStyle)

	row := 0
	if row < contentH {
		writeRow(grid[row], cfg.Headers, widths, rowNumWidth, "", interiorW)
		row++
	}
	if hasBorder && row < contentH {
		writeSeparator(grid[row], widths, rowNumWidth, glyphs, interiorW)
		row++
	}
	for i, r := range working {
		if row >= contentH {
			break
		}
		label := ""
		if cfg.ShowRowNumbers {
			label = strconv.Itoa(state.Page*maxInt(pageSize, 1) + i + 1)
		}
		writeRow(grid[row], r, widths, rowNumWidth, label, interiorW)
		if cfg.ZebraStriping && i%2 == 1 {
			shadeRow(grid[row])
		}
		row++
	}

	if footer && interiorH > 0 {
		footerText := footerLine(state.Page, totalPages)
		writeCentered(grid[interiorH-1], footerText, interiorW)
	}

	return grid
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func footerLine(page, total int) string {
	return "page " + strconv.Itoa(page+1) + "/" + strconv.Itoa(total)
}

func newGrid(w, h int) [][]rune {
	grid := make([][]rune, h)
	for i := range grid {
		r := make([]rune, w)
		for j := range r {
			r[j] = ' '
		}
		grid[i] = r
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

func writeRow(row []rune, cells []string, widths []int, rowNumWidth int, rowLabel string, w int) {
	i := 0
	if rowNumWidth > 0 {
		i = writeField(row, rowLabel, rowNumWidth, i, w)
		i = writeField(row, " ", 1, i, w)
	}
	for c, width := range widths {
		text := ""
		if c < len(cells) {
			text = cells[c]
		}
		i = writeField(row, text, width, i, w)
		i = writeField(row, " ", 1, i, w)
	}
}

func writeField(row []rune, text string, width, start, w int) int {
	i := start
	written := 0
	for _, r := range text {
		if i >= w || written >= width {
			break
		}
		row[i] = r
		rw := runewidth.RuneWidth(r)
		i += rw
		written += rw
	}
	for written < width && i < w {
		row[i] = ' '
		i++
		written++
	}
	return i
}

func writeSeparator(row []rune, widths []int, rowNumWidth int, g borderGlyphs, w int) {
	i := 0
	if rowNumWidth > 0 {
		for k := 0; k < rowNumWidth && i < w; k++ {
			row[i] = g.h
			i++
		}
		if i < w {
			row[i] = g.cross
			i++
		}
	}
	for _, width := range widths {
		for k := 0; k < width && i < w; k++ {
			row[i] = g.h
			i++
		}
		if i < w {
			row[i] = g.cross
			i++
		}
	}
}

func shadeRow(row []rune) {
	for i, r := range row {
		if r == ' ' {
			row[i] = '·'
		}
	}
}
