package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"boxmux/internal/chart"
	"boxmux/internal/geometry"
	"boxmux/internal/model"
	"boxmux/internal/style"
	"boxmux/internal/table"
)

// GeometryCache maps a muxbox id to its last-resolved absolute rectangle,
// the z-ordered lookup the input router's mouse hit-test consumes
// (Section 4.H: "computes which box contains the cell via a z-ordered
// hit-test using the current frame's geometry cache").
type GeometryCache struct {
	order []string
	rects map[string]geometry.Rect
}

func newGeometryCache() *GeometryCache {
	return &GeometryCache{rects: map[string]geometry.Rect{}}
}

func (g *GeometryCache) record(id string, r geometry.Rect) {
	if _, ok := g.rects[id]; !ok {
		g.order = append(g.order, id)
	}
	g.rects[id] = r
}

// HitTest returns the id of the topmost (last-drawn, i.e. deepest/most
// recently visited) box whose rectangle contains (x,y), or "" if none.
func (g *GeometryCache) HitTest(x, y int) string {
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		r := g.rects[id]
		if x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2 {
			return id
		}
	}
	return ""
}

// Rect returns the last-recorded rectangle for id, if any.
func (g *GeometryCache) Rect(id string) (geometry.Rect, bool) {
	r, ok := g.rects[id]
	return r, ok
}

// Pipeline is the render pipeline owning the resolver and the geometry
// cache populated by the last draw pass.
type Pipeline struct {
	Resolver *style.Resolver
	Geometry *GeometryCache
}

// NewPipeline builds a Pipeline against the given color resolver.
func NewPipeline(resolver *style.Resolver) *Pipeline {
	return &Pipeline{Resolver: resolver, Geometry: newGeometryCache()}
}

// borderGlyphs is a single-line box border; the spec's chart/table
// renderers already carry their own border-style set (Section 4.F); the
// muxbox frame itself always draws single-line borders per Section 4.A.
type borderGlyphs struct {
	tl, tr, bl, br, h, v rune
}

var singleBorder = borderGlyphs{tl: '┌', tr: '┐', bl: '└', br: '┘', h: '─', v: '│'}

// RenderLayout draws the active layout into a new Frame sized to root
// (Section 4.G step 3), resolving geometry top-down from root (each box
// against its parent's interior) and recording every visible box's
// rectangle into a fresh geometry cache.
func (p *Pipeline) RenderLayout(l *model.Layout, root geometry.Rect, focusedID string) *Frame {
	p.Geometry = newGeometryCache()
	f := NewFrame(root.Width(), root.Height())
	// Resolved rectangles are drawn into the frame unshifted, so they line
	// up with the frame only when root's top-left is (0,0).
	origin := root
	layoutStyle := l.Style
	for _, child := range l.Children {
		p.drawBox(f, child, origin, layoutStyle, focusedID)
	}
	return f
}

func (p *Pipeline) drawBox(f *Frame, b *model.MuxBox, parent geometry.Rect, inherited style.Style, focusedID string) {
	res := geometry.Resolve(parent, b.Position, b.Overflow)
	b.ResolvedRect = res.Rect
	b.Removed = res.Removed
	if res.Removed {
		return
	}
	eff := style.Merge(inherited, b.Style)
	focused := b.ID == focusedID
	p.Geometry.record(b.ID, res.Rect)

	r := res.Rect
	bg := eff.Background
	if bg != "" {
		fillChar := ' '
		if eff.FillChar != "" {
			fillChar = []rune(eff.FillChar)[0]
		}
		sgr := p.Resolver.Render("", style.Style{Background: bg}, false)
		sgr = sgrPrefix(sgr)
		p.fillLocal(f, r, parent, fillChar, sgr)
	}

	if res.Degenerate && res.Policy == geometry.OverflowCrossOut {
		p.fillLocal(f, r, parent, 'X', "")
	}

	interior := r
	if b.Border {
		p.drawBorder(f, r, parent, eff, focused)
		interior = geometry.Interior(r, true)
	}
	p.drawTitle(f, r, parent, b, eff, focused)

	if !res.Degenerate || res.Policy == geometry.OverflowScroll {
		p.drawContent(f, b, interior, parent, eff, focused)
	}

	for _, child := range b.Children {
		p.drawBox(f, child, interior, eff, focusedID)
	}
}

// fillLocal fills r in the frame as is; no translation is applied and the
// parent rectangle is ignored. Rects from geometry.Resolve are absolute,
// which matches frame cells when the layout root starts at (0,0).
func (p *Pipeline) fillLocal(f *Frame, r, _ geometry.Rect, ch rune, sgr string) {
	f.Fill(r.X1, r.Y1, r.X2, r.Y2, ch, sgr)
}

func (p *Pipeline) drawBorder(f *Frame, r, _ geometry.Rect, eff style.Style, focused bool) {
	colorName := style.BorderColorFor(eff, focused)
	sgr := sgrPrefix(p.Resolver.Render("", style.Style{Foreground: colorName}, false))
	g := singleBorder
	if r.Width() <= 0 || r.Height() <= 0 {
		return
	}
	f.Set(r.X1, r.Y1, g.tl, sgr)
	f.Set(r.X2-1, r.Y1, g.tr, sgr)
	f.Set(r.X1, r.Y2-1, g.bl, sgr)
	f.Set(r.X2-1, r.Y2-1, g.br, sgr)
	for x := r.X1 + 1; x < r.X2-1; x++ {
		f.Set(x, r.Y1, g.h, sgr)
		f.Set(x, r.Y2-1, g.h, sgr)
	}
	for y := r.Y1 + 1; y < r.Y2-1; y++ {
		f.Set(r.X1, y, g.v, sgr)
		f.Set(r.X2-1, y, g.v, sgr)
	}
}

func (p *Pipeline) drawTitle(f *Frame, r, _ geometry.Rect, b *model.MuxBox, eff style.Style, focused bool) {
	if b.Title == "" || r.Width() <= 2 {
		return
	}
	titleColor := eff.TitleColor
	if focused && eff.SelectedForeground != "" {
		titleColor = eff.SelectedForeground
	}
	sgr := sgrPrefix(p.Resolver.Render("", style.Style{Foreground: titleColor}, false))
	avail := r.Width() - 2
	title := b.Title
	if runewidth.StringWidth(title) > avail {
		title = runewidth.Truncate(title, avail, "")
	}
	var x int
	switch b.TitleAnchor {
	case model.AnchorCenter:
		x = r.X1 + 1 + (avail-runewidth.StringWidth(title))/2
	case model.AnchorEnd:
		x = r.X2 - 1 - runewidth.StringWidth(title)
	default:
		x = r.X1 + 1
	}
	f.WriteString(x, r.Y1, title, sgr)

	if b.PTYTitleSuffix != "" {
		suffix := " " + b.PTYTitleSuffix
		sx := r.X2 - 1 - runewidth.StringWidth(suffix)
		if sx > x+runewidth.StringWidth(title) {
			f.WriteString(sx, r.Y1, suffix, sgr)
		}
	}
}

func (p *Pipeline) drawContent(f *Frame, b *model.MuxBox, interior, _ geometry.Rect, eff style.Style, focused bool) {
	w, h := interior.Width(), interior.Height()
	if w <= 0 || h <= 0 {
		return
	}
	switch {
	case len(b.Choices) > 0:
		p.drawChoices(f, b, interior, eff)
	case b.ChartConfig != nil:
		grid := chart.Render(*b.ChartConfig, b.ChartData, w, h)
		p.blit(f, interior, grid, "")
	case b.TableConfig != nil:
		state := table.State{}
		grid := table.Render(*b.TableConfig, b.TableData, state, w, h)
		p.blit(f, interior, grid, "")
	default:
		p.drawScrollback(f, b, interior, eff)
		p.drawScrollIndicators(f, b, interior)
	}
}

func (p *Pipeline) blit(f *Frame, interior geometry.Rect, grid [][]rune, sgr string) {
	for y, row := range grid {
		if y >= interior.Height() {
			break
		}
		for x, r := range row {
			if x >= interior.Width() {
				break
			}
			f.Set(interior.X1+x, interior.Y1+y, r, sgr)
		}
	}
}

func (p *Pipeline) drawChoices(f *Frame, b *model.MuxBox, interior geometry.Rect, eff style.Style) {
	normalSGR := sgrPrefix(p.Resolver.Render("", style.Style{Foreground: eff.Foreground}, false))
	selSGR := sgrPrefix(p.Resolver.Render("", eff, true))
	for i, c := range b.Choices {
		y := interior.Y1 + i
		if y >= interior.Y2 {
			break
		}
		sgr := normalSGR
		if i == b.SelectedIdx {
			sgr = selSGR
		}
		text := c.Content
		if runewidth.StringWidth(text) > interior.Width() {
			text = runewidth.Truncate(text, interior.Width(), "")
		}
		f.Fill(interior.X1, y, interior.X2, y+1, ' ', sgr)
		f.WriteString(interior.X1, y, text, sgr)
	}
}

func (p *Pipeline) drawScrollback(f *Frame, b *model.MuxBox, interior geometry.Rect, eff style.Style) {
	if b.Scrollback == nil {
		return
	}
	lines := b.Scrollback.Window(interior.Height())
	normalSGR := sgrPrefix(p.Resolver.Render("", style.Style{Foreground: eff.Foreground}, false))
	for i, line := range lines {
		y := interior.Y1 + i
		if y >= interior.Y2 {
			break
		}
		writeANSILine(f, interior.X1, y, interior.Width(), line.ANSI, normalSGR)
	}
}

// drawScrollIndicators overlays a vertical scrollbar on the right edge
// and nothing on the bottom (horizontal overflow is not modeled: BoxMux
// content is line-oriented text), with thumb size proportional to
// viewport/content ratio (Section 4.G).
func (p *Pipeline) drawScrollIndicators(f *Frame, b *model.MuxBox, interior geometry.Rect) {
	if b.Scrollback == nil {
		return
	}
	total := b.Scrollback.Len()
	viewport := interior.Height()
	if total <= viewport || viewport <= 0 {
		return
	}
	x := interior.X2 - 1
	thumbSize := viewport * viewport / total
	if thumbSize < 1 {
		thumbSize = 1
	}
	maxScroll := total - viewport
	sy := b.Scrollback.ScrollY()
	thumbStart := 0
	if maxScroll > 0 {
		thumbStart = sy * (viewport - thumbSize) / maxScroll
	}
	for y := 0; y < viewport; y++ {
		ch := '│'
		if y >= thumbStart && y < thumbStart+thumbSize {
			ch = '█'
		}
		f.Set(x, interior.Y1+y, ch, "")
	}
}

// sgrPrefix extracts just the escape-code prefix from a termenv-styled
// empty string (termenv.Style{}.Styled("") yields "<prefix><reset>" when
// a color/attr was applied; with nothing applied it yields "").
func sgrPrefix(styled string) string {
	if styled == "" {
		return ""
	}
	if idx := strings.Index(styled, "\x1b[0m"); idx >= 0 {
		return styled[:idx]
	}
	return styled
}

// writeANSILine draws one scrollback line (which may already contain SGR
// escapes from captured PTY/ANSI output) into row y starting at x,
// clipped to w cells, applying fallbackSGR wherever the line itself
// carries no active style. It is a minimal re-implementation of the
// alternating-region approach in RenderLineFrom, adapted to a plain
// string containing interleaved CSI SGR sequences instead of a
// midterm.Terminal's parsed Format regions.
func writeANSILine(f *Frame, x, y, w, line, fallbackSGR string) {
	col := 0
	i := 0
	current := fallbackSGR
	runes := []rune(line)
	for i < len(runes) && col < w {
		r := runes[i]
		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			j := i + 2
			for j < len(runes) && runes[j] != 'm' {
				j++
			}
			if j < len(runes) {
				seq := string(runes[i : j+1])
				if seq == "\x1b[0m" {
					current = fallbackSGR
				} else {
					current = seq
				}
				i = j + 1
				continue
			}
		}
		width := runewidth.RuneWidth(r)
		if width <= 0 {
			i++
			continue
		}
		f.Set(x+col, y, r, current)
		col += width
		i++
	}
}
