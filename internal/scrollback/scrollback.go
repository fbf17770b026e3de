// Package scrollback implements the bounded, append-only line buffer
// owned by each MuxBox (Section 3, 4.B). It is grounded on the plain line
// history (appendPlainLine) in internal/session/virtualterminal/vt.go.
// Script, socket and PTY output all arrive as text through AppendText:
// each line keeps its CSI escape sequences in Line.ANSI for rendering and
// has them removed in Line.Plain for clipboard export.
package scrollback

import (
	"regexp"
	"strings"
	"sync"

	"github.com/vito/midterm"
)

// DefaultCapacity is the default scrollback cap (Section 3: "cap ~= 10,000").
const DefaultCapacity = 10000

// Line is one logical line of scrollback: displayable text plus its
// original ANSI-formatted form, when known.
type Line struct {
	Plain string
	ANSI  string // may equal Plain if no styling was captured
}

// Buffer is a bounded circular sequence of Lines with a scroll cursor,
// satisfying Section 8 invariant 2 (append never exceeds capacity) and
// invariant 4 (auto-scroll-bottom keeps the newest line visible).
type Buffer struct {
	mu       sync.Mutex
	cap      int
	lines    []Line
	sy       int
	auto     bool
	viewportH int

	// vt is not set or read anywhere; PTY sessions append their output
	// through AppendText like every other producer.
	vt *midterm.Terminal
}

// New creates a Buffer with the given capacity (DefaultCapacity if cap<=0).
// AutoScrollBottom starts enabled, matching a freshly created box's
// natural expectation of following new output.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{cap: capacity, auto: true}
}

// Cap returns the buffer's capacity.
func (b *Buffer) Cap() int {
	return b.cap
}

// Len returns the number of lines currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Append adds lines to the end of the buffer, dropping the oldest lines
// once capacity is exceeded (Section 8 invariant 2), and repositions the
// scroll cursor to the bottom if AutoScrollBottom is enabled (invariant 4).
func (b *Buffer) Append(lines ...Line) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
	if over := len(b.lines) - b.cap; over > 0 {
		b.lines = b.lines[over:]
	}
	if b.auto {
		b.syToBottomLocked()
	}
}

// csiSeq matches one CSI escape sequence (ESC '[' params intermediates
// final), the part AppendText removes from Line.Plain.
var csiSeq = regexp.MustCompile("\x1b\\[[0-?]*[ -/]*[@-~]")

// AppendText appends lines split on '\n', the shape used by the script
// runner, PTY sessions and socket replace-panel-content. Each Line.ANSI
// keeps the text as given; Line.Plain has CSI escape sequences removed.
func (b *Buffer) AppendText(text string) {
	if text == "" {
		return
	}
	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, Line{Plain: csiSeq.ReplaceAllString(p, ""), ANSI: p})
	}
	b.Append(lines...)
}

// ReplaceAll discards the current contents and replaces them with text,
// split on '\n' (Section 4.I: append_output=false semantics).
func (b *Buffer) ReplaceAll(text string) {
	b.mu.Lock()
	b.lines = nil
	b.sy = 0
	b.mu.Unlock()
	b.AppendText(text)
}

// Clear empties the buffer and resets scroll state.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.sy = 0
}

// Lines returns a copy of every line currently held, in append order.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Window returns up to viewportH lines starting at the current scroll
// position sy, for the renderer to draw directly.
func (b *Buffer) Window(viewportH int) []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewportH = viewportH
	if b.auto {
		b.syToBottomLocked()
	} else {
		b.clampLocked()
	}
	if viewportH <= 0 || len(b.lines) == 0 {
		return nil
	}
	start := b.sy
	if start < 0 {
		start = 0
	}
	end := start + viewportH
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start > end {
		start = end
	}
	return append([]Line(nil), b.lines[start:end]...)
}

// PlainText renders the full buffer as ANSI-stripped plain text, for
// clipboard export (Section 4.M).
func (b *Buffer) PlainText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = l.Plain
	}
	return strings.Join(parts, "\n")
}

// ScrollY returns the current scroll offset, measured from the top.
func (b *Buffer) ScrollY() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sy
}

// SetAutoScrollBottom enables or disables auto-scroll. Enabling
// immediately repositions to the bottom (e.g. the End key re-engaging
// auto-scroll per Section 4.B).
func (b *Buffer) SetAutoScrollBottom(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auto = on
	if on {
		b.syToBottomLocked()
	}
}

// AutoScrollBottom reports whether auto-scroll is currently engaged.
func (b *Buffer) AutoScrollBottom() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auto
}

func (b *Buffer) syToBottomLocked() {
	max := len(b.lines) - b.viewportH
	if max < 0 {
		max = 0
	}
	b.sy = max
}

// clampLocked clamps sy into [0, max(0, len-viewportH)] (Section 4.B, 8).
func (b *Buffer) clampLocked() {
	max := len(b.lines) - b.viewportH
	if max < 0 {
		max = 0
	}
	if b.sy < 0 {
		b.sy = 0
	} else if b.sy > max {
		b.sy = max
	}
}

// ScrollLines moves sy by delta, clamping into range and disabling
// auto-scroll on any manual scroll (Section 4.B).
func (b *Buffer) ScrollLines(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auto = false
	b.sy += delta
	b.clampLocked()
}

// ScrollPage moves sy by a full page with a one-line overlap
// (viewportH - 1), per Section 4.B's PageUp/PageDown rule.
func (b *Buffer) ScrollPage(down bool, viewportH int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewportH = viewportH
	step := viewportH - 1
	if step < 1 {
		step = 1
	}
	b.auto = false
	if down {
		b.sy += step
	} else {
		b.sy -= step
	}
	b.clampLocked()
}

// ScrollHome jumps to the top and disables auto-scroll.
func (b *Buffer) ScrollHome() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auto = false
	b.sy = 0
}

// ScrollEnd jumps to the bottom and re-engages auto-scroll (Section 4.B:
// "pressing End re-enables" auto-scroll).
func (b *Buffer) ScrollEnd(viewportH int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewportH = viewportH
	b.auto = true
	b.syToBottomLocked()
}

// Resize re-clamps the scroll offset for a new viewport height, as
// required on terminal resize (Section 4.A, 8 scenario S6).
func (b *Buffer) Resize(viewportH int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewportH = viewportH
	if b.auto {
		b.syToBottomLocked()
		return
	}
	b.clampLocked()
}
