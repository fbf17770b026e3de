// Package model defines BoxMux's data model (Section 3): Application,
// Layout, MuxBox, Choice, and the derived FocusRing. The Coordinator is
// the sole mutator of these types at runtime; everything here is plain
// exported-field structs, the same convention the teacher's Session and
// Client structs use for a single-writer-owned model.
package model

import (
	"boxmux/internal/chart"
	"boxmux/internal/geometry"
	"boxmux/internal/scrollback"
	"boxmux/internal/style"
	"boxmux/internal/table"
)

// Anchor positions a title or a fill within its available space.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorCenter Anchor = "center"
	AnchorEnd    Anchor = "end"
)

// PosValue is one edge of a MuxBox's position spec as written in YAML:
// either a percentage string ("25%") or an absolute cell count (25).
type PosValue struct {
	Edge geometry.Edge
}

// UnmarshalYAML accepts a bare scalar that is either a percentage string
// or an integer/float cell count.
func (p *PosValue) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	edge, err := ParsePosValue(raw)
	if err != nil {
		return err
	}
	p.Edge = edge
	return nil
}

// Application is the root container (Section 3).
type Application struct {
	Layouts   []*Layout
	Variables map[string]string
	Libs      []string // external script-library paths
	Style     style.Style
}

// Layout is a named top-level surface (Section 3).
type Layout struct {
	ID        string
	Root      bool
	Title     string
	Style     style.Style
	Variables map[string]string
	Children  []*MuxBox

	// Active is set by the Coordinator when this layout is the one
	// currently rendered; exactly one Layout in an Application is active
	// at a time.
	Active bool
}

// Overflow, re-exported from geometry for convenience at the model layer.
type Overflow = geometry.Overflow

const (
	OverflowScroll   = geometry.OverflowScroll
	OverflowFill     = geometry.OverflowFill
	OverflowCrossOut = geometry.OverflowCrossOut
	OverflowRemoved  = geometry.OverflowRemoved
)

// MuxBox is the panel (Section 3).
type MuxBox struct {
	ID    string
	Title string
	TitleAnchor Anchor

	Position geometry.Position

	// At most one of Content (static), Script, or Choices determines the
	// primary content; Children are still allowed for nesting regardless.
	Content string
	Script  []string
	Choices []*Choice

	PTY               bool
	RefreshIntervalMs int
	RedirectOutput    string
	AppendOutput      bool

	TabOrder    *int
	NextFocusID string

	Overflow Overflow

	ScrollX          int
	ScrollY          int
	AutoScrollBottom bool
	Scrollback       *scrollback.Buffer

	Style       style.Style
	Border      bool
	MinWidth    int
	MinHeight   int
	MaxWidth    int
	MaxHeight   int

	OnKeypress map[string][]string

	Variables map[string]string

	ChartConfig *chart.Config
	ChartData   []chart.DataPoint

	TableConfig *table.Config
	TableData   [][]string // rows including header per TableConfig.Headers

	Children []*MuxBox

	// Parent is set by the loader/coordinator after construction; nil for
	// top-level children of a Layout.
	Parent *MuxBox `yaml:"-"`

	// Runtime-only fields, set by the geometry/render passes, never by the
	// loader.
	ResolvedRect geometry.Rect `yaml:"-"`
	Removed      bool          `yaml:"-"`
	Focused      bool          `yaml:"-"`
	SelectedIdx  int           `yaml:"-"` // selected Choice index, if Choices != nil

	// PTYTitleSuffix holds the bracketed PTY status annotation (Section 7):
	// "[PID: n, Running]", "[Process Stopped]", "[PTY Failed]".
	PTYTitleSuffix string `yaml:"-"`
}

// Choice is a selectable entry in a choices-type MuxBox (Section 3).
type Choice struct {
	ID             string
	Content        string
	Script         []string
	Thread         bool
	RedirectOutput string
	AppendOutput   bool
}

// PrimaryContentKinds returns how many of {static content, script,
// choices} are set on b; invariant (ii) allows at most one.
func (b *MuxBox) PrimaryContentKinds() int {
	n := 0
	if b.Content != "" {
		n++
	}
	if len(b.Script) > 0 {
		n++
	}
	if len(b.Choices) > 0 {
		n++
	}
	return n
}

// Walk calls fn for b and every descendant, depth-first, pre-order.
func (b *MuxBox) Walk(fn func(*MuxBox)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Walk calls fn for every MuxBox in the layout, depth-first, pre-order.
func (l *Layout) Walk(fn func(*MuxBox)) {
	for _, c := range l.Children {
		c.Walk(fn)
	}
}

// FindBox returns the MuxBox with the given id anywhere in the layout, or
// nil.
func (l *Layout) FindBox(id string) *MuxBox {
	var found *MuxBox
	l.Walk(func(b *MuxBox) {
		if found == nil && b.ID == id {
			found = b
		}
	})
	return found
}

// FindLayout returns the Layout with the given id, or nil.
func (a *Application) FindLayout(id string) *Layout {
	for _, l := range a.Layouts {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ActiveLayout returns the currently active layout, or nil if none is
// marked active (should not happen after a successful load).
func (a *Application) ActiveLayout() *Layout {
	for _, l := range a.Layouts {
		if l.Active {
			return l
		}
	}
	return nil
}

// RootLayout returns the layout marked root, or nil.
func (a *Application) RootLayout() *Layout {
	for _, l := range a.Layouts {
		if l.Root {
			return l
		}
	}
	return nil
}

// FindBoxInApp searches every layout for a MuxBox with the given id.
func (a *Application) FindBoxInApp(id string) (*MuxBox, *Layout) {
	for _, l := range a.Layouts {
		if b := l.FindBox(id); b != nil {
			return b, l
		}
	}
	return nil, nil
}

// ParentBox returns b's parent MuxBox, or nil if b is a direct child of its
// layout.
func (b *MuxBox) ParentBox() *MuxBox {
	return b.Parent
}
