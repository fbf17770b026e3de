// Package style resolves BoxMux's named color palette and inherited style
// overrides into terminal escape sequences (Section 4.C), using
// github.com/muesli/termenv the way the teacher resolves the outer
// terminal's own foreground/background colors in
// internal/cmd/term_colors.go and internal/session/virtualterminal/util.go.
package style

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// namedANSI is the 8-base + 8-bright + reset/default palette from Section 4.C.
var namedANSI = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright_black":   8,
	"bright_red":     9,
	"bright_green":   10,
	"bright_yellow":  11,
	"bright_blue":    12,
	"bright_magenta": 13,
	"bright_cyan":    14,
	"bright_white":   15,
}

// Resolver resolves color names to termenv.Color values against a fixed
// output color profile (ANSI, 256-color, or TrueColor), detected once at
// startup the way the teacher probes the outer terminal's profile.
type Resolver struct {
	profile termenv.Profile
}

// NewResolver builds a Resolver bound to the given output's color profile.
func NewResolver(profile termenv.Profile) *Resolver {
	return &Resolver{profile: profile}
}

// DetectResolver builds a Resolver from the current stdout's color profile,
// the way internal/cmd/term_colors.go calls termenv.NewOutput(os.Stdout).
func DetectResolver() *Resolver {
	return NewResolver(termenv.NewOutput(os.Stdout).Profile)
}

// Color resolves a color name to a termenv.Color. Accepts:
//   - "reset"/"default" -> nil (caller should omit the SGR code)
//   - a named palette color ("red", "bright_blue", ...)
//   - a bare ANSI256 index ("214")
//   - a hex triplet ("#ff8800")
func (r *Resolver) Color(name string) termenv.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "reset" || name == "default" {
		return nil
	}
	if code, ok := namedANSI[name]; ok {
		return r.profile.Color(strconv.Itoa(code))
	}
	if strings.HasPrefix(name, "#") {
		return r.profile.Color(name)
	}
	if _, err := strconv.Atoi(name); err == nil {
		return r.profile.Color(name)
	}
	return nil
}

// Attrs are boolean style attributes, tri-state via pointer so "unset"
// means "inherit from parent" during merge.
type Attrs struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
}

// Style is one muxbox's or layout's resolved style intent: color names
// (not yet resolved to escapes — resolution happens at render time against
// a Resolver, so style.Style values round-trip cleanly through config).
type Style struct {
	Foreground         string
	Background         string
	TitleColor         string
	BorderColor        string
	MenuColor          string
	SelectedForeground string
	SelectedBackground string
	SelectedBorder     string
	FillChar           string
	Attrs              Attrs
}

// Merge returns a new Style with child's non-empty/non-nil fields
// overriding base's, i.e. child merged right-to-left over base — the
// Section 4.C inheritance rule applied one link of the chain at a time.
func Merge(base, child Style) Style {
	out := base
	if child.Foreground != "" {
		out.Foreground = child.Foreground
	}
	if child.Background != "" {
		out.Background = child.Background
	}
	if child.TitleColor != "" {
		out.TitleColor = child.TitleColor
	}
	if child.BorderColor != "" {
		out.BorderColor = child.BorderColor
	}
	if child.MenuColor != "" {
		out.MenuColor = child.MenuColor
	}
	if child.SelectedForeground != "" {
		out.SelectedForeground = child.SelectedForeground
	}
	if child.SelectedBackground != "" {
		out.SelectedBackground = child.SelectedBackground
	}
	if child.SelectedBorder != "" {
		out.SelectedBorder = child.SelectedBorder
	}
	if child.FillChar != "" {
		out.FillChar = child.FillChar
	}
	if child.Attrs.Bold != nil {
		out.Attrs.Bold = child.Attrs.Bold
	}
	if child.Attrs.Italic != nil {
		out.Attrs.Italic = child.Attrs.Italic
	}
	if child.Attrs.Underline != nil {
		out.Attrs.Underline = child.Attrs.Underline
	}
	return out
}

// MergeChain merges a list of styles from lowest to highest precedence,
// i.e. MergeChain(layout, ancestor...innermost, own) — the full scope
// chain a muxbox's effective style is built from.
func MergeChain(styles ...Style) Style {
	var out Style
	for _, s := range styles {
		out = Merge(out, s)
	}
	return out
}

// Effective renders a Style into foreground/background termenv.Style
// builders usable to wrap text, applying the "selected_*" swap when
// focused, per Section 4.C.
func (r *Resolver) Effective(s Style, focused bool) termenv.Style {
	fgName, bgName := s.Foreground, s.Background
	if focused {
		if s.SelectedForeground != "" {
			fgName = s.SelectedForeground
		}
		if s.SelectedBackground != "" {
			bgName = s.SelectedBackground
		}
	}
	out := termenv.String("")
	if fg := r.Color(fgName); fg != nil {
		out = out.Foreground(fg)
	}
	if bg := r.Color(bgName); bg != nil {
		out = out.Background(bg)
	}
	if s.Attrs.Bold != nil && *s.Attrs.Bold {
		out = out.Bold()
	}
	if s.Attrs.Italic != nil && *s.Attrs.Italic {
		out = out.Italic()
	}
	if s.Attrs.Underline != nil && *s.Attrs.Underline {
		out = out.Underline()
	}
	return out
}

// Render wraps text with the escape sequences for s, resolved against r,
// honoring the focused selected-variant swap.
func (r *Resolver) Render(text string, s Style, focused bool) string {
	st := r.Effective(s, focused)
	return st.Styled(text)
}

// BorderColorFor returns the effective border color name, swapping to
// SelectedBorder when focused and set.
func BorderColorFor(s Style, focused bool) string {
	if focused && s.SelectedBorder != "" {
		return s.SelectedBorder
	}
	return s.BorderColor
}
