package input

import (
	"boxmux/internal/msg"
	"boxmux/internal/render"
)

// Snapshot is the small slice of focus-dependent Model state the
// Coordinator publishes after each mutation so the router can resolve
// scroll/copy/PTY decisions without ever reading the Model directly
// (Section 4.H: "the router itself holds no mutable Model state").
type Snapshot struct {
	FocusedID         string
	FocusedIsPTY      bool
	FocusedCanCopy    bool
	FocusedOnKeypress map[string]bool
	Geometry          *render.GeometryCache
}

// Router turns decoded Events into Coordinator messages.
type Router struct{}

// NewRouter builds a stateless Router.
func NewRouter() *Router { return &Router{} }

// Route converts one Event into zero or more InputCmd messages.
func (r *Router) Route(ev Event, snap Snapshot) []msg.Msg {
	if ev.IsMouse {
		return r.routeMouse(ev, snap)
	}
	return r.routeKey(ev, snap)
}

func (r *Router) routeMouse(ev Event, snap Snapshot) []msg.Msg {
	if ev.Release {
		return nil
	}
	boxID := ""
	if snap.Geometry != nil {
		boxID = snap.Geometry.HitTest(ev.X, ev.Y)
	}
	if boxID == "" {
		return nil
	}
	return []msg.Msg{msg.InputCmd{Kind: msg.InputMouseClick, BoxID: boxID, X: ev.X, Y: ev.Y}}
}

func (r *Router) routeKey(ev Event, snap Snapshot) []msg.Msg {
	name := keyName(ev)

	if ev.Special == KeyTab {
		return []msg.Msg{msg.InputCmd{Kind: msg.InputFocusNext}}
	}
	if ev.Special == KeyShiftTab {
		return []msg.Msg{msg.InputCmd{Kind: msg.InputFocusPrev}}
	}
	if ev.Ctrl && ev.Rune == 'c' {
		switch {
		case snap.FocusedCanCopy:
			return []msg.Msg{msg.InputCmd{Kind: msg.InputClipboardCopy, BoxID: snap.FocusedID}}
		case snap.FocusedIsPTY:
			return []msg.Msg{msg.InputCmd{Kind: msg.InputPTYBytes, BoxID: snap.FocusedID, PTYBytes: []byte{0x03}}}
		default:
			return []msg.Msg{msg.InputCmd{Kind: msg.InputShutdown}}
		}
	}
	if ev.Ctrl && ev.Rune == 'q' {
		return []msg.Msg{msg.InputCmd{Kind: msg.InputShutdown}}
	}

	if name != "" && snap.FocusedOnKeypress[name] {
		return []msg.Msg{msg.InputCmd{Kind: msg.InputRunKeypress, BoxID: snap.FocusedID, Key: name}}
	}

	if dir, isScroll := scrollDir(ev); isScroll {
		if snap.FocusedIsPTY {
			return []msg.Msg{msg.InputCmd{Kind: msg.InputPTYBytes, BoxID: snap.FocusedID, PTYBytes: ptyEncode(ev)}}
		}
		return []msg.Msg{msg.InputCmd{Kind: msg.InputScroll, BoxID: snap.FocusedID, Dir: dir}}
	}

	if snap.FocusedIsPTY {
		if b := ptyEncode(ev); b != nil {
			return []msg.Msg{msg.InputCmd{Kind: msg.InputPTYBytes, BoxID: snap.FocusedID, PTYBytes: b}}
		}
	}
	return nil
}

// keyName returns the canonical on_keypress key name for ev, or "" if it
// has none. A plain rune is named by itself and a Ctrl-modified rune by
// "ctrl+" followed by the rune.
func keyName(ev Event) string {
	switch ev.Special {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyPgUp:
		return "pgup"
	case KeyPgDn:
		return "pgdn"
	case KeyEnter:
		return "enter"
	case KeyF1:
		return "f1"
	case KeyF2:
		return "f2"
	case KeyF3:
		return "f3"
	case KeyF4:
		return "f4"
	}
	if ev.Rune != 0 {
		if ev.Ctrl {
			return "ctrl+" + string(ev.Rune)
		}
		return string(ev.Rune)
	}
	return ""
}

func scrollDir(ev Event) (msg.ScrollDir, bool) {
	switch ev.Special {
	case KeyUp:
		return msg.ScrollLineUp, true
	case KeyDown:
		return msg.ScrollLineDown, true
	case KeyPgUp:
		return msg.ScrollPageUp, true
	case KeyPgDn:
		return msg.ScrollPageDown, true
	case KeyHome:
		return msg.ScrollHome, true
	case KeyEnd:
		return msg.ScrollEnd, true
	}
	return 0, false
}

// ptyEncode serializes a key event into the byte sequence a real
// terminal would send the child, per Section 4.H's "standard terminal-
// key-to-byte-sequence mapping".
func ptyEncode(ev Event) []byte {
	switch ev.Special {
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyLeft:
		return []byte("\x1b[D")
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPgUp:
		return []byte("\x1b[5~")
	case KeyPgDn:
		return []byte("\x1b[6~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyTab:
		return []byte{'\t'}
	case KeyEnter:
		return []byte{'\r'}
	case KeyBackspace:
		return []byte{0x7F}
	case KeyEsc:
		return []byte{0x1B}
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	}
	if ev.Ctrl && ev.Rune >= 'a' && ev.Rune <= 'z' {
		return []byte{byte(ev.Rune - 'a' + 1)}
	}
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}
	return nil
}
