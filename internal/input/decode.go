// Package input implements the input router (Section 4.H): decoding raw
// terminal bytes into key/mouse events, then turning those events into
// Coordinator messages. The escape-sequence scanner is grounded on the
// teacher's internal/overlay/input.go HandleEscape/HandleCSI — the same
// "scan parameter bytes, then an intermediate range, then a final byte"
// CSI shape — generalized from "forward unless it's an arrow" to a full
// Home/End/PgUp/PgDn/F-key/mouse-SGR table, since BoxMux's focused
// content (not just one PTY) needs real key identities, not just pass-
// through bytes.
package input

import "strconv"

// SpecialKey names a non-printable key distinct from a literal rune.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyTab
	KeyShiftTab
	KeyEnter
	KeyBackspace
	KeyEsc
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
)

// Event is one decoded terminal input event.
type Event struct {
	// Key events.
	IsKey   bool
	Special SpecialKey
	Rune    rune
	Ctrl    bool

	// Mouse events.
	IsMouse bool
	X, Y    int
	Button  int
	Release bool
}

// Decoder turns a byte stream into Events, buffering a partial escape
// sequence across calls the way the teacher's Overlay buffers
// PassthroughEsc across PTY reads.
type Decoder struct {
	pending []byte
}

// Feed decodes as many complete events as buf contains, carrying any
// trailing partial escape sequence into the next Feed call.
func (d *Decoder) Feed(buf []byte) []Event {
	data := append(d.pending, buf...)
	d.pending = nil

	var events []Event
	i := 0
	for i < len(data) {
		b := data[i]
		if b == 0x1B {
			ev, consumed, complete := decodeEscape(data[i:])
			if !complete {
				d.pending = append([]byte(nil), data[i:]...)
				break
			}
			if consumed == 0 {
				// Bare ESC with nothing following yet in this chunk; wait for
				// more data in case a CSI/SS3 sequence is still arriving.
				d.pending = append([]byte(nil), data[i:]...)
				break
			}
			events = append(events, ev)
			i += consumed
			continue
		}
		events = append(events, decodeSingleByte(b))
		i++
	}
	return events
}

func decodeSingleByte(b byte) Event {
	switch b {
	case 0x09:
		return Event{IsKey: true, Special: KeyTab}
	case 0x0D, 0x0A:
		return Event{IsKey: true, Special: KeyEnter}
	case 0x7F, 0x08:
		return Event{IsKey: true, Special: KeyBackspace}
	case 0x03:
		return Event{IsKey: true, Rune: 'c', Ctrl: true}
	case 0x11:
		return Event{IsKey: true, Rune: 'q', Ctrl: true}
	}
	if b < 0x20 {
		return Event{IsKey: true, Rune: rune('a' + b - 1), Ctrl: true}
	}
	return Event{IsKey: true, Rune: rune(b)}
}

// decodeEscape decodes one escape sequence starting at data[0]==0x1B.
// complete is false when more bytes are needed to know the final byte.
func decodeEscape(data []byte) (ev Event, consumed int, complete bool) {
	if len(data) == 1 {
		return Event{}, 0, false
	}
	switch data[1] {
	case '[':
		return decodeCSI(data)
	case 'O':
		if len(data) < 3 {
			return Event{}, 0, false
		}
		switch data[2] {
		case 'P':
			return Event{IsKey: true, Special: KeyF1}, 3, true
		case 'Q':
			return Event{IsKey: true, Special: KeyF2}, 3, true
		case 'R':
			return Event{IsKey: true, Special: KeyF3}, 3, true
		case 'S':
			return Event{IsKey: true, Special: KeyF4}, 3, true
		}
		return Event{IsKey: true, Special: KeyEsc}, 3, true
	default:
		return Event{IsKey: true, Special: KeyEsc}, 1, true
	}
}

// decodeCSI decodes an ESC '[' ... sequence: parameter bytes (0x30-0x3F),
// an intermediate range (0x20-0x2F), then one final byte, mirroring
// HandleCSI's scan loop.
func decodeCSI(data []byte) (ev Event, consumed int, complete bool) {
	i := 2
	for i < len(data) && data[i] >= 0x30 && data[i] <= 0x3F {
		i++
	}
	for i < len(data) && data[i] >= 0x20 && data[i] <= 0x2F {
		i++
	}
	if i >= len(data) {
		return Event{}, 0, false
	}
	params := string(data[2:i])
	final := data[i]
	total := i + 1

	switch final {
	case 'A':
		return Event{IsKey: true, Special: KeyUp}, total, true
	case 'B':
		return Event{IsKey: true, Special: KeyDown}, total, true
	case 'C':
		return Event{IsKey: true, Special: KeyRight}, total, true
	case 'D':
		return Event{IsKey: true, Special: KeyLeft}, total, true
	case 'H':
		return Event{IsKey: true, Special: KeyHome}, total, true
	case 'F':
		return Event{IsKey: true, Special: KeyEnd}, total, true
	case 'Z':
		return Event{IsKey: true, Special: KeyShiftTab}, total, true
	case '~':
		return decodeTilde(params), total, true
	case 'M', 'm':
		return decodeSGRMouse(params, final == 'm'), total, true
	}
	return Event{IsKey: true, Special: KeyEsc}, total, true
}

func decodeTilde(params string) Event {
	switch params {
	case "1", "7":
		return Event{IsKey: true, Special: KeyHome}
	case "3":
		return Event{IsKey: true, Special: KeyDelete}
	case "4", "8":
		return Event{IsKey: true, Special: KeyEnd}
	case "5":
		return Event{IsKey: true, Special: KeyPgUp}
	case "6":
		return Event{IsKey: true, Special: KeyPgDn}
	}
	return Event{IsKey: true, Special: KeyEsc}
}

// decodeSGRMouse decodes an SGR mouse report: terminals send
// ESC[<b;x;yM (or ...m on release). '<' (0x3C) is a CSI parameter byte,
// so params arrives as "<b;x;y" and the leading '<' is stripped here.
func decodeSGRMouse(params string, release bool) Event {
	if len(params) > 0 && params[0] == '<' {
		params = params[1:]
	}
	var btn, x, y int
	start := 0
	field := 0
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ';' {
			v, _ := strconv.Atoi(params[start:i])
			switch field {
			case 0:
				btn = v
			case 1:
				x = v
			case 2:
				y = v
			}
			field++
			start = i + 1
		}
	}
	return Event{IsMouse: true, Button: btn, X: x - 1, Y: y - 1, Release: release}
}
