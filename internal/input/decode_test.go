package input

import "testing"

func TestFeedDecodesPlainRune(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte("a"))
	if len(events) != 1 || events[0].Rune != 'a' || events[0].Ctrl {
		t.Fatalf("got %+v", events)
	}
}

func TestFeedDecodesArrowKeys(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte("\x1b[A\x1b[B"))
	if len(events) != 2 || events[0].Special != KeyUp || events[1].Special != KeyDown {
		t.Fatalf("got %+v", events)
	}
}

func TestFeedDecodesHomeEndPageKeys(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte("\x1b[5~\x1b[6~\x1b[H\x1b[F"))
	want := []SpecialKey{KeyPgUp, KeyPgDn, KeyHome, KeyEnd}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Special != w {
			t.Fatalf("event %d: got %v, want %v", i, events[i].Special, w)
		}
	}
}

func TestFeedDecodesCtrlC(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte{0x03})
	if len(events) != 1 || !events[0].Ctrl || events[0].Rune != 'c' {
		t.Fatalf("got %+v", events)
	}
}

func TestFeedBuffersPartialEscapeAcrossCalls(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte{0x1B, '['})
	if len(events) != 0 {
		t.Fatalf("expected no events yet, got %+v", events)
	}
	events = d.Feed([]byte{'A'})
	if len(events) != 1 || events[0].Special != KeyUp {
		t.Fatalf("got %+v", events)
	}
}

func TestFeedDecodesSGRMouseClick(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte("\x1b[<0;10;5M"))
	if len(events) != 1 || !events[0].IsMouse {
		t.Fatalf("got %+v", events)
	}
	if events[0].X != 9 || events[0].Y != 4 || events[0].Release {
		t.Fatalf("got %+v", events[0])
	}
}

func TestFeedDecodesShiftTab(t *testing.T) {
	var d Decoder
	events := d.Feed([]byte("\x1b[Z"))
	if len(events) != 1 || events[0].Special != KeyShiftTab {
		t.Fatalf("got %+v", events)
	}
}
