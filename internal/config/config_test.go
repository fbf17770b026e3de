package config

import (
	"strings"
	"testing"
)

const minimalDoc = `
layouts:
  - id: main
    root: true
    children:
      - id: box1
        position:
          x1: 0%
          y1: 0%
          x2: 100%
          y2: 100%
        content: "hello ${NAME:world}"
`

func TestLoadBytesMinimalDocument(t *testing.T) {
	app, err := LoadBytes([]byte(minimalDoc), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(app.Layouts) != 1 {
		t.Fatalf("expected 1 layout, got %d", len(app.Layouts))
	}
	root := app.RootLayout()
	if root == nil || root.ID != "main" {
		t.Fatalf("expected root layout 'main', got %v", root)
	}
	box := root.FindBox("box1")
	if box == nil {
		t.Fatal("expected to find box1")
	}
	if box.Content != "hello world" {
		t.Fatalf("got content %q", box.Content)
	}
}

func TestLoadBytesRejectsUnknownField(t *testing.T) {
	doc := `
layouts:
  - id: main
    root: true
    bogus_field: 1
    children: []
`
	_, err := LoadBytes([]byte(doc), "test")
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadBytesRequiresExactlyOneRoot(t *testing.T) {
	doc := `
layouts:
  - id: a
    children: []
  - id: b
    children: []
`
	_, err := LoadBytes([]byte(doc), "test")
	if err == nil || !strings.Contains(err.Error(), "root") {
		t.Fatalf("expected root-count error, got %v", err)
	}
}

func TestLoadBytesRejectsDuplicateIDs(t *testing.T) {
	doc := `
layouts:
  - id: main
    root: true
    children:
      - id: dup
        position: {x1: 0, y1: 0, x2: 10, y2: 10}
        content: "a"
      - id: dup
        position: {x1: 0, y1: 0, x2: 10, y2: 10}
        content: "b"
`
	_, err := LoadBytes([]byte(doc), "test")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadBytesRejectsMultiplePrimaryContentKinds(t *testing.T) {
	doc := `
layouts:
  - id: main
    root: true
    children:
      - id: box1
        position: {x1: 0, y1: 0, x2: 10, y2: 10}
        content: "a"
        script: ["echo hi"]
`
	_, err := LoadBytes([]byte(doc), "test")
	if err == nil || !strings.Contains(err.Error(), "at most one") {
		t.Fatalf("expected primary-content-kind error, got %v", err)
	}
}

func TestLoadBytesRejectsInvalidOverflow(t *testing.T) {
	doc := `
layouts:
  - id: main
    root: true
    children:
      - id: box1
        position: {x1: 0, y1: 0, x2: 10, y2: 10}
        content: "a"
        overflow: bogus
`
	_, err := LoadBytes([]byte(doc), "test")
	if err == nil || !strings.Contains(err.Error(), "overflow") {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestParseMuxBoxDecodesStandaloneBox(t *testing.T) {
	doc := `
id: standalone
position: {x1: 0, y1: 0, x2: 10, y2: 10}
content: "hi"
`
	box, err := ParseMuxBox([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if box.ID != "standalone" {
		t.Fatalf("got id %q", box.ID)
	}
}
