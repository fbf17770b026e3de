package eventlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func TestEventWritesJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := New(true, path)
	defer l.Close()

	l.Event("pty_started", "boxA", map[string]any{"pid": 123})

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var e struct {
		BoxID string `json:"box_id"`
		Event string `json:"event"`
		Ts    string `json:"ts"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.BoxID != "boxA" || e.Event != "pty_started" || e.Ts == "" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestErrorRecordsKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := New(true, path)
	defer l.Close()

	l.Error(Kind("ScriptError"), "boxB", "exit status 1")

	lines := readLines(t, path)
	var e struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Kind != "ScriptError" || e.Message != "exit status 1" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := New(false, path)
	defer l.Close()

	l.Event("pty_started", "boxA", nil)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be created when disabled")
	}
}

func TestNopLoggerIsNoop(t *testing.T) {
	l := Nop()
	l.Event("pty_started", "boxA", nil)
	l.Error(Kind("IOError"), "boxA", "boom")
	l.Close()
}

func TestMultipleEntriesAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := New(true, path)
	defer l.Close()

	l.Event("pty_started", "boxA", nil)
	l.Event("pty_stopped", "boxA", nil)
	l.Error(Kind("ScriptError"), "boxB", "bad")

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}
