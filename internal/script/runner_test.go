package script

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"boxmux/internal/scrollback"
)

type captureSink struct {
	mu   sync.Mutex
	runs []string
}

func (c *captureSink) Deliver(boxID, lines string, append bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, lines)
}

func (c *captureSink) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.runs) == 0 {
		return ""
	}
	return c.runs[len(c.runs)-1]
}

func TestRunOnceCapturesOutputAndExitCode(t *testing.T) {
	sink := &captureSink{}
	RunOnce(context.Background(), []string{"echo hello"}, nil, sink, "box1", "", false)
	out := sink.last()
	if !strings.Contains(out, "hello") || strings.Contains(out, "[exit") {
		t.Fatalf("got %q", out)
	}
}

func TestRunOnceSurfacesNonZeroExit(t *testing.T) {
	sink := &captureSink{}
	RunOnce(context.Background(), []string{"exit 7"}, nil, sink, "box1", "", false)
	out := sink.last()
	if !strings.Contains(out, "[exit 7]") {
		t.Fatalf("got %q", out)
	}
}

func TestRunOnceRoutesToRedirectTarget(t *testing.T) {
	own := scrollback.New(100)
	other := scrollback.New(100)
	sink := NewScrollbackSink(map[string]*scrollback.Buffer{"box1": own, "other": other})
	RunOnce(context.Background(), []string{"echo x"}, nil, sink, "box1", "other", false)
	if own.Len() != 0 {
		t.Fatalf("owning box got %d lines, want 0", own.Len())
	}
	if other.PlainText() != "x" {
		t.Fatalf("redirect target got %q, want %q", other.PlainText(), "x")
	}
}

func TestScrollbackSinkAppendAndReplace(t *testing.T) {
	buf := scrollback.New(100)
	sink := NewScrollbackSink(map[string]*scrollback.Buffer{"box1": buf})
	sink.Deliver("box1", "a\nb", true)
	sink.Deliver("box1", "c", true)
	if buf.Len() != 3 {
		t.Fatalf("got len %d, want 3", buf.Len())
	}
	sink.Deliver("box1", "x\ny", false)
	if buf.Len() != 2 {
		t.Fatalf("got len %d after replace, want 2", buf.Len())
	}
}

func TestRunnerPeriodicReschedules(t *testing.T) {
	sink := &captureSink{}
	r := NewRunner(sink)
	r.Start(Job{
		BoxID:      "box1",
		Command:    []string{"echo tick"},
		Kind:       KindPeriodic,
		IntervalMs: 20,
	})
	time.Sleep(120 * time.Millisecond)
	r.Stop("box1")

	sink.mu.Lock()
	n := len(sink.runs)
	sink.mu.Unlock()
	if n < 2 {
		t.Fatalf("expected at least 2 periodic runs, got %d", n)
	}
}

func TestRunnerStopCancelsFutureRuns(t *testing.T) {
	sink := &captureSink{}
	r := NewRunner(sink)
	r.Start(Job{BoxID: "box1", Command: []string{"echo x"}, Kind: KindPeriodic, IntervalMs: 1000})
	r.Stop("box1")
	time.Sleep(10 * time.Millisecond)
	sink.mu.Lock()
	n := len(sink.runs)
	sink.mu.Unlock()
	if n > 1 {
		t.Fatalf("expected at most one run before stop took effect, got %d", n)
	}
}
