package socket

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boxmux/internal/msg"
)

func startTestServer(t *testing.T) (*Server, chan msg.Msg, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxmux.sock")
	queue := make(chan msg.Msg, 8)
	s := New(path, queue)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go s.Serve()
	t.Cleanup(s.Close)
	return s, queue, path
}

func dialAndSend(t *testing.T, path string, payload string) map[string]any {
	t.Helper()
	conn, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply map[string]any
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return reply
}

func TestServerDecodesCommandAndRepliesFromCoordinator(t *testing.T) {
	_, queue, path := startTestServer(t)

	done := make(chan struct{})
	go func() {
		cmd := (<-queue).(msg.SocketCmd)
		if cmd.Kind != "replace-panel-content" {
			t.Errorf("kind = %q", cmd.Kind)
		}
		if cmd.PanelID != "box1" || cmd.Content != "Line1\nLine2" {
			t.Errorf("unexpected args: %+v", cmd)
		}
		cmd.Reply <- msg.SocketReply{Success: true}
		close(done)
	}()

	reply := dialAndSend(t, path, `{"replace-panel-content": {"panel_id": "box1", "content": "Line1\nLine2"}}`)
	<-done
	if reply["success"] != true {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestServerRejectsMultiKeyCommand(t *testing.T) {
	_, _, path := startTestServer(t)
	reply := dialAndSend(t, path, `{"a": {}, "b": {}}`)
	if reply["success"] != false || reply["error_code"] != "SchemaError" {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestServerRejectsInvalidJSON(t *testing.T) {
	_, _, path := startTestServer(t)
	reply := dialAndSend(t, path, `not json`)
	if reply["success"] != false {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestServerRejectsOversizedPanelID(t *testing.T) {
	_, _, path := startTestServer(t)
	longID := make([]byte, 300)
	for i := range longID {
		longID[i] = 'x'
	}
	payload := `{"remove-panel": {"panel_id": "` + string(longID) + `"}}`
	reply := dialAndSend(t, path, payload)
	if reply["success"] != false || reply["error_code"] != "LimitError" {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestListenRemovesStaleSocketFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxmux.sock")
	// Simulate a crash: the socket path exists on disk (a crashed process
	// never got to unlink it) but nothing is listening behind it.
	if err := os.WriteFile(path, nil, 0o660); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	queue := make(chan msg.Msg, 1)
	s := New(path, queue)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen over stale socket: %v", err)
	}
	s.Close()
}

func TestListenRejectsLiveSocket(t *testing.T) {
	_, _, path := startTestServer(t)

	queue := make(chan msg.Msg, 1)
	dup := New(path, queue)
	if err := dup.Listen(); err == nil {
		t.Fatal("expected error binding a path with a live listener")
	}
}
