// Package socket implements the control socket server (Section 4.K): a
// Unix-domain stream listener accepting one JSON command per connection,
// translating it into a msg.SocketCmd, and writing back whatever
// msg.SocketReply the Coordinator produces. Grounded on the teacher's
// internal/bridgeservice/service.go Run/acceptLoop/handleConn shape —
// same "probe for a stale socket, listen, accept in a loop, one goroutine
// per connection" structure — generalized from bridgeservice's
// line-delimited request/response pair to BoxMux's single-JSON-object-
// per-connection framing.
package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"boxmux/internal/msg"
)

// Server accepts control-socket connections and forwards decoded
// commands to a Coordinator's queue.
type Server struct {
	path     string
	queue    chan<- msg.Msg
	listener net.Listener
}

// New builds a Server bound to path, forwarding commands onto queue.
func New(path string, queue chan<- msg.Msg) *Server {
	return &Server{path: path, queue: queue}
}

// wireCommand is the JSON shape one connection sends: a single key naming
// the command, whose value holds that command's arguments (Section 4.K's
// example: {"replace-panel-content": {"panel_id": "X", "content": "..."}}).
type wireCommand map[string]json.RawMessage

type commandArgs struct {
	PanelID  string          `json:"panel_id"`
	LayoutID string          `json:"layout_id"`
	Content  string          `json:"content"`
	Script   []string        `json:"script"`
	Panel    json.RawMessage `json:"panel"`
	NewPanel json.RawMessage `json:"new_panel"`
	Input    string          `json:"input"`
}

// Listen creates the Unix socket, removing a stale one left behind by a
// crashed prior run (detected the way the teacher's daemon does: dial it
// first, and only remove it if nothing answers).
func (s *Server) Listen() error {
	if _, err := os.Stat(s.path); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.path, 300*time.Millisecond)
		if dialErr == nil {
			conn.Close()
			return fmt.Errorf("socket: %s already has a live listener", s.path)
		}
		os.Remove(s.path)
	}
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("socket: listen: %w", err)
	}
	if err := os.Chmod(s.path, 0o660); err != nil {
		ln.Close()
		return fmt.Errorf("socket: chmod: %w", err)
	}
	s.listener = ln
	return nil
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting and removes the socket file.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.path)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(conn)
	var wire wireCommand
	if err := dec.Decode(&wire); err != nil {
		writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "SchemaError", Error: "invalid JSON: " + err.Error()})
		return
	}
	if len(wire) != 1 {
		writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "SchemaError", Error: "expected exactly one command key"})
		return
	}

	var kind string
	var raw json.RawMessage
	for k, v := range wire {
		kind, raw = k, v
	}

	var args commandArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "SchemaError", Error: "invalid arguments: " + err.Error()})
			return
		}
	}
	if len(args.PanelID) > 256 || len(args.LayoutID) > 256 {
		writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "LimitError", Error: "id exceeds 256 chars"})
		return
	}

	cmd := msg.SocketCmd{
		Kind:     kind,
		PanelID:  args.PanelID,
		LayoutID: args.LayoutID,
		Content:  args.Content,
		Script:   args.Script,
		Input:    []byte(args.Input),
		Reply:    make(chan msg.SocketReply, 1),
	}
	if panel := args.Panel; len(panel) > 0 {
		cmd.Panel = decodeObject(panel)
	}
	if newPanel := args.NewPanel; len(newPanel) > 0 {
		cmd.Panel = decodeObject(newPanel)
	}

	select {
	case s.queue <- cmd:
	case <-time.After(5 * time.Second):
		writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "IOError", Error: "coordinator did not accept command in time"})
		return
	}

	select {
	case reply := <-cmd.Reply:
		writeReply(conn, reply)
	case <-time.After(10 * time.Second):
		writeReply(conn, msg.SocketReply{Success: false, ErrorCode: "IOError", Error: "coordinator did not reply in time"})
	}
}

func decodeObject(raw json.RawMessage) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func writeReply(conn net.Conn, reply msg.SocketReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
