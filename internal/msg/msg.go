// Package msg defines the typed messages the Coordinator's single-writer
// event loop consumes (Section 4.L). It is a leaf package: the input
// router, socket server, script runner, and PTY session manager all
// construct these values and hand them to the Coordinator over a
// channel, but none of them import the Coordinator itself — the
// dependency runs one way, the same separation the teacher keeps between
// its message package (internal/message) and the Client/Overlay that
// consume it.
package msg

// Msg is the marker interface every Coordinator message implements.
type Msg interface {
	isMsg()
}

// InputKind enumerates the semantic actions the input router can derive
// from a raw terminal event (Section 4.H).
type InputKind int

const (
	InputFocusNext InputKind = iota
	InputFocusPrev
	InputScroll
	InputPTYBytes
	InputRunKeypress
	InputClipboardCopy
	InputForwardSignal
	InputShutdown
	InputMouseClick
	InputResize
)

// ScrollDir is the direction/unit of an InputScroll message.
type ScrollDir int

const (
	ScrollLineUp ScrollDir = iota
	ScrollLineDown
	ScrollPageUp
	ScrollPageDown
	ScrollHome
	ScrollEnd
)

// InputCmd is produced by the input router for every decoded terminal
// event; the router holds no mutable Model state, so every field the
// Coordinator needs to finish resolving the action travels in the
// message itself.
type InputCmd struct {
	Kind InputKind

	// BoxID is the focused (or, for InputMouseClick, hit-tested) box, when
	// the action targets one.
	BoxID string

	Dir ScrollDir

	// PTYBytes carries the raw bytes to forward to the focused PTY session,
	// already encoded per the terminal-key-to-byte-sequence mapping.
	PTYBytes []byte

	// Key is the canonical on_keypress key name that matched (e.g. "up",
	// "ctrl+c", "a"), set for InputRunKeypress.
	Key string

	// X, Y are the absolute screen cell of an InputMouseClick.
	X, Y int

	Rows, Cols int // InputResize
}

func (InputCmd) isMsg() {}

// SocketCmd is produced by the socket server for each decoded JSON
// command (Section 4.K); Reply carries the single response value back to
// the connection handler goroutine once the Coordinator has applied (or
// rejected) the command.
type SocketCmd struct {
	Kind     string
	PanelID  string
	LayoutID string
	Content  string
	Script   []string
	Panel    map[string]any
	Input    []byte
	Reply    chan SocketReply
}

func (SocketCmd) isMsg() {}

// SocketReply is the JSON-serializable response to one SocketCmd,
// matching Section 4.K's normative response shape.
type SocketReply struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// ScriptOutput carries one completed (or in-progress) run's captured
// output for the Coordinator to route into a scrollback.
type ScriptOutput struct {
	BoxID  string
	RunID  string
	Lines  string
	Stream string // "stdout", "combined"
	Append bool
}

func (ScriptOutput) isMsg() {}

// ScriptExit reports a script job's completion.
type ScriptExit struct {
	BoxID    string
	RunID    string
	ExitCode int
}

func (ScriptExit) isMsg() {}

// PTYOutput signals that a PTY session produced output and the owning
// box's scrollback should be considered dirty for the next render pass.
type PTYOutput struct {
	BoxID string
}

func (PTYOutput) isMsg() {}

// PTYExit reports a PTY child's termination (Section 4.J).
type PTYExit struct {
	BoxID   string
	Code    int
	Crashed bool
}

func (PTYExit) isMsg() {}

// Tick is emitted by the render pacer at the configured frame interval.
type Tick struct{}

func (Tick) isMsg() {}

// Resize reports a terminal resize event.
type Resize struct {
	Rows, Cols int
}

func (Resize) isMsg() {}

// Shutdown requests graceful teardown (Section 4.O).
type Shutdown struct {
	Reason string
}

func (Shutdown) isMsg() {}
