// Package coordinator implements the single-writer event loop (Section
// 4.L): one goroutine owns the Model, consumes typed messages from a
// multi-producer queue, and is the only caller of the render pipeline.
// Grounded on the teacher's Client type (internal/session/client), which
// plays the same "one goroutine, everyone else sends it work" role for a
// single PTY instead of a tree of muxboxes — the split between
// Coordinator (owns Model + render) and the worker packages (script, pty,
// input, socket) mirrors the split between Client and its background
// read-pump and message-delivery goroutines.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"time"

	"boxmux/internal/boxerr"
	"boxmux/internal/eventlog"
	"boxmux/internal/input"
	"boxmux/internal/model"
	"boxmux/internal/msg"
	"boxmux/internal/pty"
	"boxmux/internal/render"
	"boxmux/internal/scrollback"
	"boxmux/internal/script"
	"boxmux/internal/style"
)

// Config bundles the Coordinator's startup dependencies.
type Config struct {
	App        *model.Application
	Output     io.Writer
	Logger     *eventlog.Logger
	FrameDelay time.Duration
	Rows, Cols int
}

// Coordinator owns the Model and is the sole writer of it at runtime.
type Coordinator struct {
	app     *model.Application
	active  *model.Layout
	focus   *model.FocusRing
	focused *model.MuxBox

	resolver *style.Resolver
	pipeline *render.Pipeline
	output   io.Writer
	logger   *eventlog.Logger

	runner   *script.Runner
	sessions map[string]*pty.Session

	queue chan msg.Msg

	rows, cols int
	frameDelay time.Duration
	dirty      bool
	prevFrame  *render.Frame

	flashUntil map[string]time.Time // boxID -> clipboard-copy flash expiry

	cancel context.CancelFunc
}

// New builds a Coordinator over cfg.App, resolving its root layout as the
// initially active one and allocating a scrollback buffer for every box
// that needs one.
func New(cfg Config, resolver *style.Resolver) *Coordinator {
	root := cfg.App.RootLayout()
	if root != nil {
		root.Active = true
	}
	c := &Coordinator{
		app:        cfg.App,
		active:     root,
		resolver:   resolver,
		pipeline:   render.NewPipeline(resolver),
		output:     cfg.Output,
		logger:     cfg.Logger,
		sessions:   map[string]*pty.Session{},
		queue:      make(chan msg.Msg, 256),
		rows:       cfg.Rows,
		cols:       cfg.Cols,
		frameDelay: cfg.FrameDelay,
		flashUntil: map[string]time.Time{},
	}
	c.ensureScrollbacks()
	c.runner = script.NewRunner(c.buildSink())
	if root != nil {
		c.focus = model.BuildFocusRing(root)
		c.focused = c.focus.First()
		if c.focused != nil {
			c.focused.Focused = true
		}
	}
	c.startAutoJobs()
	return c
}

func (c *Coordinator) ensureScrollbacks() {
	for _, l := range c.app.Layouts {
		l.Walk(func(b *model.MuxBox) {
			if b.ChartConfig != nil || b.TableConfig != nil || len(b.Choices) > 0 {
				return
			}
			if b.Scrollback == nil {
				b.Scrollback = scrollback.New(scrollback.DefaultCapacity)
				b.Scrollback.SetAutoScrollBottom(b.AutoScrollBottom)
				if b.Content != "" {
					b.Scrollback.AppendText(b.Content)
				}
			}
		})
	}
}

// startAutoJobs launches the Runner for every box whose primary content
// is a script, and starts a PTY session for every PTY box, per Section
// 4.I/4.G: both begin running as soon as the layout that contains them
// becomes active.
func (c *Coordinator) startAutoJobs() {
	if c.active == nil {
		return
	}
	c.active.Walk(func(b *model.MuxBox) {
		switch {
		case b.PTY && len(b.Script) > 0:
			c.startPTY(b)
		case len(b.Script) > 0:
			c.startScriptJob(b)
		}
	})
}

func (c *Coordinator) startScriptJob(b *model.MuxBox) {
	kind := script.KindOnce
	if b.RefreshIntervalMs > 0 {
		kind = script.KindPeriodic
	}
	c.runner.Start(script.Job{
		BoxID:          b.ID,
		Command:        b.Script,
		Kind:           kind,
		IntervalMs:     b.RefreshIntervalMs,
		RedirectTarget: b.RedirectOutput,
		AppendOutput:   b.AppendOutput,
	})
}

func (c *Coordinator) startPTY(b *model.MuxBox) {
	sess := pty.NewSession(b.ID, b.Scrollback)
	c.sessions[b.ID] = sess
	rows, cols := rectSize(b)
	boxID := b.ID
	err := sess.Start(b.Script, rows, cols, nil,
		func() { c.post(msg.PTYOutput{BoxID: boxID}) },
		func(info pty.ExitInfo) { c.post(msg.PTYExit{BoxID: boxID, Code: info.Code, Crashed: info.Crashed}) },
	)
	if err != nil {
		c.surfaceError(b.ID, string(boxerr.KindIO), fmt.Sprintf("pty start failed: %v", err))
	}
}

func rectSize(b *model.MuxBox) (rows, cols int) {
	r := b.ResolvedRect
	rows, cols = r.Height(), r.Width()
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	return rows, cols
}

// post enqueues m without blocking the caller's goroutine indefinitely;
// the queue is large enough that a full queue indicates a stuck
// Coordinator, which teardown will eventually unblock.
func (c *Coordinator) post(m msg.Msg) {
	select {
	case c.queue <- m:
	case <-time.After(2 * time.Second):
	}
}

// Queue returns the channel producers (socket server, signal handler,
// terminal-input pump) send messages on.
func (c *Coordinator) Queue() chan<- msg.Msg { return c.queue }

// Snapshot builds the read-only Snapshot the input router needs. Safe to
// call only from within Run's goroutine.
func (c *Coordinator) Snapshot() input.Snapshot {
	snap := input.Snapshot{Geometry: c.pipeline.Geometry}
	if c.focused != nil {
		snap.FocusedID = c.focused.ID
		snap.FocusedIsPTY = c.focused.PTY
		snap.FocusedCanCopy = c.focused.Scrollback != nil
		if len(c.focused.OnKeypress) > 0 {
			snap.FocusedOnKeypress = make(map[string]bool, len(c.focused.OnKeypress))
			for k := range c.focused.OnKeypress {
				snap.FocusedOnKeypress[k] = true
			}
		}
	}
	return snap
}

// Run drives the event loop until ctx is canceled or a Shutdown message
// is processed. It never blocks on I/O itself (Section 4.L): every
// message handler either mutates in-memory state or hands work to a
// worker goroutine.
func (c *Coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	defer cancel()

	ticker := time.NewTicker(c.frameDelay)
	defer ticker.Stop()

	c.dirty = true
	c.renderIfDirty()

	for {
		select {
		case <-ctx.Done():
			c.teardown()
			return nil
		case <-ticker.C:
			c.expireFlashes()
			c.renderIfDirty()
		case m := <-c.queue:
			if c.handle(m) {
				c.teardown()
				return nil
			}
		}
	}
}

// Shutdown cancels the run loop from outside (e.g. a signal handler).
func (c *Coordinator) Shutdown() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Coordinator) markDirty() { c.dirty = true }

func (c *Coordinator) handle(m msg.Msg) (shutdown bool) {
	switch v := m.(type) {
	case msg.InputCmd:
		c.handleInput(v)
	case msg.SocketCmd:
		c.handleSocket(v)
	case msg.ScriptOutput:
		c.markDirty()
	case msg.ScriptExit:
		c.markDirty()
	case msg.PTYOutput:
		c.markDirty()
	case msg.PTYExit:
		c.handlePTYExit(v)
	case msg.Tick:
		c.renderIfDirty()
	case msg.Resize:
		c.rows, c.cols = v.Rows, v.Cols
		c.resizeAll()
		c.markDirty()
	case msg.Shutdown:
		return true
	}
	return false
}

func (c *Coordinator) resizeAll() {
	for _, b := range c.allBoxes() {
		if s, ok := c.sessions[b.ID]; ok {
			r := b.ResolvedRect
			s.Resize(r.Height(), r.Width())
		}
		if b.Scrollback != nil {
			b.Scrollback.Resize(b.ResolvedRect.Height())
		}
	}
}

func (c *Coordinator) allBoxes() []*model.MuxBox {
	var out []*model.MuxBox
	if c.active != nil {
		c.active.Walk(func(b *model.MuxBox) { out = append(out, b) })
	}
	return out
}

func (c *Coordinator) findBox(id string) *model.MuxBox {
	if c.active == nil {
		return nil
	}
	return c.active.FindBox(id)
}

func (c *Coordinator) surfaceError(boxID, kind, text string) {
	if c.logger != nil {
		c.logger.Error(eventlog.Kind(kind), boxID, text)
	}
	b := c.findBox(boxID)
	if b == nil || b.Scrollback == nil {
		return
	}
	b.Scrollback.AppendText(fmt.Sprintf("\x1b[31m[%s] %s\x1b[0m", kind, text))
	c.markDirty()
}

func (c *Coordinator) teardown() {
	c.runner.StopAll()
	for id, s := range c.sessions {
		s.Kill(2 * time.Second)
		delete(c.sessions, id)
	}
}
