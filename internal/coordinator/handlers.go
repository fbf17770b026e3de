package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boxmux/internal/boxerr"
	"boxmux/internal/clipboard"
	"boxmux/internal/config"
	"boxmux/internal/model"
	"boxmux/internal/msg"
	"boxmux/internal/pty"
	"boxmux/internal/scrollback"
	"boxmux/internal/script"
)

func backgroundContext() context.Context { return context.Background() }

// decodePanel builds a MuxBox from a socket command's generic JSON
// object, reusing the same field-level unmarshal (and therefore the same
// validation) the YAML config loader applies to an inline box document
// (Section 4.K: add-panel/replace-panel carry "panel"/"new_panel" with
// the same shape as a config-file MuxBox entry).
func decodePanel(panel map[string]any) (*model.MuxBox, error) {
	data, err := json.Marshal(panel)
	if err != nil {
		return nil, err
	}
	if len(data) > 100*1024 {
		return nil, fmt.Errorf("panel object exceeds 100KB")
	}
	return config.ParseMuxBox(data)
}

// notifyingSink wraps a script.ScrollbackSink so every delivery also
// wakes the Coordinator's render loop via its own message queue, keeping
// script output on the same single path every other mutation travels
// (Section 4.L: ScriptOutput is a first-class message kind even though
// the actual bytes already landed in the buffer by the time it arrives).
type notifyingSink struct {
	inner *script.ScrollbackSink
	post  func(msg.Msg)
}

func (s *notifyingSink) Deliver(boxID string, lines string, append bool) {
	s.inner.Deliver(boxID, lines, append)
	s.post(msg.ScriptOutput{BoxID: boxID, Lines: lines, Append: append})
}

func (c *Coordinator) buildSink() script.Sink {
	idx := map[string]*scrollback.Buffer{}
	for _, l := range c.app.Layouts {
		l.Walk(func(b *model.MuxBox) {
			if b.Scrollback != nil {
				idx[b.ID] = b.Scrollback
			}
		})
	}
	return &notifyingSink{inner: script.NewScrollbackSink(idx), post: c.post}
}

// handleInput applies one decoded InputCmd (Section 4.H/4.L). --read-only
// only withholds the control socket (10.B); terminal input is unaffected
// here regardless of that flag.
func (c *Coordinator) handleInput(cmd msg.InputCmd) {
	switch cmd.Kind {
	case msg.InputFocusNext:
		if c.focus != nil {
			c.moveFocus(c.focus.Next(c.focused))
		}
	case msg.InputFocusPrev:
		if c.focus != nil {
			c.moveFocus(c.focus.Prev(c.focused))
		}
	case msg.InputMouseClick:
		if b := c.findBox(cmd.BoxID); b != nil {
			c.moveFocus(b)
		}
	case msg.InputScroll:
		c.handleScroll(cmd)
	case msg.InputPTYBytes:
		if s, ok := c.sessions[cmd.BoxID]; ok {
			s.Write(cmd.PTYBytes, 200*time.Millisecond)
		}
	case msg.InputRunKeypress:
		c.handleKeypress(cmd)
	case msg.InputClipboardCopy:
		c.handleClipboardCopy(cmd.BoxID)
	case msg.InputShutdown:
		c.Shutdown()
	}
}

func (c *Coordinator) moveFocus(next *model.MuxBox) {
	if next == nil || next == c.focused {
		return
	}
	if c.focused != nil {
		c.focused.Focused = false
	}
	c.focused = next
	c.focused.Focused = true
	c.markDirty()
}

func (c *Coordinator) handleScroll(cmd msg.InputCmd) {
	b := c.findBox(cmd.BoxID)
	if b == nil || b.Scrollback == nil {
		return
	}
	h := b.ResolvedRect.Height()
	switch cmd.Dir {
	case msg.ScrollLineUp:
		b.Scrollback.ScrollLines(-1)
	case msg.ScrollLineDown:
		b.Scrollback.ScrollLines(1)
	case msg.ScrollPageUp:
		b.Scrollback.ScrollPage(false, h)
	case msg.ScrollPageDown:
		b.Scrollback.ScrollPage(true, h)
	case msg.ScrollHome:
		b.Scrollback.ScrollHome()
	case msg.ScrollEnd:
		b.Scrollback.ScrollEnd(h)
	}
	c.markDirty()
}

// handleKeypress runs the script bound to an on_keypress match (Section
// 4.H), using the one-off RunOnce path rather than the tracked Runner
// since these are not periodic jobs.
func (c *Coordinator) handleKeypress(cmd msg.InputCmd) {
	b := c.findBox(cmd.BoxID)
	if b == nil {
		return
	}
	command, ok := b.OnKeypress[cmd.Key]
	if !ok || len(command) == 0 {
		return
	}
	go script.RunOnce(backgroundContext(), command, nil, c.buildSink(), b.ID, b.RedirectOutput, b.AppendOutput)
}

func (c *Coordinator) handleClipboardCopy(boxID string) {
	b := c.findBox(boxID)
	if b == nil || b.Scrollback == nil {
		return
	}
	text := b.Scrollback.PlainText()
	go func(id, text string) {
		if err := clipboard.Copy(text); err != nil {
			c.post(msg.ScriptOutput{BoxID: id, Lines: fmt.Sprintf("clipboard copy failed: %v", err)})
		}
	}(boxID, text)
	c.flashUntil[boxID] = time.Now().Add(clipboard.FlashDuration)
	c.markDirty()
}

func (c *Coordinator) expireFlashes() {
	now := time.Now()
	for id, until := range c.flashUntil {
		if now.After(until) {
			delete(c.flashUntil, id)
			c.markDirty()
		}
	}
}

func (c *Coordinator) handlePTYExit(v msg.PTYExit) {
	delete(c.sessions, v.BoxID)
	b := c.findBox(v.BoxID)
	if b != nil {
		b.PTYTitleSuffix = "[Process Stopped]"
	}
	c.markDirty()
}

// handleSocket applies one decoded control-socket command (Section 4.K),
// sending exactly one reply before returning.
func (c *Coordinator) handleSocket(cmd msg.SocketCmd) {
	reply := c.applySocket(cmd)
	if cmd.Reply != nil {
		select {
		case cmd.Reply <- reply:
		default:
		}
	}
	if reply.Success {
		c.markDirty()
	}
}

func errReply(code, text string) msg.SocketReply {
	return msg.SocketReply{Success: false, ErrorCode: code, Error: text}
}

func (c *Coordinator) applySocket(cmd msg.SocketCmd) msg.SocketReply {
	switch cmd.Kind {
	case "replace-panel-content":
		return c.socketReplaceContent(cmd)
	case "replace-panel-script":
		return c.socketReplaceScript(cmd)
	case "stop-panel-refresh":
		return c.socketStopRefresh(cmd)
	case "start-panel-refresh":
		return c.socketStartRefresh(cmd)
	case "replace-panel":
		return c.socketReplacePanel(cmd)
	case "switch-active-layout":
		return c.socketSwitchLayout(cmd)
	case "add-panel":
		return c.socketAddPanel(cmd)
	case "remove-panel":
		return c.socketRemovePanel(cmd)
	case "kill-pty":
		return c.socketKillPTY(cmd)
	case "restart-pty":
		return c.socketRestartPTY(cmd)
	case "pty-status":
		return c.socketPTYStatus(cmd)
	case "pty-input":
		return c.socketPTYInput(cmd)
	default:
		return errReply(string(boxerr.KindSchema), "unrecognized command: "+cmd.Kind)
	}
}

func (c *Coordinator) socketReplaceContent(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	if len(cmd.Content) > 1<<20 {
		return errReply(string(boxerr.KindLimit), "content exceeds 1MB")
	}
	if b.Scrollback == nil {
		b.Scrollback = scrollback.New(scrollback.DefaultCapacity)
	}
	b.Scrollback.ReplaceAll(cmd.Content)
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketReplaceScript(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	if len(cmd.Script) > 100 {
		return errReply(string(boxerr.KindLimit), "script has more than 100 items")
	}
	for _, item := range cmd.Script {
		if len(item) > 1000 {
			return errReply(string(boxerr.KindLimit), "script item exceeds 1000 chars")
		}
	}
	b.Script = cmd.Script
	c.runner.Stop(b.ID)
	if b.RefreshIntervalMs > 0 {
		c.startScriptJob(b)
	}
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketStopRefresh(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	c.runner.Stop(b.ID)
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketStartRefresh(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	if len(b.Script) == 0 {
		return errReply(string(boxerr.KindSchema), "panel has no script to run")
	}
	c.startScriptJob(b)
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketReplacePanel(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	if len(cmd.Panel) == 0 {
		return errReply(string(boxerr.KindSchema), "new_panel is required")
	}
	next, err := decodePanel(cmd.Panel)
	if err != nil {
		return errReply(string(boxerr.KindSchema), err.Error())
	}
	next.ID = b.ID
	next.Parent = b.Parent
	replaceInPlace(b.Parent, c.active, b, next)
	c.runner.Stop(b.ID)
	if s, ok := c.sessions[b.ID]; ok {
		s.Kill(2 * time.Second)
		delete(c.sessions, b.ID)
	}
	c.focus = model.BuildFocusRing(c.active)
	return msg.SocketReply{Success: true}
}

// replaceInPlace swaps old for next either among parent's Children or, if
// parent is nil, among layout's top-level Children.
func replaceInPlace(parent *model.MuxBox, layout *model.Layout, old, next *model.MuxBox) {
	children := &layout.Children
	if parent != nil {
		children = &parent.Children
	}
	for i, c := range *children {
		if c == old {
			(*children)[i] = next
			return
		}
	}
}

func (c *Coordinator) socketSwitchLayout(cmd msg.SocketCmd) msg.SocketReply {
	l := c.app.FindLayout(cmd.LayoutID)
	if l == nil {
		return errReply(string(boxerr.KindNotFound), "unknown layout_id: "+cmd.LayoutID)
	}
	if c.active != nil {
		c.active.Active = false
	}
	l.Active = true
	c.active = l
	c.focus = model.BuildFocusRing(l)
	c.focused = c.focus.First()
	if c.focused != nil {
		c.focused.Focused = true
	}
	c.startAutoJobs()
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketAddPanel(cmd msg.SocketCmd) msg.SocketReply {
	l := c.active
	if cmd.LayoutID != "" {
		l = c.app.FindLayout(cmd.LayoutID)
	}
	if l == nil {
		return errReply(string(boxerr.KindNotFound), "unknown layout_id: "+cmd.LayoutID)
	}
	if len(cmd.Panel) == 0 {
		return errReply(string(boxerr.KindSchema), "panel is required")
	}
	if len(cmd.PanelID) > 256 {
		return errReply(string(boxerr.KindLimit), "panel_id exceeds 256 chars")
	}
	b, err := decodePanel(cmd.Panel)
	if err != nil {
		return errReply(string(boxerr.KindSchema), err.Error())
	}
	if b.ID == "" {
		return errReply(string(boxerr.KindSchema), "panel.id is required")
	}
	if existing, _ := c.app.FindBoxInApp(b.ID); existing != nil {
		return errReply(string(boxerr.KindSchema), "panel id already exists: "+b.ID)
	}
	l.Children = append(l.Children, b)
	if b.Scrollback == nil && b.ChartConfig == nil && b.TableConfig == nil && len(b.Choices) == 0 {
		b.Scrollback = scrollback.New(scrollback.DefaultCapacity)
	}
	if l == c.active {
		c.focus = model.BuildFocusRing(l)
		if b.PTY && len(b.Script) > 0 {
			c.startPTY(b)
		} else if len(b.Script) > 0 {
			c.startScriptJob(b)
		}
	}
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketRemovePanel(cmd msg.SocketCmd) msg.SocketReply {
	b, l := c.app.FindBoxInApp(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	removeFromParent(b.Parent, l, b)
	c.runner.Stop(b.ID)
	if s, ok := c.sessions[b.ID]; ok {
		s.Kill(2 * time.Second)
		delete(c.sessions, b.ID)
	}
	if l == c.active {
		c.focus = model.BuildFocusRing(l)
		if c.focused == b {
			c.focused = c.focus.First()
			if c.focused != nil {
				c.focused.Focused = true
			}
		}
	}
	return msg.SocketReply{Success: true}
}

func removeFromParent(parent *model.MuxBox, layout *model.Layout, target *model.MuxBox) {
	children := &layout.Children
	if parent != nil {
		children = &parent.Children
	}
	out := (*children)[:0]
	for _, c := range *children {
		if c != target {
			out = append(out, c)
		}
	}
	*children = out
}

func (c *Coordinator) socketKillPTY(cmd msg.SocketCmd) msg.SocketReply {
	s, ok := c.sessions[cmd.PanelID]
	if !ok {
		return errReply(string(boxerr.KindNotFound), "no running pty for panel_id: "+cmd.PanelID)
	}
	s.Kill(2 * time.Second)
	if b := c.findBox(cmd.PanelID); b != nil {
		b.PTYTitleSuffix = "[Process Stopped]"
	}
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketRestartPTY(cmd msg.SocketCmd) msg.SocketReply {
	b := c.findBox(cmd.PanelID)
	if b == nil {
		return errReply(string(boxerr.KindNotFound), "unknown panel_id: "+cmd.PanelID)
	}
	if s, ok := c.sessions[b.ID]; ok {
		s.Kill(2 * time.Second)
		delete(c.sessions, b.ID)
	}
	c.startPTY(b)
	return msg.SocketReply{Success: true}
}

func (c *Coordinator) socketPTYStatus(cmd msg.SocketCmd) msg.SocketReply {
	s, ok := c.sessions[cmd.PanelID]
	if !ok {
		return msg.SocketReply{Success: true, Data: map[string]any{"state": string(pty.StateIdle)}}
	}
	return msg.SocketReply{Success: true, Data: map[string]any{
		"state": string(s.State()),
		"pid":   s.PID(),
	}}
}

func (c *Coordinator) socketPTYInput(cmd msg.SocketCmd) msg.SocketReply {
	s, ok := c.sessions[cmd.PanelID]
	if !ok {
		return errReply(string(boxerr.KindNotFound), "no running pty for panel_id: "+cmd.PanelID)
	}
	if _, err := s.Write(cmd.Input, 200*time.Millisecond); err != nil {
		return errReply(string(boxerr.KindIO), err.Error())
	}
	return msg.SocketReply{Success: true}
}
