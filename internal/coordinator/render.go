package coordinator

import (
	"boxmux/internal/geometry"
	"boxmux/internal/render"
)

// renderIfDirty runs one render pass when state has changed since the
// last frame, diffing against the previous frame and writing only the
// changed cells (Section 4.L step 4: "if the pacer has elapsed, requests
// a render pass").
func (c *Coordinator) renderIfDirty() {
	if !c.dirty || c.active == nil {
		return
	}
	c.dirty = false
	c.refreshTitles()

	root := geometry.Rect{X1: 0, Y1: 0, X2: c.cols, Y2: c.rows}
	frame := c.pipeline.RenderLayout(c.active, root, c.focusedID())

	prev := c.prevFrame
	if prev == nil {
		prev = render.NewFrame(frame.W, frame.H)
	}
	out := render.Diff(prev, frame)
	c.prevFrame = frame
	if out != "" {
		c.output.Write([]byte(out))
	}
}

func (c *Coordinator) focusedID() string {
	if c.focused == nil {
		return ""
	}
	return c.focused.ID
}

func (c *Coordinator) refreshTitles() {
	for _, b := range c.allBoxes() {
		if s, ok := c.sessions[b.ID]; ok {
			b.PTYTitleSuffix = s.TitleSuffix()
		}
	}
}
