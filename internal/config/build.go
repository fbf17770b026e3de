package config

import (
	"strconv"

	"boxmux/internal/boxerr"
	"boxmux/internal/model"
	"boxmux/internal/style"
	"boxmux/internal/vars"
)

var validOverflow = map[string]model.Overflow{
	"scroll":    model.OverflowScroll,
	"fill":      model.OverflowFill,
	"cross_out": model.OverflowCrossOut,
	"removed":   model.OverflowRemoved,
}

var validAnchor = map[string]model.Anchor{
	"":       model.AnchorStart,
	"start":  model.AnchorStart,
	"center": model.AnchorCenter,
	"end":    model.AnchorEnd,
}

var validChartType = map[string]bool{"bar": true, "line": true, "histogram": true}

var validBorderStyle = map[string]bool{
	"": true, "none": true, "single": true, "double": true, "rounded": true, "thick": true,
}

// build converts the raw parse tree into a *model.Application: structural
// validation (enums, bounds, id uniqueness, single root layout) happens
// inline, collected into agg so a caller sees every violation in one
// report rather than the first (Section 4.E).
func build(raw *rawApplication, agg *boxerr.Aggregator) (*model.Application, error) {
	app := &model.Application{
		Variables: vars.Trim(raw.Variables),
		Libs:      raw.Libs,
		Style:     buildStyle(raw.Style),
	}

	seenIDs := map[string]bool{}
	rootCount := 0
	for _, rl := range raw.Layouts {
		if rl.ID == "" {
			agg.Addf("layout", "missing required field 'id'")
			continue
		}
		l := &model.Layout{
			ID:        rl.ID,
			Root:      rl.Root,
			Title:     rl.Title,
			Style:     buildStyle(rl.Style),
			Variables: vars.Trim(rl.Variables),
		}
		if rl.Root {
			rootCount++
			l.Active = true
		}
		for _, rb := range rl.Children {
			l.Children = append(l.Children, buildBoxTree(rb, nil, seenIDs, agg))
		}
		app.Layouts = append(app.Layouts, l)
	}
	if rootCount != 1 {
		agg.Addf("layouts", "exactly one layout must be marked root (found %d)", rootCount)
	}

	if agg.HasErrors() {
		return app, nil
	}

	for _, l := range app.Layouts {
		l.Walk(func(b *model.MuxBox) {
			substituteBox(app, l, b, agg)
		})
	}

	return app, nil
}

func buildStyle(rs *rawStyle) style.Style {
	if rs == nil {
		return style.Style{}
	}
	return style.Style{
		Foreground:         rs.Foreground,
		Background:         rs.Background,
		TitleColor:         rs.TitleColor,
		BorderColor:        rs.BorderColor,
		MenuColor:          rs.MenuColor,
		SelectedForeground: rs.SelectedForeground,
		SelectedBackground: rs.SelectedBackground,
		SelectedBorder:     rs.SelectedBorder,
		FillChar:           rs.FillChar,
		Attrs: style.Attrs{
			Bold:      rs.Bold,
			Italic:    rs.Italic,
			Underline: rs.Underline,
		},
	}
}

func buildBoxTree(rb *rawMuxBox, parent *model.MuxBox, seenIDs map[string]bool, agg *boxerr.Aggregator) *model.MuxBox {
	b := buildBox(rb, parentPath(parent), agg)
	b.Parent = parent

	if b.ID != "" {
		if seenIDs[b.ID] {
			agg.Addf("muxbox:"+b.ID, "duplicate id")
		}
		seenIDs[b.ID] = true
	}

	for _, rc := range rb.Children {
		b.Children = append(b.Children, buildBoxTree(rc, b, seenIDs, agg))
	}
	return b
}

func parentPath(parent *model.MuxBox) string {
	if parent == nil {
		return "<root>"
	}
	return parent.ID
}

// buildBox converts one rawMuxBox into a *model.MuxBox, without wiring
// Parent/Children (the caller does that), so it can also serve
// ParseMuxBox's single-box decode path.
func buildBox(rb *rawMuxBox, context string, agg *boxerr.Aggregator) *model.MuxBox {
	if rb.ID == "" {
		agg.Addf("muxbox under "+context, "missing required field 'id'")
	}

	b := &model.MuxBox{
		ID:                rb.ID,
		Title:             rb.Title,
		Content:           rb.Content,
		Script:            rb.Script,
		PTY:               rb.PTY,
		RefreshIntervalMs: rb.RefreshIntervalMs,
		RedirectOutput:    rb.RedirectOutput,
		AppendOutput:      rb.AppendOutput,
		NextFocusID:       rb.NextFocusID,
		AutoScrollBottom:  rb.AutoScrollBottom,
		Style:             buildStyle(rb.Style),
		Border:            rb.Border,
		MinWidth:          rb.MinWidth,
		MinHeight:         rb.MinHeight,
		MaxWidth:          rb.MaxWidth,
		MaxHeight:         rb.MaxHeight,
		OnKeypress:        rb.OnKeypress,
		Variables:         vars.Trim(rb.Variables),
	}

	src := "muxbox:" + rb.ID

	if anchor, ok := validAnchor[rb.TitleAnchor]; ok {
		b.TitleAnchor = anchor
	} else {
		agg.Addf(src, "invalid title_anchor %q", rb.TitleAnchor)
	}

	if rb.Overflow == "" {
		b.Overflow = model.OverflowScroll
	} else if ov, ok := validOverflow[rb.Overflow]; ok {
		b.Overflow = ov
	} else {
		agg.Addf(src, "invalid overflow %q", rb.Overflow)
	}

	if rb.Position != nil {
		pos, err := parsePosition(rb.Position)
		if err != nil {
			agg.Addf(src, "position: %s", err)
		} else {
			b.Position = pos
		}
	}

	if rb.TabOrder != nil {
		n, err := strconv.Atoi(*rb.TabOrder)
		if err != nil {
			agg.Addf(src, "tab_order %q is not an integer", *rb.TabOrder)
		} else {
			b.TabOrder = &n
		}
	}

	kinds := 0
	if rb.Content != "" {
		kinds++
	}
	if len(rb.Script) > 0 {
		kinds++
	}
	if len(rb.Choices) > 0 {
		kinds++
	}
	if kinds > 1 {
		agg.Addf(src, "at most one of content/script/choices may be set")
	}

	for _, rc := range rb.Choices {
		b.Choices = append(b.Choices, &model.Choice{
			ID:             rc.ID,
			Content:        rc.Content,
			Script:         rc.Script,
			Thread:         rc.Thread,
			RedirectOutput: rc.RedirectOutput,
			AppendOutput:   rc.AppendOutput,
		})
	}

	if rb.ChartConfig != nil {
		if !validChartType[rb.ChartConfig.Type] {
			agg.Addf(src, "chart_config: invalid type %q", rb.ChartConfig.Type)
		}
		cfg := chartConfigFromRaw(rb.ChartConfig)
		b.ChartConfig = &cfg
		for _, p := range rb.ChartData {
			b.ChartData = append(b.ChartData, chartPointFromRaw(p))
		}
	}

	if rb.TableConfig != nil {
		if !validBorderStyle[rb.TableConfig.BorderStyle] {
			agg.Addf(src, "table_config: invalid border_style %q", rb.TableConfig.BorderStyle)
		}
		b.TableConfig = tableConfigFromRaw(rb.TableConfig)
		b.TableData = rb.TableData
	}

	return b
}


func substituteBox(app *model.Application, l *model.Layout, b *model.MuxBox, agg *boxerr.Aggregator) {
	chain := model.VarChain(app, l, b)

	src := "muxbox:" + b.ID
	sub := func(s string) string {
		out, _, err := vars.Substitute(s, chain)
		if err != nil {
			agg.Addf(src, "%s", err)
			return s
		}
		return out
	}
	subList := func(items []string) []string {
		out, _, err := vars.SubstituteList(items, chain)
		if err != nil {
			agg.Addf(src, "%s", err)
			return items
		}
		return out
	}

	b.Title = sub(b.Title)
	b.Content = sub(b.Content)
	b.Script = subList(b.Script)
	b.RedirectOutput = sub(b.RedirectOutput)
	for _, c := range b.Choices {
		c.Content = sub(c.Content)
		c.Script = subList(c.Script)
		c.RedirectOutput = sub(c.RedirectOutput)
	}
	for key, cmds := range b.OnKeypress {
		b.OnKeypress[key] = subList(cmds)
	}
}
