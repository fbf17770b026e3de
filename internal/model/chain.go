package model

import (
	"boxmux/internal/style"
	"boxmux/internal/vars"
)

// ancestors returns b's ancestor chain, innermost (direct parent) first.
func ancestors(b *MuxBox) []*MuxBox {
	var out []*MuxBox
	for p := b.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// VarChain builds the substitution scope chain for b (Section 4.D: "a
// muxbox's own variables, then each ancestor's, then the layout's, then
// the application's"), innermost scope first so vars.Chain.Lookup's
// natural first-match-wins walk implements that precedence directly.
func VarChain(app *Application, l *Layout, b *MuxBox) vars.Chain {
	var scopes []vars.Scope
	if b != nil {
		scopes = append(scopes, vars.Scope{Name: "box:" + b.ID, Vars: b.Variables})
		for _, a := range ancestors(b) {
			scopes = append(scopes, vars.Scope{Name: "box:" + a.ID, Vars: a.Variables})
		}
	}
	if l != nil {
		scopes = append(scopes, vars.Scope{Name: "layout:" + l.ID, Vars: l.Variables})
	}
	if app != nil {
		scopes = append(scopes, vars.Scope{Name: "app", Vars: app.Variables})
	}
	return vars.NewChain(scopes...)
}

// StyleChain builds b's effective style by merging from outermost to
// innermost (Section 4.C: "a muxbox's effective style is its own
// overrides merged over its parent box's effective style, ultimately
// merged over the layout's style"), so later, more specific merges win.
func StyleChain(app *Application, l *Layout, b *MuxBox) style.Style {
	var chain []style.Style
	if app != nil {
		chain = append(chain, app.Style)
	}
	if l != nil {
		chain = append(chain, l.Style)
	}
	anc := ancestors(b)
	for i := len(anc) - 1; i >= 0; i-- {
		chain = append(chain, anc[i].Style)
	}
	if b != nil {
		chain = append(chain, b.Style)
	}
	return style.MergeChain(chain...)
}
