// Package vars implements BoxMux's variable substitution engine
// (Section 4.D): a single textual pass recognizing ${NAME}, ${NAME:default},
// and bare $NAME, resolved against a hierarchical scope chain. Modeled on
// internal/tmpl/namefuncs.go's scope-lookup-with-cache shape, generalized
// from "resolve one generated name" to "resolve every reference in a
// string" with a regexp-driven single pass instead of a template engine,
// since Section 4.D explicitly forbids nested substitution — a feature
// text/template would otherwise happily provide.
package vars

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Scope is one link in the substitution scope chain (Section 4.D): a
// muxbox's own variables, then each ancestor's, then the layout's, then
// the application's. Process environment and built-in defaults are
// consulted after every Scope is exhausted.
type Scope struct {
	Name string // for diagnostics: "box:X", "layout:Y", "app"
	Vars map[string]string
}

// Chain is the ordered, highest-to-lowest-precedence scope chain used to
// resolve one string. BuiltinDefaults is consulted last, after the
// process environment.
type Chain struct {
	Scopes          []Scope
	BuiltinDefaults map[string]string
}

// NewChain builds a Chain from innermost to outermost scopes, in the
// precedence order Section 4.D specifies: own vars, each ancestor
// (innermost first), layout, application.
func NewChain(scopes ...Scope) Chain {
	return Chain{Scopes: scopes, BuiltinDefaults: map[string]string{}}
}

// Lookup resolves name against the chain: own scopes in order, then the
// process environment, then built-in defaults. ok is false only if no
// layer has the name at all.
func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c.Scopes {
		if v, ok := s.Vars[name]; ok {
			return v, true
		}
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	if v, ok := c.BuiltinDefaults[name]; ok {
		return v, true
	}
	return "", false
}

// Warning records an unresolved ${NAME} reference encountered during
// substitution.
type Warning struct {
	Name string
	Text string // the original text being substituted
}

var (
	// reference matches, in one alternation so a single left-to-right scan
	// never reprocesses text it has already substituted (which would break
	// the "default is a literal" rule if a default value itself contains a
	// bare $NAME): ${NAME}, ${NAME:default}, or bare $NAME. Go's regexp
	// (RE2) is leftmost-first among alternatives starting at the same
	// position, so the braced form is tried before the bare form.
	reference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:([^{}]*))?\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
	// nestedDefault detects ${NAME:${...}} which Section 4.D rejects outright.
	nestedDefault = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*:[^{}]*\$\{`)
)

// ErrNestedSubstitution is returned when a ${NAME:${...}} pattern is found.
type ErrNestedSubstitution struct {
	Text string
}

func (e *ErrNestedSubstitution) Error() string {
	return fmt.Sprintf("nested substitution is not supported: %q", e.Text)
}

// Substitute expands every ${NAME}, ${NAME:default}, and bare $NAME
// reference in text against chain, in a single left-to-right pass.
// Unresolved ${NAME} references substitute to empty string and append a
// Warning; ${NAME:default} with NAME unresolved substitutes the literal
// default (itself never further substituted). Nested defaults are a hard
// error.
func Substitute(text string, chain Chain) (string, []Warning, error) {
	if nestedDefault.MatchString(text) {
		return "", nil, &ErrNestedSubstitution{Text: text}
	}

	var warnings []Warning

	out := reference.ReplaceAllStringFunc(text, func(match string) string {
		groups := reference.FindStringSubmatch(match)
		// groups: [1]=braced name, [2]=":default" (or empty), [3]=default,
		// [4]=bare name. Exactly one of [1] or [4] is non-empty.
		if groups[1] != "" {
			name := groups[1]
			hasDefault := groups[2] != ""
			def := groups[3]
			if v, ok := chain.Lookup(name); ok {
				return v
			}
			if hasDefault {
				return def
			}
			warnings = append(warnings, Warning{Name: name, Text: text})
			return ""
		}
		name := groups[4]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})

	return out, warnings, nil
}

// SubstituteList applies Substitute across every string in a slice,
// collecting warnings and bailing on the first error (Section 4.D applies
// substitution to "every string and list-of-strings field").
func SubstituteList(items []string, chain Chain) ([]string, []Warning, error) {
	out := make([]string, len(items))
	var allWarnings []Warning
	for i, item := range items {
		s, warnings, err := Substitute(item, chain)
		if err != nil {
			return nil, nil, err
		}
		out[i] = s
		allWarnings = append(allWarnings, warnings...)
	}
	return out, allWarnings, nil
}

// IsIdempotent reports whether substituting text twice (the second pass
// seeded with the chain, as Section 8 invariant 5 requires) yields the
// same result as substituting once. It does not hold for every input: a
// resolved value or a literal default that itself contains a $NAME or
// ${NAME} reference (for example "${MISSING:$HOME}") is expanded again by
// the second pass. The helper lets callers and tests check a given text.
func IsIdempotent(text string, chain Chain) (bool, error) {
	once, _, err := Substitute(text, chain)
	if err != nil {
		return false, err
	}
	twice, _, err := Substitute(once, chain)
	if err != nil {
		return false, err
	}
	return once == twice, nil
}

// Trim is a small helper used by callers building Scope.Vars from raw
// config maps, to keep keys consistent regardless of surrounding
// whitespace in the YAML document.
func Trim(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
