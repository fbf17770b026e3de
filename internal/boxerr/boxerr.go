// Package boxerr defines the tagged error kinds used throughout BoxMux.
//
// Every fallible operation in the loader, socket server, script runner,
// and PTY manager returns one of these kinds wrapped around the underlying
// cause, generalizing the Flow/Step/Err shape used for flow errors in the
// corpus this project is grounded on.
package boxerr

import (
	"errors"
	"fmt"
)

// Kind tags the category of a BoxMux error. Kinds are not Go types: every
// error value in this package is a *Error, and callers switch on Kind.
type Kind string

const (
	// KindConfig marks a failure loading or parsing the YAML document.
	KindConfig Kind = "ConfigError"
	// KindSchema marks a structural/validation failure against the schema.
	KindSchema Kind = "SchemaError"
	// KindIO marks a socket, process, or PTY I/O failure.
	KindIO Kind = "IOError"
	// KindScript marks a non-zero script exit. Soft: not fatal.
	KindScript Kind = "ScriptError"
	// KindNotFound marks a reference to an unknown id.
	KindNotFound Kind = "NotFoundError"
	// KindLimit marks a size/count overflow.
	KindLimit Kind = "LimitError"
	// KindFatal marks a terminal-driver failure or uncaught invariant.
	KindFatal Kind = "FatalError"
)

// Error is the tagged error value returned by BoxMux components.
type Error struct {
	Kind   Kind
	Source string // component that raised it, e.g. "loader", "socket", "pty:boxA"
	Err    error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind when target is itself a *Error, otherwise defers to
// the wrapped error.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}
	return errors.Is(e.Err, target)
}

// New builds a tagged error.
func New(kind Kind, source string, err error) *Error {
	return &Error{Kind: kind, Source: source, Err: err}
}

// Newf builds a tagged error from a format string.
func Newf(kind Kind, source, format string, args ...any) *Error {
	return &Error{Kind: kind, Source: source, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

// IsFatal reports whether err is tagged KindFatal, KindConfig, or
// KindSchema — the kinds that abort the process per Section 7.
func IsFatal(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindFatal || k == KindConfig || k == KindSchema
}

// ExitCode maps an error's Kind to the CLI exit codes from Section 6.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	k, ok := KindOf(err)
	if !ok {
		return 1
	}
	switch k {
	case KindConfig, KindSchema:
		return 2
	case KindIO:
		return 3
	default:
		return 1
	}
}
