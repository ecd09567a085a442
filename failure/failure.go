// Package failure defines the typed errors returned by every civiltime
// entry point.
//
// Three kinds exist:
//   - Syntax: malformed input string (bad grammar, duplicate time zone
//     annotation, uppercase annotation key)
//   - Range: value out of domain (overflow under reject, ambiguous local
//     time under reject, bad offset, unknown calendar or zone id)
//   - Type: wrong-shaped input (missing required fields, bad option value)
package failure

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error.
type Kind int

const (
	// Syntax indicates a malformed string.
	Syntax Kind = iota + 1

	// Range indicates a value outside its domain.
	Range

	// Type indicates a wrong-shaped input.
	Type
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Range:
		return "RangeError"
	case Type:
		return "TypeError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels usable with errors.Is.
var (
	ErrSyntax = &Error{Kind: Syntax}
	ErrRange  = &Error{Kind: Range}
	ErrType   = &Error{Kind: Type}
)

// Error is the single error type surfaced to callers.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op names the operation that failed, e.g. "calendar.DateAdd".
	Op string

	// Msg is a human-readable description.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Rangef returns a Range error for op.
func Rangef(op, format string, args ...any) error {
	return &Error{Kind: Range, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Syntaxf returns a Syntax error for op.
func Syntaxf(op, format string, args ...any) error {
	return &Error{Kind: Syntax, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Typef returns a Type error for op.
func Typef(op, format string, args ...any) error {
	return &Error{Kind: Type, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and op to err. A nil err returns nil. An err that is
// already an *Error keeps its kind.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsSyntax reports whether err is a Syntax error.
func IsSyntax(err error) bool { return KindOf(err) == Syntax }

// IsRange reports whether err is a Range error.
func IsRange(err error) bool { return KindOf(err) == Range }

// IsType reports whether err is a Type error.
func IsType(err error) bool { return KindOf(err) == Type }
