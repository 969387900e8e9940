// errors.go: error taxonomy and caret-snippet rendering
//
// What this file does
// -------------------
// Every failure the interpreter core can produce is a *Error carrying one of
// three kinds:
//
//   - SyntaxError:     malformed token stream (unmatched ')', unterminated '(',
//     extra tokens after the first expression, empty input).
//   - NameError:       lookup of an unbound symbol, `del` of a name that is not
//     bound in the current frame, `set!` of a name bound nowhere.
//   - EvaluationError: everything else (empty form, calling a non-procedure,
//     arity mismatches, malformed list arguments, ...).
//
// The core never recovers from these; they propagate to the host unchanged.
// Hosts classify them with IsSyntaxError / IsNameError / IsEvaluationError.
//
// Syntax errors produced by ParseSource carry the byte offset of the
// offending token. `WrapErrorWithSource` turns those into a readable snippet
// with a caret under the offending column:
//
//	SYNTAX ERROR at 2:9: unexpected ')'
//
//	   1 | (define x
//	   2 |   (+ 1 2)))
//	     |         ^
//
// Other errors are returned unchanged.
package scheme

import (
	"errors"
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// ErrorKind classifies interpreter failures.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	NameError
	EvaluationError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case NameError:
		return "NameError"
	case EvaluationError:
		return "EvaluationError"
	default:
		return "Error"
	}
}

// Error is the single error type returned by the core.
//
// Fields:
//   - Kind: the taxonomy bucket (see ErrorKind).
//   - Msg: human-readable description.
//   - Pos: byte offset into the source for syntax errors, -1 if unknown.
//   - Incomplete: set when parsing ran out of tokens inside an open form;
//     REPLs use it to ask for a continuation line.
type Error struct {
	Kind       ErrorKind
	Msg        string
	Pos        int
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// IsSyntaxError reports whether err (or anything it wraps) is a SyntaxError.
func IsSyntaxError(err error) bool { return isKind(err, SyntaxError) }

// IsNameError reports whether err (or anything it wraps) is a NameError.
func IsNameError(err error) bool { return isKind(err, NameError) }

// IsEvaluationError reports whether err (or anything it wraps) is an EvaluationError.
func IsEvaluationError(err error) bool { return isKind(err, EvaluationError) }

// IsIncomplete reports whether err is a SyntaxError caused by input ending
// inside an unterminated form.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == SyntaxError && e.Incomplete
}

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src when err is a positioned SyntaxError. Any other error is
// returned as-is.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (file path,
// "<repl>") shown in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind != SyntaxError || e.Pos < 0 {
		return err
	}
	line, col := lineColAt(src, e.Pos)
	return &wrappedError{
		err: e,
		msg: prettyErrorStringLabeled(src, "SYNTAX ERROR", srcName, line, col, e.Msg),
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: helpers & rendering
   =========================== */

// wrappedError keeps the original *Error reachable through errors.As while
// presenting the rendered snippet as its message.
type wrappedError struct {
	err *Error
	msg string
}

func (w *wrappedError) Error() string { return w.msg }
func (w *wrappedError) Unwrap() error { return w.err }

func isKind(err error, k ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func syntaxErrorf(pos int, format string, args ...any) *Error {
	return &Error{Kind: SyntaxError, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func nameErrorf(format string, args ...any) *Error {
	return &Error{Kind: NameError, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func evalErrorf(format string, args ...any) *Error {
	return &Error{Kind: EvaluationError, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

// prettyErrorStringLabeled builds a snippet with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
