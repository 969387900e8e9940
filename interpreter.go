// interpreter.go: PUBLIC API SURFACE of the Scheme interpreter.
//
// OVERVIEW
// ========
// Source text flows through three stages:
//
//	Tokenize(src) -> []string -> Parse(tokens) -> AST -> Evaluate(ast, frame) -> Value
//
// Hosts either drive those stages themselves or use an *Interpreter, which
// owns one global environment and runs all three stages per call.
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// Code evaluates in frames (*Frame) chained through parent links. The chain
// always ends at a global frame built by NewGlobalFrame, which holds the
// builtins and #t/#f/nil. Entry points differ only in which frame they use:
//   - Evaluate(ast, nil) builds a fresh global frame and a child frame below it,
//     and evaluates there. Nothing persists.
//   - Evaluate(ast, frame) evaluates in the frame you pass; `define` lands
//     there, so the caller can keep the frame between calls.
//   - Interpreter.EvalSource / EvalFile evaluate in Interpreter.Global (a
//     child of Interpreter.Builtins), REPL-style.
//
// ERRORS
// ------
// Every failure is a *Error (see errors.go). Nothing is retried or
// suppressed. Interpreter methods additionally wrap syntax errors with a caret
// snippet of the offending source.
//
// DEPENDENCIES (OTHER FILES)
// --------------------------
//   - lexer.go / parser.go: tokens and AST.
//   - value.go / frame.go: runtime values and environments.
//   - interpreter_exec.go: the evaluator and the special forms.
//   - runtime.go, builtin_*.go: the global frame and its builtins.
//   - printer.go: FormatValue / FormatSExpr.
package scheme

import (
	"fmt"
	"os"
)

// Evaluate evaluates one parsed expression. When frame is nil a fresh
// environment is built: a new global frame with an empty child frame, and
// evaluation happens in the child.
func Evaluate(node any, frame *Frame) (Value, error) {
	if frame == nil {
		frame = NewFrame(NewGlobalFrame())
	}
	return evaluate(node, frame)
}

// ResultAndFrame is Evaluate that also returns the frame it evaluated in, so a
// caller passing nil gets hold of the freshly built environment.
func ResultAndFrame(node any, frame *Frame) (Value, *Frame, error) {
	if frame == nil {
		frame = NewFrame(NewGlobalFrame())
	}
	v, err := evaluate(node, frame)
	return v, frame, err
}

// EvaluateFile reads path as one source unit, parses it as a single
// expression and evaluates it in frame (or a fresh environment when frame is
// nil). Files holding several top-level forms must wrap them, e.g. in
// (begin ...); otherwise parsing fails with a SyntaxError.
func EvaluateFile(path string, frame *Frame) (Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Value{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	ast, err := ParseSource(string(src))
	if err != nil {
		return Value{}, WrapErrorWithName(err, path, string(src))
	}
	return Evaluate(ast, frame)
}

////////////////////////////////////////////////////////////////////////////////
//                               INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter bundles one top-level environment for hosts such as a REPL.
//
// Public fields:
//   - Builtins: the global frame holding the builtin library.
//   - Global: the user frame, child of Builtins, where definitions land.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	Builtins *Frame
	Global   *Frame
}

// NewInterpreter builds a fresh environment.
func NewInterpreter() *Interpreter {
	b := NewGlobalFrame()
	return &Interpreter{Builtins: b, Global: NewFrame(b)}
}

// EvalSource tokenizes, parses and evaluates src in Global.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	return ip.evalNamed("<repl>", src)
}

// EvalAST evaluates an already-parsed node in Global.
func (ip *Interpreter) EvalAST(node any) (Value, error) {
	return evaluate(node, ip.Global)
}

// EvalFile loads path into Global. Definitions made by the file persist, so
// several files can be loaded one after another into the same environment.
func (ip *Interpreter) EvalFile(path string) (Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Value{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ip.evalNamed(path, string(src))
}

func (ip *Interpreter) evalNamed(name, src string) (Value, error) {
	ast, err := ParseSource(src)
	if err != nil {
		return Value{}, WrapErrorWithName(err, name, src)
	}
	return evaluate(ast, ip.Global)
}

//// END_OF_PUBLIC
