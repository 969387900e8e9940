// parser.go: recursive-descent parser producing nested-list ASTs.
//
// OVERVIEW
// --------
// The parser consumes the flat token slice from lexer.go and builds exactly
// one AST node, using every token exactly once.
//
// Nodes
// -----
// An AST node is one of:
//
//	int64     // whole-number atom, e.g. "8", "-3"
//	float64   // decimal/exponential atom, e.g. "-5.32", "1e3"
//	string    // symbol atom, e.g. "x", "+", "#t", "1.2.3.4"
//	S         // compound form: ordered sub-nodes, e.g. S{"+", int64(1), int64(2)}
//
// Nodes are immutable once built; the evaluator may walk the same node many
// times (e.g. a lambda body).
//
// Errors
// ------
// All failures are *Error{Kind: SyntaxError}:
//   - ')' where an expression is expected,
//   - input ending inside an open form (Incomplete=true),
//   - tokens left over after the first expression,
//   - no tokens at all (Incomplete=true).
//
// When parsing via ParseSource the error's Pos is the byte offset of the
// offending token so WrapErrorWithSource can draw a caret.
package scheme

import (
	"errors"
	"strconv"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// S is a compound form (a parenthesized list of nodes).
type S = []any

// Parse builds one AST node from tokens. Leftover tokens are a SyntaxError.
func Parse(tokens []string) (any, error) {
	p := &parser{toks: tokens}
	return p.program()
}

// ParseSource tokenizes and parses src. Syntax errors carry byte positions.
func ParseSource(src string) (any, error) {
	toks, spans := TokenizeWithSpans(src)
	p := &parser{toks: toks, spans: spans, srcLen: len(src)}
	return p.program()
}

// ParseInteractive parses src like ParseSource. It exists for REPLs: when the
// input stops inside an open form the returned error satisfies IsIncomplete,
// signalling that another line should be read before reporting anything.
func ParseInteractive(src string) (any, error) {
	return ParseSource(src)
}

// NumberOrSymbol converts an atom token to int64 when it spells a whole
// number, to float64 when it spells a decimal or exponential number, and
// otherwise returns the token itself as a symbol.
//
//	NumberOrSymbol("8")       == int64(8)
//	NumberOrSymbol("-5.32")   == -5.32
//	NumberOrSymbol("1e400")   == +Inf
//	NumberOrSymbol("1.2.3.4") == "1.2.3.4"
//	NumberOrSymbol("x")       == "x"
func NumberOrSymbol(tok string) any {
	if !looksNumeric(tok) {
		return tok
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		// Out-of-range spellings come back as ±Inf (or a signed zero).
		return f
	}
	return tok
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                PARSER STATE
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks   []string
	spans  []Span // optional; index-aligned with toks
	srcLen int
	i      int
}

func (p *parser) atEnd() bool  { return p.i >= len(p.toks) }
func (p *parser) peek() string { return p.toks[p.i] }

// posOf returns the byte offset of token i, the end of the source when i is
// past the last token, or -1 when no spans were recorded.
func (p *parser) posOf(i int) int {
	if p.spans == nil {
		return -1
	}
	if i < len(p.spans) {
		return p.spans[i].Start
	}
	return p.srcLen
}

func (p *parser) incomplete(msg string, openTok int) *Error {
	e := syntaxErrorf(p.posOf(openTok), "%s", msg)
	e.Incomplete = true
	return e
}

////////////////////////////////////////////////////////////////////////////////
//                                  GRAMMAR
////////////////////////////////////////////////////////////////////////////////

func (p *parser) program() (any, error) {
	if len(p.toks) == 0 {
		return nil, p.incomplete("expected an expression, got end of input", 0)
	}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, syntaxErrorf(p.posOf(p.i), "unexpected %q after the expression", p.peek())
	}
	return node, nil
}

func (p *parser) expr() (any, error) {
	if p.atEnd() {
		return nil, p.incomplete("expected an expression, got end of input", p.i)
	}
	tok := p.peek()
	switch tok {
	case ")":
		return nil, syntaxErrorf(p.posOf(p.i), "unexpected ')'")
	case "(":
		return p.form()
	default:
		p.i++
		return NumberOrSymbol(tok), nil
	}
}

// form parses "( expr* )"; the cursor sits on the opening paren.
func (p *parser) form() (any, error) {
	open := p.i
	p.i++
	out := S{}
	for {
		if p.atEnd() {
			return nil, p.incomplete("unterminated '(': expected ')'", open)
		}
		if p.peek() == ")" {
			p.i++
			return out, nil
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

// looksNumeric accepts only plain decimal spellings: optional sign, digits
// with at most one '.', and an optional exponent. Anything else (hex,
// underscores, "inf", "nan") stays a symbol even though strconv would take it.
func looksNumeric(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
