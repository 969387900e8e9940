// spans.go: sidecar byte spans for tokens.
//
// Tokens are plain strings (the parser classifies them by text alone), so
// source positions live beside them instead of inside them: the lexer emits
// one Span per token, index-aligned with the token slice. Spans are half-open
// byte intervals [Start, End) into the original UTF-8 source. Line/column
// coordinates are derived on demand by lineColAt.
//
// Only error rendering consumes spans; evaluation never looks at them.
package scheme

import "unicode/utf8"

// Span is a half-open byte interval [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the span width in bytes.
func (s Span) Len() int { return s.End - s.Start }

// lineColAt converts a byte offset to 1-based (line, column) coordinates.
// Columns count runes, not bytes. Offsets past the end clamp to the end.
func lineColAt(src string, off int) (int, int) {
	if off > len(src) {
		off = len(src)
	}
	if off < 0 {
		off = 0
	}
	line, col := 1, 1
	for i := 0; i < off; {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += size
	}
	return line, col
}
