// lexer.go: splits Scheme source text into tokens.
package scheme

// Lexer scans a source string into tokens. A token is one of "(", ")" or an
// atom spelling; the lexer attaches no other attributes (see spans.go for the
// positions kept beside them).
//
// Rules, applied left to right:
//   - ';' starts a comment that runs up to (not including) the next newline.
//   - '(' and ')' are single-character tokens.
//   - space, tab, '\r' and '\n' separate tokens.
//   - any other run of characters forms one atom.
//
// Parenthesis balance is the parser's concern, not the lexer's.
type Lexer struct {
	src    string
	cur    int
	tokens []string
	spans  []Span
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the whole source. It never fails. The returned span slice is
// index-aligned with the tokens.
func (l *Lexer) Scan() ([]string, []Span) {
	l.cur = 0
	l.tokens = l.tokens[:0]
	l.spans = l.spans[:0]

	for !l.isAtEnd() {
		c := l.src[l.cur]
		switch {
		case c == ';':
			l.skipComment()
		case c == '(' || c == ')':
			l.emit(l.cur, l.cur+1)
			l.cur++
		case isSeparator(c):
			l.cur++
		default:
			start := l.cur
			for !l.isAtEnd() && !isDelimiter(l.src[l.cur]) {
				l.cur++
			}
			l.emit(start, l.cur)
		}
	}
	return l.tokens, l.spans
}

// Tokenize splits source text into tokens, dropping comments and whitespace.
func Tokenize(src string) []string {
	toks, _ := NewLexer(src).Scan()
	return toks
}

// TokenizeWithSpans is Tokenize plus the byte span of every token.
func TokenizeWithSpans(src string) ([]string, []Span) {
	return NewLexer(src).Scan()
}

// ----- helpers -----

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) emit(start, end int) {
	l.tokens = append(l.tokens, l.src[start:end])
	l.spans = append(l.spans, Span{Start: start, End: end})
}

// skipComment advances to the newline ending the comment (or to EOF). The
// newline itself is left for the main loop, where it acts as a separator.
func (l *Lexer) skipComment() {
	for !l.isAtEnd() && l.src[l.cur] != '\n' {
		l.cur++
	}
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSeparator(c) || c == '(' || c == ')'
}
