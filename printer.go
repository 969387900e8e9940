package scheme

import (
	"math"
	"strconv"
	"strings"
)

/* ---------- values ---------- */

// FormatValue renders a runtime value:
//
//	42  3.5  1e+20  #t  #f  nil  (1 2 3)  (1 . 2)  <procedure (x y)>  <builtin +>
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNil:
		b.WriteString("nil")
	case VTInt:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VTFloat:
		b.WriteString(formatFloat(v.Data.(float64)))
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case VTSymbol:
		b.WriteString(v.Data.(string))
	case VTPair:
		writePair(b, v.Data.(*Pair))
	case VTClosure:
		b.WriteString("<procedure (")
		b.WriteString(strings.Join(v.Data.(*Closure).Params, " "))
		b.WriteString(")>")
	case VTNative:
		b.WriteString("<builtin ")
		b.WriteString(v.Data.(*Native).Name)
		b.WriteString(">")
	default:
		b.WriteString("<unknown>")
	}
}

// writePair prints a proper list as (a b c) and an improper tail as (a b . c).
func writePair(b *strings.Builder, p *Pair) {
	b.WriteByte('(')
	for {
		writeValue(b, p.First)
		switch p.Rest.Tag {
		case VTNil:
			b.WriteByte(')')
			return
		case VTPair:
			b.WriteByte(' ')
			p = p.Rest.Data.(*Pair)
		default:
			b.WriteString(" . ")
			writeValue(b, p.Rest)
			b.WriteByte(')')
			return
		}
	}
}

// formatFloat always shows a float as a float ("2.0", not "2"), switching to
// exponent notation only for very large or very small magnitudes.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

/* ---------- AST ---------- */

// FormatSExpr renders a parsed node back into source form. Feeding the
// result through Tokenize and Parse yields an equal node.
func FormatSExpr(node any) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node any) {
	switch n := node.(type) {
	case int64:
		b.WriteString(strconv.FormatInt(n, 10))
	case float64:
		b.WriteString(formatFloat(n))
	case string:
		b.WriteString(n)
	case S:
		b.WriteByte('(')
		for i, sub := range n {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, sub)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<?>")
	}
}
