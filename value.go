package scheme

////////////////////////////////////////////////////////////////////////////////
//                              PUBLIC TYPES & CTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
// The tag determines which Go type Value.Data holds.
type ValueTag int

const (
	VTNil     ValueTag = iota // the empty list (no payload)
	VTInt                     // int64
	VTFloat                   // float64
	VTBool                    // bool
	VTSymbol                  // string
	VTPair                    // *Pair
	VTClosure                 // *Closure
	VTNative                  // *Native
)

func (t ValueTag) String() string {
	switch t {
	case VTNil:
		return "nil"
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTBool:
		return "bool"
	case VTSymbol:
		return "symbol"
	case VTPair:
		return "pair"
	case VTClosure:
		return "closure"
	case VTNative:
		return "builtin"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier produced and consumed by the
// evaluator and the builtins.
//
// Invariants:
//   - Tag==VTNil  ⇒ Data is nil.
//   - Tag==VTPair ⇒ Data is a non-nil *Pair.
//   - Only VTClosure and VTNative values are callable (see AsProcedure).
type Value struct {
	Tag  ValueTag
	Data any
}

// String renders the value the way the REPL prints it.
func (v Value) String() string { return FormatValue(v) }

// Nil is the empty-list sentinel. All Nil values compare equal.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func Int(n int64) Value     { return Value{Tag: VTInt, Data: n} }
func Float(f float64) Value { return Value{Tag: VTFloat, Data: f} }
func Bool(b bool) Value     { return Value{Tag: VTBool, Data: b} }
func Symbol(s string) Value { return Value{Tag: VTSymbol, Data: s} }

// True and False are the values bound to #t and #f.
var (
	True  = Bool(true)
	False = Bool(false)
)

// Pair is a mutable two-slot cell. Proper lists are Pair chains ending in Nil.
type Pair struct {
	First Value
	Rest  Value
}

// Cons allocates a new pair.
func Cons(first, rest Value) Value {
	return Value{Tag: VTPair, Data: &Pair{First: first, Rest: rest}}
}

// List builds a proper list from xs (right fold of Cons ending in Nil).
func List(xs ...Value) Value {
	out := Nil
	for i := len(xs) - 1; i >= 0; i-- {
		out = Cons(xs[i], out)
	}
	return out
}

// Procedure is implemented by the two callable variants, *Closure and *Native.
type Procedure interface {
	Call(args []Value) (Value, error)
}

// Closure is a user-defined procedure. Env is the frame the lambda was
// evaluated in, shared (not copied) with everything else that references it.
type Closure struct {
	Env    *Frame
	Params []string
	Body   any
}

// Call binds args to the parameters in a fresh child of the captured frame
// and evaluates the body there.
func (c *Closure) Call(args []Value) (Value, error) {
	return callClosure(c, args)
}

// NativeFunc is the signature of host-implemented procedures. Arguments are
// already evaluated.
type NativeFunc func(args []Value) (Value, error)

// Native is a builtin procedure.
type Native struct {
	Name string
	Fn   NativeFunc
}

// Call runs the host implementation.
func (n *Native) Call(args []Value) (Value, error) { return n.Fn(args) }

// ClosureVal wraps a *Closure into a Value.
func ClosureVal(c *Closure) Value { return Value{Tag: VTClosure, Data: c} }

// NativeVal wraps a host function into a Value.
func NativeVal(name string, fn NativeFunc) Value {
	return Value{Tag: VTNative, Data: &Native{Name: name, Fn: fn}}
}

////////////////////////////////////////////////////////////////////////////////
//                                  HELPERS
////////////////////////////////////////////////////////////////////////////////

// AsProcedure returns the callable behind v. Only closures and natives
// qualify; every other tag reports false.
func AsProcedure(v Value) (Procedure, bool) {
	switch v.Tag {
	case VTClosure:
		return v.Data.(*Closure), true
	case VTNative:
		return v.Data.(*Native), true
	case VTNil, VTInt, VTFloat, VTBool, VTSymbol, VTPair:
		return nil, false
	default:
		return nil, false
	}
}

// IsNumber reports whether v is an Int or a Float.
func IsNumber(v Value) bool { return v.Tag == VTInt || v.Tag == VTFloat }

func toFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

// Truthy implements the loose truthiness used by `and`, `or`, `not` and
// `filter`: #f, 0 and 0.0 are false; everything else, Nil included, is true.
// Note that `if` does not use this; it only accepts #t.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTFloat:
		return v.Data.(float64) != 0
	default:
		return true
	}
}

// IsTrue reports whether v is exactly the boolean #t.
func IsTrue(v Value) bool {
	return v.Tag == VTBool && v.Data.(bool)
}

// Equal is value equality as used by `equal?`.
//   - Numbers compare numerically across Int/Float (1 equals 1.0).
//   - Booleans, symbols compare by payload; Nil equals Nil.
//   - Pairs compare structurally, walking the cdr chain iteratively.
//   - Closures and natives compare by identity.
func Equal(a, b Value) bool {
	for {
		if IsNumber(a) && IsNumber(b) {
			if a.Tag == VTInt && b.Tag == VTInt {
				return a.Data.(int64) == b.Data.(int64)
			}
			return toFloat(a) == toFloat(b)
		}
		if a.Tag != b.Tag {
			return false
		}
		switch a.Tag {
		case VTNil:
			return true
		case VTBool:
			return a.Data.(bool) == b.Data.(bool)
		case VTSymbol:
			return a.Data.(string) == b.Data.(string)
		case VTClosure:
			return a.Data.(*Closure) == b.Data.(*Closure)
		case VTNative:
			return a.Data.(*Native) == b.Data.(*Native)
		case VTPair:
			pa, pb := a.Data.(*Pair), b.Data.(*Pair)
			if pa == pb {
				return true
			}
			if !Equal(pa.First, pb.First) {
				return false
			}
			a, b = pa.Rest, pb.Rest
		default:
			return false
		}
	}
}

// typeName is used in error messages.
func typeName(v Value) string { return v.Tag.String() }
