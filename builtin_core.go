package scheme

import "math"

// ---- arithmetic ---------------------------------------------------------
//
// Int op Int stays Int unless the result leaves the int64 range, in which
// case it becomes a Float (the same rule the parser applies to literals).
// Any Float operand promotes the result to Float.
// Division is always true division: each actual division step yields a Float.

func registerArithmeticBuiltins(f *Frame) {
	registerNative(f, "+", func(args []Value) (Value, error) {
		return sum("+", args)
	})

	// (- x) negates; (- x y z ...) is x - (y + z + ...).
	registerNative(f, "-", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return Value{}, evalErrorf("- expects at least 1 argument, got 0")
		}
		if err := wantNumber("-", args[0]); err != nil {
			return Value{}, err
		}
		if len(args) == 1 {
			return negate(args[0]), nil
		}
		rest, err := sum("-", args[1:])
		if err != nil {
			return Value{}, err
		}
		return sub(args[0], rest), nil
	})

	registerNative(f, "*", func(args []Value) (Value, error) {
		acc := Int(1)
		for i, a := range args {
			if err := wantNumber("*", a); err != nil {
				return Value{}, err
			}
			if i == 0 {
				acc = a
				continue
			}
			acc = mul(acc, a)
		}
		return acc, nil
	})

	registerNative(f, "/", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return Value{}, evalErrorf("/ expects at least 1 argument, got 0")
		}
		acc := args[0]
		if err := wantNumber("/", acc); err != nil {
			return Value{}, err
		}
		for _, a := range args[1:] {
			if err := wantNumber("/", a); err != nil {
				return Value{}, err
			}
			d := toFloat(a)
			if d == 0 {
				return Value{}, evalErrorf("division by zero")
			}
			acc = Float(toFloat(acc) / d)
		}
		return acc, nil
	})
}

func sum(name string, args []Value) (Value, error) {
	acc := Int(0)
	for _, a := range args {
		if err := wantNumber(name, a); err != nil {
			return Value{}, err
		}
		acc = add(acc, a)
	}
	return acc, nil
}

func add(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		if z := x + y; (z > x) == (y > 0) {
			return Int(z)
		}
	}
	return Float(toFloat(a) + toFloat(b))
}

func sub(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		if z := x - y; (z < x) == (y > 0) {
			return Int(z)
		}
	}
	return Float(toFloat(a) - toFloat(b))
}

func mul(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		if x == 0 || y == 0 {
			return Int(0)
		}
		z := x * y
		if z/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64) {
			return Int(z)
		}
	}
	return Float(toFloat(a) * toFloat(b))
}

func negate(a Value) Value {
	if a.Tag == VTInt {
		if n := a.Data.(int64); n != math.MinInt64 {
			return Int(-n)
		}
	}
	return Float(-toFloat(a))
}

// ---- comparisons --------------------------------------------------------

func registerComparisonBuiltins(f *Frame) {
	registerNative(f, ">", monotonic(">", func(c int) bool { return c > 0 }))
	registerNative(f, "<", monotonic("<", func(c int) bool { return c < 0 }))
	registerNative(f, ">=", monotonic(">=", func(c int) bool { return c >= 0 }))
	registerNative(f, "<=", monotonic("<=", func(c int) bool { return c <= 0 }))

	// (equal? a b c ...) holds when every argument equals the first.
	registerNative(f, "equal?", func(args []Value) (Value, error) {
		for _, a := range args[min(1, len(args)):] {
			if !Equal(args[0], a) {
				return False, nil
			}
		}
		return True, nil
	})
}

// monotonic builds a pairwise comparison: ok(compare(a[i-1], a[i])) must hold
// for every adjacent pair. Zero or one argument is trivially true.
func monotonic(name string, ok func(int) bool) NativeFunc {
	return func(args []Value) (Value, error) {
		for i := 1; i < len(args); i++ {
			a, b := args[i-1], args[i]
			if err := wantNumber(name, a); err != nil {
				return Value{}, err
			}
			if err := wantNumber(name, b); err != nil {
				return Value{}, err
			}
			if !ok(compareNumbers(a, b)) {
				return False, nil
			}
		}
		return True, nil
	}
}

func compareNumbers(a, b Value) int {
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := toFloat(a), toFloat(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// ---- logic & sequencing -------------------------------------------------

func registerLogicBuiltins(f *Frame) {
	registerNative(f, "not", func(args []Value) (Value, error) {
		if err := wantArgs("not", args, 1); err != nil {
			return Value{}, err
		}
		return Bool(!Truthy(args[0])), nil
	})

	// Arguments were already evaluated in order by the caller, so begin only
	// has to hand back the last one.
	registerNative(f, "begin", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return Value{}, evalErrorf("begin expects at least 1 argument, got 0")
		}
		return args[len(args)-1], nil
	})
}
