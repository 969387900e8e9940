// runtime.go
//
// Builds global frames. Each call to NewGlobalFrame produces an independent
// root frame holding the whole builtin library plus the value bindings #t, #f
// and nil; there is no process-wide table, so separate environments never
// observe each other's definitions.

package scheme

// NewGlobalFrame returns a new root frame pre-loaded with every builtin.
func NewGlobalFrame() *Frame {
	f := NewFrame(nil)

	f.Define("#t", True)
	f.Define("#f", False)
	f.Define("nil", Nil)

	registerArithmeticBuiltins(f)
	registerComparisonBuiltins(f)
	registerLogicBuiltins(f)
	registerPairBuiltins(f)
	registerListBuiltins(f)

	return f
}

// registerNative installs a host function under name.
func registerNative(f *Frame, name string, fn NativeFunc) {
	f.Define(name, NativeVal(name, fn))
}

// BuiltinNames lists the names bound in a fresh global frame, sorted.
func BuiltinNames() []string {
	return NewGlobalFrame().Names()
}

////////////////////////////////////////////////////////////////////////////////
//                              ARGUMENT HELPERS
////////////////////////////////////////////////////////////////////////////////

func wantArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return evalErrorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func wantNumber(name string, v Value) error {
	if !IsNumber(v) {
		return evalErrorf("%s expects numbers, got %s", name, describe(v))
	}
	return nil
}

func wantProcedure(name string, v Value) (Procedure, error) {
	p, ok := AsProcedure(v)
	if !ok {
		return nil, evalErrorf("%s expects a procedure, got %s", name, describe(v))
	}
	return p, nil
}
