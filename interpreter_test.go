package scheme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustEvalPersistent(t *testing.T, ip *Interpreter, src string) Value {
	t.Helper()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalErr(t *testing.T, ip *Interpreter, src string) error {
	t.Helper()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected an error for %q", src)
	}
	return err
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int64) != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantFloat(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTFloat {
		t.Fatalf("want float %g, got %#v", f, v)
	}
	if got := v.Data.(float64); got != f {
		t.Fatalf("want float %g, got %g", f, got)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNil(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNil {
		t.Fatalf("want nil, got %#v", v)
	}
}

func wantPrinted(t *testing.T, v Value, s string) {
	t.Helper()
	if got := FormatValue(v); got != s {
		t.Fatalf("want %s, got %s", s, got)
	}
}

// --- literals & lookup -----------------------------------------------------

func Test_Interpreter_Literals(t *testing.T) {
	wantInt(t, evalSrc(t, "42"), 42)
	wantFloat(t, evalSrc(t, "-5.32"), -5.32)
	wantBool(t, evalSrc(t, "#t"), true)
	wantBool(t, evalSrc(t, "#f"), false)
	wantNil(t, evalSrc(t, "nil"))
}

func Test_Interpreter_Unbound_Symbol_Is_NameError(t *testing.T) {
	err := evalErr(t, NewInterpreter(), "undefined-thing")
	if !IsNameError(err) {
		t.Fatalf("want NameError, got %v", err)
	}
}

func Test_Interpreter_Evaluate_Entry_Points(t *testing.T) {
	ast, err := Parse(Tokenize("(+ 1 2)"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := Evaluate(ast, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	wantInt(t, v, 3)

	def, _ := Parse(Tokenize("(define y 9)"))
	_, frame, err := ResultAndFrame(def, nil)
	if err != nil {
		t.Fatalf("ResultAndFrame: %v", err)
	}
	v, err = Evaluate("y", frame)
	if err != nil {
		t.Fatalf("lookup in returned frame: %v", err)
	}
	wantInt(t, v, 9)
	if frame.Parent() == nil {
		t.Fatalf("fresh environments evaluate in a child of the global frame")
	}

	// A nil frame never persists anything.
	if _, err := Evaluate("y", nil); !IsNameError(err) {
		t.Fatalf("want NameError in a fresh environment, got %v", err)
	}
}

// --- define / lambda -------------------------------------------------------

func Test_Interpreter_Define_Returns_Value(t *testing.T) {
	ip := NewInterpreter()
	wantInt(t, mustEvalPersistent(t, ip, "(define x 7)"), 7)
	wantInt(t, mustEvalPersistent(t, ip, "x"), 7)
	if !ip.Global.Has("x") || ip.Builtins.Has("x") {
		t.Fatalf("definitions must land in Global")
	}
}

func Test_Interpreter_Define_Function_Shorthand(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define (square x) (* x x))")
	wantInt(t, mustEvalPersistent(t, ip, "(square 21)"), 441)
	wantPrinted(t, mustEvalPersistent(t, ip, "square"), "<procedure (x)>")
}

func Test_Interpreter_Closure_Arity(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define (square x) (* x x))")
	for _, src := range []string{"(square)", "(square 1 2)"} {
		if err := evalErr(t, ip, src); !IsEvaluationError(err) {
			t.Fatalf("%s: want EvaluationError, got %v", src, err)
		}
	}
}

func Test_Interpreter_Lambda_Immediate_Call(t *testing.T) {
	wantInt(t, evalSrc(t, "((lambda (a b) (- a b)) 10 3)"), 7)
	wantInt(t, evalSrc(t, "((lambda () 5))"), 5)
}

func Test_Interpreter_Closure_Capture_Is_Shared(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define n 1)")
	mustEvalPersistent(t, ip, "(define (get) n)")
	mustEvalPersistent(t, ip, "(define n 2)")
	// The closure sees the frame, not a snapshot of it.
	wantInt(t, mustEvalPersistent(t, ip, "(get)"), 2)
}

func Test_Interpreter_Counter_With_SetBang(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, `
(define make-counter
  (lambda ()
    (let ((count 0))
      (lambda () (set! count (+ count 1))))))`)
	mustEvalPersistent(t, ip, "(define c (make-counter))")
	mustEvalPersistent(t, ip, "(c)")
	mustEvalPersistent(t, ip, "(c)")
	wantInt(t, mustEvalPersistent(t, ip, "(c)"), 3)
}

func Test_Interpreter_Recursion(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1)))))")
	wantInt(t, mustEvalPersistent(t, ip, "(fact 10)"), 3628800)
	mustEvalPersistent(t, ip, "(define (fib n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2)))))")
	wantInt(t, mustEvalPersistent(t, ip, "(fib 15)"), 610)
}

func Test_Interpreter_Malformed_Special_Forms(t *testing.T) {
	ip := NewInterpreter()
	for _, src := range []string{
		"(define x)",
		"(define 3 4)",
		"(define () 1)",
		"(lambda (x))",
		"(lambda (1) x)",
		"(lambda x x)",
		"(if #t 1)",
		"(let x 1)",
		"(let ((x)) x)",
		"(set! x)",
		"(del)",
	} {
		if err := evalErr(t, ip, src); !IsEvaluationError(err) {
			t.Errorf("%s: want EvaluationError, got %v", src, err)
		}
	}
}

// --- application -----------------------------------------------------------

func Test_Interpreter_Empty_Form_Is_Error(t *testing.T) {
	if err := evalErr(t, NewInterpreter(), "()"); !IsEvaluationError(err) {
		t.Fatalf("want EvaluationError, got %v", err)
	}
}

func Test_Interpreter_Calling_NonProcedure(t *testing.T) {
	ip := NewInterpreter()
	for _, src := range []string{"(1 2)", "(#t)", "((list 1) 0)"} {
		if err := evalErr(t, ip, src); !IsEvaluationError(err) {
			t.Errorf("%s: want EvaluationError, got %v", src, err)
		}
	}
}

func Test_Interpreter_Operator_Is_Evaluated(t *testing.T) {
	wantInt(t, evalSrc(t, "((if #t + *) 3 4)"), 7)
}

func Test_Interpreter_Builtins_Can_Be_Rebound(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define + -)")
	wantInt(t, mustEvalPersistent(t, ip, "(+ 5 3)"), 2)
	// A fresh interpreter is unaffected.
	wantInt(t, evalSrc(t, "(+ 5 3)"), 8)
}

func Test_Interpreter_Special_Forms_Cannot_Be_Shadowed(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define if 0)")
	wantInt(t, mustEvalPersistent(t, ip, "(if #t 1 2)"), 1)
}

func Test_Interpreter_Errors_Propagate_From_Closures(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define (boom) missing)")
	if err := evalErr(t, ip, "(+ 1 (boom))"); !IsNameError(err) {
		t.Fatalf("want NameError from the closure body, got %v", err)
	}
}

// --- if / and / or -----------------------------------------------------------

func Test_Interpreter_If_Is_Strict(t *testing.T) {
	wantInt(t, evalSrc(t, "(if #t 1 2)"), 1)
	wantInt(t, evalSrc(t, "(if #f 1 2)"), 2)
	wantInt(t, evalSrc(t, "(if 0 1 2)"), 2)
	wantInt(t, evalSrc(t, "(if 1 1 2)"), 2)
	wantInt(t, evalSrc(t, "(if nil 1 2)"), 2)
	wantInt(t, evalSrc(t, "(if (list 1) 1 2)"), 2)
}

func Test_Interpreter_If_Evaluates_One_Branch(t *testing.T) {
	wantInt(t, evalSrc(t, "(if #t 1 undefined-name)"), 1)
	wantInt(t, evalSrc(t, "(if #f undefined-name 2)"), 2)
}

func Test_Interpreter_And_Or(t *testing.T) {
	wantBool(t, evalSrc(t, "(and)"), true)
	wantBool(t, evalSrc(t, "(or)"), false)
	wantBool(t, evalSrc(t, "(and 1 2 3)"), true)
	wantBool(t, evalSrc(t, "(and 1 0 3)"), false)
	wantBool(t, evalSrc(t, "(or 0 0.0 #f)"), false)
	// nil is the empty list, not a false value.
	wantBool(t, evalSrc(t, "(or 0 nil)"), true)
	wantBool(t, evalSrc(t, "(and nil)"), true)
	wantBool(t, evalSrc(t, "(or 0 7)"), true)
}

func Test_Interpreter_ShortCircuit_And_Or(t *testing.T) {
	wantBool(t, evalSrc(t, "(and #f undefined-name)"), false)
	wantBool(t, evalSrc(t, "(or #t undefined-name)"), true)
	if err := evalErr(t, NewInterpreter(), "(and #t undefined-name)"); !IsNameError(err) {
		t.Fatalf("want NameError, got %v", err)
	}
}

// --- del / let / set! --------------------------------------------------------

func Test_Interpreter_Del(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define x 3)")
	wantInt(t, mustEvalPersistent(t, ip, "(del x)"), 3)
	if err := evalErr(t, ip, "x"); !IsNameError(err) {
		t.Fatalf("x should be unbound after del, got %v", err)
	}
	if err := evalErr(t, ip, "(del x)"); !IsNameError(err) {
		t.Fatalf("del of an unbound name: want NameError, got %v", err)
	}
	// Builtins live in the parent frame and cannot be deleted from Global.
	if err := evalErr(t, ip, "(del car)"); !IsNameError(err) {
		t.Fatalf("del of an inherited name: want NameError, got %v", err)
	}
}

func Test_Interpreter_Let(t *testing.T) {
	wantInt(t, evalSrc(t, "(let ((a 1) (b 2)) (+ a b))"), 3)
	// Later bindings see earlier ones.
	wantInt(t, evalSrc(t, "(let ((a 1) (b (+ a 1))) b)"), 2)
	wantInt(t, evalSrc(t, "(let () 4)"), 4)
}

func Test_Interpreter_Let_Does_Not_Leak(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(let ((tmp 1)) tmp)")
	if err := evalErr(t, ip, "tmp"); !IsNameError(err) {
		t.Fatalf("let binding leaked: %v", err)
	}
}

func Test_Interpreter_SetBang(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define x 1)")
	wantInt(t, mustEvalPersistent(t, ip, "(set! x 5)"), 5)
	wantInt(t, mustEvalPersistent(t, ip, "x"), 5)

	// set! inside a closure updates the enclosing binding.
	mustEvalPersistent(t, ip, "(define (bump) (set! x (+ x 1)))")
	mustEvalPersistent(t, ip, "(bump)")
	wantInt(t, mustEvalPersistent(t, ip, "x"), 6)

	if err := evalErr(t, ip, "(set! never-defined 1)"); !IsNameError(err) {
		t.Fatalf("set! of an unbound name: want NameError, got %v", err)
	}
}

func Test_Interpreter_SetBang_Checks_Name_Before_Value(t *testing.T) {
	ip := NewInterpreter()
	// The NameError for the target wins over the error in the value.
	if err := evalErr(t, ip, "(set! nope (car 1))"); !IsNameError(err) {
		t.Fatalf("want NameError, got %v", err)
	}
}

// --- files ---------------------------------------------------------------------

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func Test_Interpreter_EvaluateFile(t *testing.T) {
	p := writeFile(t, "prog.scm", "; sum a list\n(reduce + (list 1 2 3 4) 0)\n")
	v, err := EvaluateFile(p, nil)
	if err != nil {
		t.Fatalf("EvaluateFile: %v", err)
	}
	wantInt(t, v, 10)
}

func Test_Interpreter_EvaluateFile_Multiple_Forms_Is_SyntaxError(t *testing.T) {
	p := writeFile(t, "two.scm", "(define a 1)\n(define b 2)\n")
	_, err := EvaluateFile(p, nil)
	if !IsSyntaxError(err) {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	mustContain(t, err.Error(), "two.scm at 2:1")
}

func Test_Interpreter_EvaluateFile_Missing(t *testing.T) {
	_, err := EvaluateFile(filepath.Join(t.TempDir(), "nope.scm"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want a not-exist error, got %v", err)
	}
}

func Test_Interpreter_EvalFile_Persists_Definitions(t *testing.T) {
	ip := NewInterpreter()
	a := writeFile(t, "a.scm", "(define (double x) (* 2 x))")
	b := writeFile(t, "b.scm", "(define quad (lambda (x) (double (double x))))")
	if _, err := ip.EvalFile(a); err != nil {
		t.Fatalf("EvalFile a: %v", err)
	}
	if _, err := ip.EvalFile(b); err != nil {
		t.Fatalf("EvalFile b: %v", err)
	}
	wantInt(t, mustEvalPersistent(t, ip, "(quad 3)"), 12)
}

func Test_Interpreter_EvalSource_Wraps_Syntax_Errors(t *testing.T) {
	err := evalErr(t, NewInterpreter(), "(+ 1 2))")
	if !IsSyntaxError(err) {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	mustContain(t, err.Error(), "SYNTAX ERROR in <repl> at 1:8")
}
