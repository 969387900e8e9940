// interpreter_exec.go: PRIVATE: the tree-walking evaluator.
//   - Dispatches AST nodes: literals, symbol lookup, special forms, application.
//   - Implements closure calls (fresh frame per call, exact arity).
//   - Bubbles *Error values unchanged; formatting happens at the public surface.
//
// Evaluation is plain Go recursion: nesting depth of the program (including
// recursive closure calls) maps 1:1 onto Go stack depth. There is no tail-call
// elimination.
//
// Special forms are recognised by the literal text of the head symbol, before
// any lookup, so they cannot be shadowed by bindings:
//
//	(define name expr)            (define (name p...) body)
//	(lambda (p...) body)          (if cond then else)
//	(and e...)                    (or e...)
//	(del name)                    (let ((n v)...) body)
//	(set! name expr)
package scheme

////////////////////////////////////////////////////////////////////////////////
//                                 DISPATCH
////////////////////////////////////////////////////////////////////////////////

func evaluate(node any, env *Frame) (Value, error) {
	switch n := node.(type) {
	case int64:
		return Int(n), nil
	case float64:
		return Float(n), nil
	case string:
		return env.Get(n)
	case S:
		return evalForm(n, env)
	default:
		return Value{}, evalErrorf("cannot evaluate node of type %T", node)
	}
}

func evalForm(form S, env *Frame) (Value, error) {
	if len(form) == 0 {
		return Value{}, evalErrorf("cannot evaluate an empty form ()")
	}

	if head, ok := form[0].(string); ok {
		switch head {
		case "define":
			return evalDefine(form, env)
		case "lambda":
			return evalLambda(form, env)
		case "if":
			return evalIf(form, env)
		case "and":
			return evalAnd(form, env)
		case "or":
			return evalOr(form, env)
		case "del":
			return evalDel(form, env)
		case "let":
			return evalLet(form, env)
		case "set!":
			return evalSet(form, env)
		}
	}

	return evalApplication(form, env)
}

////////////////////////////////////////////////////////////////////////////////
//                               APPLICATION
////////////////////////////////////////////////////////////////////////////////

func evalApplication(form S, env *Frame) (Value, error) {
	vals := make([]Value, 0, len(form))
	for _, sub := range form {
		v, err := evaluate(sub, env)
		if err != nil {
			return Value{}, err
		}
		vals = append(vals, v)
	}

	proc, ok := AsProcedure(vals[0])
	if !ok {
		return Value{}, evalErrorf("%s is not callable", describe(vals[0]))
	}
	return proc.Call(vals[1:])
}

func callClosure(c *Closure, args []Value) (Value, error) {
	if len(args) != len(c.Params) {
		return Value{}, evalErrorf("procedure expects %d argument(s), got %d", len(c.Params), len(args))
	}
	callEnv := NewFrame(c.Env)
	for i, p := range c.Params {
		callEnv.Define(p, args[i])
	}
	return evaluate(c.Body, callEnv)
}

////////////////////////////////////////////////////////////////////////////////
//                              SPECIAL FORMS
////////////////////////////////////////////////////////////////////////////////

// (define name expr) | (define (name p...) body)
func evalDefine(form S, env *Frame) (Value, error) {
	if len(form) != 3 {
		return Value{}, evalErrorf("define expects 2 operands, got %d", len(form)-1)
	}

	// Function shorthand: rewrite to (define name (lambda (p...) body)).
	if sig, ok := form[1].(S); ok {
		if len(sig) == 0 {
			return Value{}, evalErrorf("define: missing procedure name")
		}
		lambda := S{"lambda", append(S{}, sig[1:]...), form[2]}
		return evalDefine(S{"define", sig[0], lambda}, env)
	}

	name, ok := form[1].(string)
	if !ok {
		return Value{}, evalErrorf("define: name must be a symbol, got %v", FormatSExpr(form[1]))
	}
	v, err := evaluate(form[2], env)
	if err != nil {
		return Value{}, err
	}
	env.Define(name, v)
	return v, nil
}

// (lambda (p...) body)
func evalLambda(form S, env *Frame) (Value, error) {
	if len(form) != 3 {
		return Value{}, evalErrorf("lambda expects a parameter list and a body, got %d operand(s)", len(form)-1)
	}
	params, err := symbolList(form[1], "lambda parameters")
	if err != nil {
		return Value{}, err
	}
	return ClosureVal(&Closure{Env: env, Params: params, Body: form[2]}), nil
}

// (if cond then else). Only exactly #t selects the then branch.
func evalIf(form S, env *Frame) (Value, error) {
	if len(form) != 4 {
		return Value{}, evalErrorf("if expects 3 operands, got %d", len(form)-1)
	}
	cond, err := evaluate(form[1], env)
	if err != nil {
		return Value{}, err
	}
	if IsTrue(cond) {
		return evaluate(form[2], env)
	}
	return evaluate(form[3], env)
}

func evalAnd(form S, env *Frame) (Value, error) {
	for _, sub := range form[1:] {
		v, err := evaluate(sub, env)
		if err != nil {
			return Value{}, err
		}
		if !Truthy(v) {
			return False, nil
		}
	}
	return True, nil
}

func evalOr(form S, env *Frame) (Value, error) {
	for _, sub := range form[1:] {
		v, err := evaluate(sub, env)
		if err != nil {
			return Value{}, err
		}
		if Truthy(v) {
			return True, nil
		}
	}
	return False, nil
}

// (del name): the name must be visible at all (lookup first), and then bound
// in this very frame.
func evalDel(form S, env *Frame) (Value, error) {
	if len(form) != 2 {
		return Value{}, evalErrorf("del expects 1 operand, got %d", len(form)-1)
	}
	if _, err := evaluate(form[1], env); err != nil {
		return Value{}, err
	}
	name, ok := form[1].(string)
	if !ok {
		return Value{}, evalErrorf("del: operand must be a symbol, got %v", FormatSExpr(form[1]))
	}
	return env.Delete(name)
}

// (let ((n1 v1) (n2 v2) ...) body). All values are evaluated in the new
// frame, so later bindings see earlier ones.
func evalLet(form S, env *Frame) (Value, error) {
	if len(form) != 3 {
		return Value{}, evalErrorf("let expects a binding list and a body, got %d operand(s)", len(form)-1)
	}
	bindings, ok := form[1].(S)
	if !ok {
		return Value{}, evalErrorf("let: bindings must be a list, got %v", FormatSExpr(form[1]))
	}

	letEnv := NewFrame(env)
	for _, b := range bindings {
		pair, ok := b.(S)
		if !ok || len(pair) != 2 {
			return Value{}, evalErrorf("let: each binding must be (name value), got %v", FormatSExpr(b))
		}
		name, ok := pair[0].(string)
		if !ok {
			return Value{}, evalErrorf("let: binding name must be a symbol, got %v", FormatSExpr(pair[0]))
		}
		v, err := evaluate(pair[1], letEnv)
		if err != nil {
			return Value{}, err
		}
		letEnv.Define(name, v)
	}
	return evaluate(form[2], letEnv)
}

// (set! name expr)
func evalSet(form S, env *Frame) (Value, error) {
	if len(form) != 3 {
		return Value{}, evalErrorf("set! expects 2 operands, got %d", len(form)-1)
	}
	name, ok := form[1].(string)
	if !ok {
		return Value{}, evalErrorf("set!: name must be a symbol, got %v", FormatSExpr(form[1]))
	}
	if _, err := env.Get(name); err != nil {
		return Value{}, err
	}
	v, err := evaluate(form[2], env)
	if err != nil {
		return Value{}, err
	}
	if err := env.Set(name, v); err != nil {
		return Value{}, err
	}
	return v, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 HELPERS
////////////////////////////////////////////////////////////////////////////////

func symbolList(node any, what string) ([]string, error) {
	list, ok := node.(S)
	if !ok {
		return nil, evalErrorf("%s must be a list, got %v", what, FormatSExpr(node))
	}
	out := make([]string, 0, len(list))
	for _, p := range list {
		name, ok := p.(string)
		if !ok {
			return nil, evalErrorf("%s must be symbols, got %v", what, FormatSExpr(p))
		}
		out = append(out, name)
	}
	return out, nil
}

// describe renders a value for "not callable"-style messages.
func describe(v Value) string {
	return typeName(v) + " " + FormatValue(v)
}
