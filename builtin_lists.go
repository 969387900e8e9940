package scheme

// ---- pairs --------------------------------------------------------------

func registerPairBuiltins(f *Frame) {
	registerNative(f, "cons", func(args []Value) (Value, error) {
		if err := wantArgs("cons", args, 2); err != nil {
			return Value{}, err
		}
		return Cons(args[0], args[1]), nil
	})

	registerNative(f, "car", func(args []Value) (Value, error) {
		p, err := onePair("car", args)
		if err != nil {
			return Value{}, err
		}
		return p.First, nil
	})

	registerNative(f, "cdr", func(args []Value) (Value, error) {
		p, err := onePair("cdr", args)
		if err != nil {
			return Value{}, err
		}
		return p.Rest, nil
	})
}

func onePair(name string, args []Value) (*Pair, error) {
	if len(args) != 1 || args[0].Tag != VTPair {
		if len(args) == 1 {
			return nil, evalErrorf("%s expects a pair, got %s", name, describe(args[0]))
		}
		return nil, evalErrorf("%s expects 1 argument, got %d", name, len(args))
	}
	return args[0].Data.(*Pair), nil
}

// ---- lists --------------------------------------------------------------
//
// Every walker below iterates along the cdr chain; none recurses, so list
// length is not bounded by the Go stack. Cyclic lists are not supported and
// make the walkers loop forever.

func registerListBuiltins(f *Frame) {
	registerNative(f, "list", func(args []Value) (Value, error) {
		return List(args...), nil
	})

	registerNative(f, "list?", func(args []Value) (Value, error) {
		if err := wantArgs("list?", args, 1); err != nil {
			return Value{}, err
		}
		return Bool(IsProperList(args[0])), nil
	})

	registerNative(f, "length", func(args []Value) (Value, error) {
		if err := wantArgs("length", args, 1); err != nil {
			return Value{}, err
		}
		xs, ok := listElems(args[0])
		if !ok {
			return Value{}, evalErrorf("length expects a list, got %s", describe(args[0]))
		}
		return Int(int64(len(xs))), nil
	})

	// (list-ref lst i): the i-th element of a proper list, or the car of a
	// bare pair when i is 0.
	registerNative(f, "list-ref", func(args []Value) (Value, error) {
		if err := wantArgs("list-ref", args, 2); err != nil {
			return Value{}, err
		}
		lst, idx := args[0], args[1]
		if idx.Tag != VTInt {
			return Value{}, evalErrorf("list-ref expects an integer index, got %s", describe(idx))
		}
		i := idx.Data.(int64)
		if xs, ok := listElems(lst); ok {
			if i >= 0 && i < int64(len(xs)) {
				return xs[i], nil
			}
			return Value{}, evalErrorf("list-ref index %d out of range for list of length %d", i, len(xs))
		}
		if lst.Tag == VTPair && i == 0 {
			return lst.Data.(*Pair).First, nil
		}
		return Value{}, evalErrorf("list-ref cannot index %s at %d", describe(lst), i)
	})

	// (append l1 l2 ...) copies every input; the result shares no pairs with
	// the arguments.
	registerNative(f, "append", func(args []Value) (Value, error) {
		var b listBuilder
		for _, a := range args {
			xs, ok := listElems(a)
			if !ok {
				return Value{}, evalErrorf("append expects lists, got %s", describe(a))
			}
			for _, x := range xs {
				b.push(x)
			}
		}
		return b.list(), nil
	})

	registerNative(f, "map", func(args []Value) (Value, error) {
		if err := wantArgs("map", args, 2); err != nil {
			return Value{}, err
		}
		fn, err := wantProcedure("map", args[0])
		if err != nil {
			return Value{}, err
		}
		xs, ok := listElems(args[1])
		if !ok {
			return Value{}, evalErrorf("map expects a list, got %s", describe(args[1]))
		}
		var b listBuilder
		for _, x := range xs {
			y, err := fn.Call([]Value{x})
			if err != nil {
				return Value{}, err
			}
			b.push(y)
		}
		return b.list(), nil
	})

	registerNative(f, "filter", func(args []Value) (Value, error) {
		if err := wantArgs("filter", args, 2); err != nil {
			return Value{}, err
		}
		pred, err := wantProcedure("filter", args[0])
		if err != nil {
			return Value{}, err
		}
		xs, ok := listElems(args[1])
		if !ok {
			return Value{}, evalErrorf("filter expects a list, got %s", describe(args[1]))
		}
		var b listBuilder
		for _, x := range xs {
			keep, err := pred.Call([]Value{x})
			if err != nil {
				return Value{}, err
			}
			if Truthy(keep) {
				b.push(x)
			}
		}
		return b.list(), nil
	})

	// (reduce f lst init): acc = init; acc = f(acc, x) for each x, front to back.
	registerNative(f, "reduce", func(args []Value) (Value, error) {
		if err := wantArgs("reduce", args, 3); err != nil {
			return Value{}, err
		}
		fn, err := wantProcedure("reduce", args[0])
		if err != nil {
			return Value{}, err
		}
		xs, ok := listElems(args[1])
		if !ok {
			return Value{}, evalErrorf("reduce expects a list, got %s", describe(args[1]))
		}
		acc := args[2]
		for _, x := range xs {
			acc, err = fn.Call([]Value{acc, x})
			if err != nil {
				return Value{}, err
			}
		}
		return acc, nil
	})
}

// IsProperList reports whether v is Nil or a chain of pairs ending in Nil.
func IsProperList(v Value) bool {
	for v.Tag == VTPair {
		v = v.Data.(*Pair).Rest
	}
	return v.Tag == VTNil
}

// listElems returns the elements of a proper list, or false if v is not one.
func listElems(v Value) ([]Value, bool) {
	var out []Value
	for v.Tag == VTPair {
		p := v.Data.(*Pair)
		out = append(out, p.First)
		v = p.Rest
	}
	return out, v.Tag == VTNil
}

// ListToSlice exposes listElems to hosts.
func ListToSlice(v Value) ([]Value, bool) { return listElems(v) }

// listBuilder appends to a fresh proper list by patching the tail pair.
type listBuilder struct {
	head Value
	tail *Pair
}

func (b *listBuilder) push(x Value) {
	cell := &Pair{First: x, Rest: Nil}
	if b.tail == nil {
		b.head = Value{Tag: VTPair, Data: cell}
	} else {
		b.tail.Rest = Value{Tag: VTPair, Data: cell}
	}
	b.tail = cell
}

func (b *listBuilder) list() Value {
	if b.tail == nil {
		return Nil
	}
	return b.head
}
