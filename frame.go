package scheme

import "sort"

// Frame is a lexical environment: a table of bindings plus a parent link.
// Lookups walk parent-ward. The root (global) frame has no parent.
//
// Frames are shared by pointer. A closure keeps its defining frame alive for
// as long as the closure itself is reachable; parent links only ever point to
// ancestors, so no cycles form. A Frame is not safe for concurrent use.
type Frame struct {
	parent *Frame
	table  map[string]Value
}

// NewFrame creates an empty frame with the given parent (nil for a root).
func NewFrame(parent *Frame) *Frame {
	return &Frame{parent: parent, table: make(map[string]Value)}
}

// Parent returns the enclosing frame, or nil for a root frame.
func (f *Frame) Parent() *Frame { return f.parent }

// Define binds name to v in this frame, shadowing any outer binding.
func (f *Frame) Define(name string, v Value) {
	f.table[name] = v
}

// Get retrieves the nearest visible binding for name.
func (f *Frame) Get(name string) (Value, error) {
	for e := f; e != nil; e = e.parent {
		if v, ok := e.table[name]; ok {
			return v, nil
		}
	}
	return Value{}, nameErrorf("name %q is not defined", name)
}

// Set overwrites the nearest existing binding of name. It never creates a
// binding; if no frame in the chain binds name it returns a NameError.
func (f *Frame) Set(name string, v Value) error {
	for e := f; e != nil; e = e.parent {
		if _, ok := e.table[name]; ok {
			e.table[name] = v
			return nil
		}
	}
	return nameErrorf("cannot set! %q: name is not defined", name)
}

// Delete removes name from this frame only and returns the removed value.
// Inherited bindings are not touched; deleting one is a NameError.
func (f *Frame) Delete(name string) (Value, error) {
	v, ok := f.table[name]
	if !ok {
		return Value{}, nameErrorf("cannot del %q: not bound in the current frame", name)
	}
	delete(f.table, name)
	return v, nil
}

// Has reports whether name is bound in this frame (ignoring ancestors).
func (f *Frame) Has(name string) bool {
	_, ok := f.table[name]
	return ok
}

// Names lists this frame's own binding names in sorted order.
func (f *Frame) Names() []string {
	out := make([]string, 0, len(f.table))
	for k := range f.table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
