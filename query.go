package karta

import (
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"

	"karta/internal/ast"
)

// QueryError is a failed access or conversion recorded by a Query.
type QueryError struct {
	Node ast.NodeID // node the failing call looked at
	Kind ast.Kind
	Msg  string
}

func (e *QueryError) Error() string { return e.Msg }

// Query is a cursor into a Document. Every method returns a new value; once
// a call fails the first error sticks and later calls pass it along.
type Query struct {
	doc *Document
	cur ast.NodeID
	err error
}

// Err returns the recorded error, if any.
func (q Query) Err() error { return q.err }

// Handle returns the node the cursor points at.
func (q Query) Handle() (ast.NodeID, error) {
	if q.err != nil {
		return ast.NoNodeID, q.err
	}
	return q.cur, nil
}

// Kind is the kind of the current node, or KindInvalid after an error.
func (q Query) Kind() ast.Kind {
	if q.err != nil {
		return ast.KindInvalid
	}
	return q.node().Kind
}

func (q Query) node() *ast.Node { return q.doc.heap.Get(q.cur) }

func (q Query) fail(format string, args ...any) Query {
	n := q.node()
	q.err = &QueryError{Node: q.cur, Kind: n.Kind, Msg: fmt.Sprintf(format, args...)}
	return q
}

// GetField moves to the value stored under the atom name in the current map.
// An absent key yields the .nil node. A name that occurs nowhere in the
// document leaves the cursor unchanged unless the document was parsed with
// WithStrictFields.
func (q Query) GetField(name string) Query {
	if q.err != nil {
		return q
	}
	atom, ok := q.doc.atoms.Lookup(name)
	if !ok && !q.doc.strict {
		return q
	}
	n := q.node()
	if n.Kind != ast.KindMap {
		return q.fail("cannot call `get` on %s type AST", n.Kind)
	}
	if !ok {
		q.cur = q.doc.heap.Nil()
		return q
	}
	if v, found := n.Fields.Get(atom); found {
		q.cur = v
	} else {
		q.cur = q.doc.heap.Nil()
	}
	return q
}

// Path applies GetField for each atom of a dotted path such as ".a.b".
// The empty path is the current node.
func (q Query) Path(path string) Query {
	if q.err != nil || path == "" {
		return q
	}
	if !strings.HasPrefix(path, ".") {
		return q.fail("invalid path %q", path)
	}
	for _, seg := range strings.Split(path[1:], ".") {
		if seg == "" {
			return q.fail("invalid path %q", path)
		}
		q = q.GetField("." + seg)
	}
	return q
}

// AsInt converts an Int, Float or Char node. Floats are truncated toward
// zero and clamp to the int64 range; NaN gives 0.
func (q Query) AsInt() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	n := q.node()
	switch n.Kind {
	case ast.KindInt:
		return n.Int, nil
	case ast.KindFloat:
		return saturateInt(n.Float), nil
	case ast.KindChar:
		return int64(n.Char), nil
	}
	return 0, q.fail("cannot convert %s to int", n.Kind).err
}

func saturateInt(f float64) int64 {
	if v, err := safecast.Truncate[int64](f); err == nil {
		return v
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f > 0:
		return math.MaxInt64
	default:
		return math.MinInt64
	}
}

// AsFloat converts an Int, Float or Char node.
func (q Query) AsFloat() (float64, error) {
	if q.err != nil {
		return 0, q.err
	}
	n := q.node()
	switch n.Kind {
	case ast.KindInt:
		return float64(n.Int), nil
	case ast.KindFloat:
		return n.Float, nil
	case ast.KindChar:
		return float64(n.Char), nil
	}
	return 0, q.fail("cannot convert %s to float", n.Kind).err
}

// AsString returns the text of a String node.
func (q Query) AsString() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	n := q.node()
	if n.Kind != ast.KindString {
		return "", q.fail("cannot convert %s to string", n.Kind).err
	}
	return n.Str, nil
}

// AsChar returns the byte of a Char node.
func (q Query) AsChar() (byte, error) {
	if q.err != nil {
		return 0, q.err
	}
	n := q.node()
	if n.Kind != ast.KindChar {
		return 0, q.fail("cannot convert %s to char", n.Kind).err
	}
	return n.Char, nil
}

// AsAtom returns the name of an Atom node, leading dot included.
func (q Query) AsAtom() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	n := q.node()
	if n.Kind != ast.KindAtom {
		return "", q.fail("cannot convert %s to atom", n.Kind).err
	}
	return q.doc.atoms.Name(n.Atom), nil
}

// Truthy is false only for the .nil atom.
func (q Query) Truthy() (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	n := q.node()
	if n.Kind == ast.KindAtom {
		return n.Atom != ast.AtomNil, nil
	}
	return true, nil
}

func (q Query) Falsey() (bool, error) {
	t, err := q.Truthy()
	if err != nil {
		return false, err
	}
	return !t, nil
}

// Items walks a .head/.tail chain and returns a cursor per element. The
// .nil node is the empty list.
func (q Query) Items() ([]Query, error) {
	if q.err != nil {
		return nil, q.err
	}
	heap := q.doc.heap
	var items []Query
	for cell := q.cur; !heap.IsNil(cell); {
		if !heap.IsListCell(cell) {
			at := q
			at.cur = cell
			return nil, at.fail("cannot convert %s to list", heap.Get(cell).Kind).err
		}
		fields := heap.Get(cell).Fields
		head, _ := fields.Get(ast.AtomHead)
		items = append(items, Query{doc: q.doc, cur: head})
		cell, _ = fields.Get(ast.AtomTail)
	}
	return items, nil
}

// IntAs is AsInt narrowed to T; values that do not fit are an error.
func IntAs[T safecast.Integer](q Query) (T, error) {
	v, err := q.AsInt()
	if err != nil {
		return 0, err
	}
	out, err := safecast.Conv[T](v)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %d to %T: %w", v, out, err)
	}
	return out, nil
}

// FloatAs is AsFloat converted to T; values T cannot represent exactly are
// an error.
func FloatAs[T safecast.Float](q Query) (T, error) {
	v, err := q.AsFloat()
	if err != nil {
		return 0, err
	}
	out, err := safecast.Convert[T](v)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %g to %T: %w", v, out, err)
	}
	return out, nil
}
