// Package export converts a parsed document into plain data and renders it
// as YAML or JSON.
//
// Chains of .head/.tail cells ending in .nil are folded into sequences
// unless Options.RawLists is set. The empty list is the .nil atom itself and
// is rendered like any other .nil.
package export

import (
	"karta/internal/ast"
)

// Source is a parsed document.
type Source interface {
	Atoms() *ast.Atoms
	Heap() *ast.Heap
	Root() ast.NodeID
}

type Options struct {
	// NilAsNull renders the .nil atom as null instead of ".nil".
	NilAsNull bool
	// RawLists keeps list cells as {.head, .tail} maps.
	RawLists bool
}

// Field is one entry of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a map that keeps its source order.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// ToValue converts the document into int64, float64, string, nil, Object and
// []any values. Chars become one-byte strings and atoms their text.
func ToValue(src Source, opts Options) any {
	c := converter{atoms: src.Atoms(), heap: src.Heap(), opts: opts}
	return c.value(src.Root())
}

type converter struct {
	atoms *ast.Atoms
	heap  *ast.Heap
	opts  Options
}

func (c converter) value(id ast.NodeID) any {
	n := c.heap.Get(id)
	switch n.Kind {
	case ast.KindInt:
		return n.Int
	case ast.KindFloat:
		return n.Float
	case ast.KindChar:
		return string([]byte{n.Char})
	case ast.KindString:
		return n.Str
	case ast.KindAtom:
		if n.Atom == ast.AtomNil && c.opts.NilAsNull {
			return nil
		}
		return c.atoms.Name(n.Atom)
	case ast.KindMap:
		if items, ok := c.list(id); ok {
			out := make([]any, 0, len(items))
			for _, item := range items {
				out = append(out, c.value(item))
			}
			return out
		}
		obj := make(Object, 0, n.Fields.Len())
		for _, key := range n.Fields.Keys() {
			child, _ := n.Fields.Get(key)
			obj = append(obj, Field{Key: c.atoms.Name(key), Value: c.value(child)})
		}
		return obj
	}
	return nil
}

// list returns the heads of a well formed cell chain starting at id.
func (c converter) list(id ast.NodeID) ([]ast.NodeID, bool) {
	if c.opts.RawLists {
		return nil, false
	}
	var heads []ast.NodeID
	for !c.heap.IsNil(id) {
		if !c.heap.IsListCell(id) {
			return nil, false
		}
		fields := c.heap.Get(id).Fields
		head, _ := fields.Get(ast.AtomHead)
		heads = append(heads, head)
		id, _ = fields.Get(ast.AtomTail)
	}
	return heads, true
}
