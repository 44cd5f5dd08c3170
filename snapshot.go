package karta

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"karta/internal/ast"
)

// Current schema version - increment when the snapshot layout changes
const snapshotSchema uint16 = 1

// ErrCorruptSnapshot wraps every validation failure of UnmarshalDocument.
var ErrCorruptSnapshot = errors.New("corrupt karta snapshot")

type snapshotNode struct {
	Kind   uint8
	Int    int64
	Float  float64
	Char   byte
	Str    string
	Atom   uint32
	Keys   []uint32 // map keys in insertion order
	Values []uint32
}

type snapshot struct {
	Schema uint16
	Atoms  []string
	Nodes  []snapshotNode
	Root   uint32
	Strict bool
}

// MarshalBinary encodes the document as msgpack. Source positions are not kept.
func (d *Document) MarshalBinary() ([]byte, error) {
	snap := snapshot{
		Schema: snapshotSchema,
		Atoms:  d.atoms.Names(),
		Nodes:  make([]snapshotNode, 0, d.heap.Len()),
		Root:   uint32(d.root),
		Strict: d.strict,
	}
	for _, n := range d.heap.Nodes() {
		sn := snapshotNode{
			Kind:  uint8(n.Kind),
			Int:   n.Int,
			Float: n.Float,
			Char:  n.Char,
			Str:   n.Str,
			Atom:  uint32(n.Atom),
		}
		if n.Kind == ast.KindMap {
			keys := n.Fields.Keys()
			sn.Keys = make([]uint32, 0, len(keys))
			sn.Values = make([]uint32, 0, len(keys))
			for _, k := range keys {
				v, _ := n.Fields.Get(k)
				sn.Keys = append(sn.Keys, uint32(k))
				sn.Values = append(sn.Values, uint32(v))
			}
		}
		snap.Nodes = append(snap.Nodes, sn)
	}
	return msgpack.Marshal(&snap)
}

// UnmarshalBinary replaces d with the decoded snapshot.
func (d *Document) UnmarshalBinary(data []byte) error {
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// UnmarshalDocument decodes a snapshot written by MarshalBinary and checks
// every handle in it.
func UnmarshalDocument(data []byte) (*Document, error) {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrCorruptSnapshot, snap.Schema, snapshotSchema)
	}

	atoms, err := restoreAtoms(snap.Atoms)
	if err != nil {
		return nil, err
	}
	nodes, err := restoreNodes(snap.Nodes, atoms)
	if err != nil {
		return nil, err
	}
	heap, err := ast.RestoreHeap(nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	root := ast.NodeID(snap.Root)
	if !heap.Has(root) {
		return nil, fmt.Errorf("%w: root %d out of range", ErrCorruptSnapshot, root)
	}
	if err := checkAcyclic(heap); err != nil {
		return nil, err
	}
	return &Document{atoms: atoms, heap: heap, root: root, strict: snap.Strict}, nil
}

func restoreAtoms(names []string) (*ast.Atoms, error) {
	atoms := ast.NewAtoms()
	builtin := atoms.Names()
	if len(names) < len(builtin) {
		return nil, fmt.Errorf("%w: %d atoms, need at least %d", ErrCorruptSnapshot, len(names), len(builtin))
	}
	for i, name := range builtin {
		if names[i] != name {
			return nil, fmt.Errorf("%w: atom %d is %q, want %q", ErrCorruptSnapshot, i, names[i], name)
		}
	}
	for i, name := range names[len(builtin):] {
		want := len(builtin) + i
		if len(name) < 2 || name[0] != '.' {
			return nil, fmt.Errorf("%w: bad atom %q", ErrCorruptSnapshot, name)
		}
		if id := atoms.Intern(name); int(id) != want {
			return nil, fmt.Errorf("%w: duplicate atom %q", ErrCorruptSnapshot, name)
		}
	}
	return atoms, nil
}

func restoreNodes(in []snapshotNode, atoms *ast.Atoms) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(in))
	inRange := func(v uint32) bool { return v != 0 && int(v) <= len(in) }
	for i, sn := range in {
		id := i + 1
		n := ast.Node{Kind: ast.Kind(sn.Kind)}
		switch n.Kind {
		case ast.KindInt:
			n.Int = sn.Int
		case ast.KindFloat:
			n.Float = sn.Float
		case ast.KindChar:
			n.Char = sn.Char
		case ast.KindString:
			n.Str = sn.Str
		case ast.KindAtom:
			n.Atom = ast.AtomID(sn.Atom)
			if !atoms.Has(n.Atom) {
				return nil, fmt.Errorf("%w: node %d: atom %d out of range", ErrCorruptSnapshot, id, sn.Atom)
			}
		case ast.KindMap:
			if len(sn.Keys) != len(sn.Values) {
				return nil, fmt.Errorf("%w: node %d: %d keys, %d values", ErrCorruptSnapshot, id, len(sn.Keys), len(sn.Values))
			}
			n.Fields = ast.NewFields()
			for j, k := range sn.Keys {
				key, value := ast.AtomID(k), sn.Values[j]
				if !atoms.Has(key) {
					return nil, fmt.Errorf("%w: node %d: key atom %d out of range", ErrCorruptSnapshot, id, k)
				}
				if _, dup := n.Fields.Get(key); dup {
					return nil, fmt.Errorf("%w: node %d: duplicate key %s", ErrCorruptSnapshot, id, atoms.Name(key))
				}
				if !inRange(value) {
					return nil, fmt.Errorf("%w: node %d: value %d out of range", ErrCorruptSnapshot, id, value)
				}
				n.Fields.Set(key, ast.NodeID(value))
			}
		default:
			return nil, fmt.Errorf("%w: node %d: unknown kind %d", ErrCorruptSnapshot, id, sn.Kind)
		}
		out = append(out, n)
	}
	return out, nil
}

// checkAcyclic rejects map references that loop back on themselves; parsed
// documents are always trees over shared leaves.
func checkAcyclic(heap *ast.Heap) error {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, heap.Len()+1)
	type frame struct {
		id   ast.NodeID
		next int
	}
	for start := 1; start <= heap.Len(); start++ {
		if color[start] != white {
			continue
		}
		stack := []frame{{id: ast.NodeID(start)}}
		color[start] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			keys := heap.Get(top.id).Fields.Keys()
			if top.next == len(keys) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child, _ := heap.Get(top.id).Fields.Get(keys[top.next])
			top.next++
			switch color[child] {
			case grey:
				return fmt.Errorf("%w: node %d is its own descendant", ErrCorruptSnapshot, child)
			case white:
				color[child] = grey
				stack = append(stack, frame{id: child})
			}
		}
	}
	return nil
}
