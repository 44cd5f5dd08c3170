package ast

import "fmt"

// Kind tags the payload of a Node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindChar
	KindString
	KindAtom
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindAtom:
		return "Atom"
	case KindMap:
		return "Map"
	}
	return "Invalid"
}

// Node is one parsed value. Only the field matching Kind is meaningful.
type Node struct {
	Kind   Kind
	Int    int64
	Float  float64
	Char   byte
	Str    string
	Atom   AtomID
	Fields *Fields
}

// Describe renders the node the way query errors print it. Atoms are shown
// by name when atoms is non-nil.
func (n *Node) Describe(atoms *Atoms) string {
	switch n.Kind {
	case KindInt:
		return fmt.Sprintf("Int(%d)", n.Int)
	case KindFloat:
		return fmt.Sprintf("Float(%g)", n.Float)
	case KindChar:
		return fmt.Sprintf("Char(%d)", n.Char)
	case KindString:
		return fmt.Sprintf("String(%q)", n.Str)
	case KindAtom:
		if atoms != nil && atoms.Has(n.Atom) {
			return fmt.Sprintf("Atom(%s)", atoms.Name(n.Atom))
		}
		return fmt.Sprintf("Atom(%d)", n.Atom)
	case KindMap:
		return fmt.Sprintf("Map(%d fields)", n.Fields.Len())
	}
	return "Invalid"
}

// Fields maps atom keys to node handles. Keys are unique; re-setting a key
// replaces its value but keeps its original position in Keys.
type Fields struct {
	keys  []AtomID
	index map[AtomID]NodeID
}

func NewFields() *Fields {
	return &Fields{index: make(map[AtomID]NodeID, 2)}
}

// Set stores value under key; the last write wins.
func (f *Fields) Set(key AtomID, value NodeID) {
	if _, ok := f.index[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.index[key] = value
}

func (f *Fields) Get(key AtomID) (NodeID, bool) {
	if f == nil {
		return NoNodeID, false
	}
	v, ok := f.index[key]
	return v, ok
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns keys in first-insertion order. READONLY.
func (f *Fields) Keys() []AtomID {
	if f == nil {
		return nil
	}
	return f.keys
}
