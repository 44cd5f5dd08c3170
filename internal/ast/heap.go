package ast

import "fmt"

// Heap owns every node of one document. Handles are never reused.
type Heap struct {
	nodes   *Arena[Node]
	nilNode NodeID
}

// NewHeap creates a heap whose first node is the .nil atom.
func NewHeap(capHint uint) *Heap {
	if capHint == 0 {
		capHint = 1 << 6
	}
	h := &Heap{nodes: NewArena[Node](capHint)}
	h.nilNode = h.NewAtom(AtomNil)
	return h
}

// RestoreHeap rebuilds a heap from nodes previously taken from Nodes.
// The first node must be the .nil atom.
func RestoreHeap(nodes []Node) (*Heap, error) {
	if len(nodes) == 0 || nodes[0].Kind != KindAtom || nodes[0].Atom != AtomNil {
		return nil, fmt.Errorf("ast: first node must be the %s atom", NameNil)
	}
	h := &Heap{nodes: NewArena[Node](uint(len(nodes)))}
	for _, n := range nodes {
		h.Insert(n)
	}
	h.nilNode = 1
	return h, nil
}

// Insert appends a node and returns its fresh handle.
func (h *Heap) Insert(n Node) NodeID {
	return NodeID(h.nodes.Allocate(n))
}

// Get returns the node for id. An unknown id is a programming error.
func (h *Heap) Get(id NodeID) *Node {
	n := h.nodes.Get(uint32(id))
	if n == nil {
		panic(fmt.Sprintf("ast: node %d out of range (heap has %d)", id, h.nodes.Len()))
	}
	return n
}

// Has reports whether id addresses a node.
func (h *Heap) Has(id NodeID) bool {
	return id.IsValid() && uint32(id) <= h.nodes.Len()
}

func (h *Heap) Len() int { return int(h.nodes.Len()) }

// Nil is the handle of the shared .nil atom node.
func (h *Heap) Nil() NodeID { return h.nilNode }

// Nodes exposes all nodes, index i holding NodeID(i+1). READONLY.
func (h *Heap) Nodes() []Node { return h.nodes.Slice() }

func (h *Heap) NewInt(v int64) NodeID     { return h.Insert(Node{Kind: KindInt, Int: v}) }
func (h *Heap) NewFloat(v float64) NodeID { return h.Insert(Node{Kind: KindFloat, Float: v}) }
func (h *Heap) NewChar(v byte) NodeID     { return h.Insert(Node{Kind: KindChar, Char: v}) }
func (h *Heap) NewString(v string) NodeID { return h.Insert(Node{Kind: KindString, Str: v}) }
func (h *Heap) NewAtom(v AtomID) NodeID   { return h.Insert(Node{Kind: KindAtom, Atom: v}) }

func (h *Heap) NewMap(fields *Fields) NodeID {
	if fields == nil {
		fields = NewFields()
	}
	return h.Insert(Node{Kind: KindMap, Fields: fields})
}

// NewListCell builds {.head = head, .tail = .nil}.
func (h *Heap) NewListCell(head NodeID) NodeID {
	f := NewFields()
	f.Set(AtomHead, head)
	f.Set(AtomTail, h.nilNode)
	return h.NewMap(f)
}

// LinkTail points cell's .tail at next. This is the only mutation the heap
// allows after insertion; lists are threaded left to right while parsing.
func (h *Heap) LinkTail(cell, next NodeID) {
	n := h.Get(cell)
	if n.Kind != KindMap {
		panic(fmt.Sprintf("ast: LinkTail on %s node %d", n.Kind, cell))
	}
	n.Fields.Set(AtomTail, next)
}

// IsListCell reports whether id is a map with exactly .head and .tail.
func (h *Heap) IsListCell(id NodeID) bool {
	n := h.Get(id)
	if n.Kind != KindMap || n.Fields.Len() != 2 {
		return false
	}
	_, okHead := n.Fields.Get(AtomHead)
	_, okTail := n.Fields.Get(AtomTail)
	return okHead && okTail
}

// IsNil reports whether id is an Atom node holding .nil.
func (h *Heap) IsNil(id NodeID) bool {
	n := h.Get(id)
	return n.Kind == KindAtom && n.Atom == AtomNil
}
