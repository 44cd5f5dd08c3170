package ast

type (
	// AtomID is the interned handle of an atom within one document.
	AtomID uint32
	// NodeID is a handle into the document's Heap.
	NodeID uint32
)

const NoNodeID NodeID = 0

// Built-in atoms, interned in this order by NewAtoms.
const (
	AtomNil AtomID = iota
	AtomT
	AtomHead
	AtomTail
)

const (
	NameNil  = ".nil"
	NameT    = ".t"
	NameHead = ".head"
	NameTail = ".tail"
)

func (id NodeID) IsValid() bool { return id != NoNodeID }
