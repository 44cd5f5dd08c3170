package ast

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Atoms interns atom text into small integer handles in first-seen order.
type Atoms struct {
	byID  []string          // id -> text
	index map[string]AtomID // text -> id
}

// NewAtoms returns a table with .nil, .t, .head and .tail pre-registered.
func NewAtoms() *Atoms {
	a := &Atoms{
		byID:  make([]string, 0, 16),
		index: make(map[string]AtomID, 16),
	}
	for _, name := range []string{NameNil, NameT, NameHead, NameTail} {
		a.Intern(name)
	}
	return a
}

// Intern returns the handle for text, registering it on first sight.
func (a *Atoms) Intern(text string) AtomID {
	if id, ok := a.index[text]; ok {
		return id
	}

	// own copy so the table does not pin the source buffer
	cpy := string([]byte(text))
	n, err := safecast.Conv[uint32](len(a.byID))
	if err != nil {
		panic(fmt.Errorf("atom table overflow: %w", err))
	}
	id := AtomID(n)
	a.byID = append(a.byID, cpy)
	a.index[cpy] = id
	return id
}

// Lookup finds an already interned atom without registering it.
func (a *Atoms) Lookup(text string) (AtomID, bool) {
	id, ok := a.index[text]
	return id, ok
}

// Name returns the text of id. It panics on an unknown handle.
func (a *Atoms) Name(id AtomID) string {
	if !a.Has(id) {
		panic(fmt.Sprintf("invalid atom id %d", id))
	}
	return a.byID[id]
}

func (a *Atoms) Has(id AtomID) bool {
	return int(id) < len(a.byID)
}

func (a *Atoms) Len() int {
	return len(a.byID)
}

// Names returns a copy of all atom texts indexed by handle.
func (a *Atoms) Names() []string {
	return slices.Clone(a.byID)
}
