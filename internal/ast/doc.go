// Package ast holds the in-memory model of a parsed Karta document: the atom
// table and the append-only node heap.
//
// Lists have no node kind of their own. [a, b] is stored as two map cells
// {.head = a, .tail = <next>} whose last tail is the .nil atom node, so the
// generic field access used by queries is the only traversal mechanism.
package ast
