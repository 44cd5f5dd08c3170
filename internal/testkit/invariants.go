// Package testkit checks structural invariants of tokenizer and parser
// output. Tests and fuzz harnesses call it after every successful run.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"karta/internal/ast"
	"karta/internal/source"
	"karta/internal/token"
)

// CheckTokenInvariants verifies a token stream produced for sf:
// 1) the stream ends with exactly one EndOfFile token
// 2) every span belongs to sf and lies within its content
// 3) spans do not overlap and appear in source order
// 4) only EndOfFile has an empty span
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d points to file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d span %v outside content of %d bytes", i, sp, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d span %v overlaps previous end %d", i, sp, prevEnd)
		}
		prevEnd = sp.End

		last := i == len(tokens)-1
		switch {
		case tok.Kind == token.EndOfFile && !last:
			return fmt.Errorf("EndOfFile at %d before end of stream", i)
		case tok.Kind != token.EndOfFile && last:
			return fmt.Errorf("stream ends with %s", tok.Kind)
		case tok.Kind != token.EndOfFile && sp.Empty():
			return fmt.Errorf("token %d (%s) has an empty span", i, tok.Kind)
		}
	}
	return nil
}

// CheckHeapInvariants verifies the graph built by the parser:
//  1. node 1 is the .nil atom
//  2. every atom payload and map key is interned
//  3. map values point at existing nodes inserted before the map, except the
//     .tail of a list cell which may link to a later cell
//  4. root exists
func CheckHeapInvariants(atoms *ast.Atoms, heap *ast.Heap, root ast.NodeID) error {
	if atoms == nil || heap == nil {
		return fmt.Errorf("nil atoms or heap")
	}
	if heap.Len() == 0 || !heap.IsNil(heap.Nil()) || heap.Nil() != 1 {
		return fmt.Errorf("node 1 is not the .nil atom")
	}
	if !heap.Has(root) {
		return fmt.Errorf("root %d out of range (len %d)", root, heap.Len())
	}

	for i := 1; i <= heap.Len(); i++ {
		id := ast.NodeID(i) // #nosec G115 -- bounded by heap.Len
		n := heap.Get(id)
		switch n.Kind {
		case ast.KindAtom:
			if !atoms.Has(n.Atom) {
				return fmt.Errorf("node %d holds unknown atom %d", id, n.Atom)
			}
		case ast.KindMap:
			cell := heap.IsListCell(id)
			for _, key := range n.Fields.Keys() {
				if !atoms.Has(key) {
					return fmt.Errorf("node %d has unknown key atom %d", id, key)
				}
				v, _ := n.Fields.Get(key)
				if !heap.Has(v) {
					return fmt.Errorf("node %d field %s points outside the heap: %d", id, atoms.Name(key), v)
				}
				if cell && key == ast.AtomTail && v > id {
					if !heap.IsListCell(v) {
						return fmt.Errorf("list cell %d links to non-cell %d", id, v)
					}
					continue
				}
				if v >= id {
					return fmt.Errorf("map %d field %s refers forward to %d", id, atoms.Name(key), v)
				}
			}
		case ast.KindInt, ast.KindFloat, ast.KindChar, ast.KindString:
		default:
			return fmt.Errorf("node %d has invalid kind %d", id, n.Kind)
		}
	}
	return nil
}
