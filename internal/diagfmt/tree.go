package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"karta/internal/ast"
)

// NodeOutput is the JSON form of one heap node and its children.
type NodeOutput struct {
	ID     ast.NodeID    `json:"id"`
	Kind   string        `json:"kind"`
	Value  any           `json:"value,omitempty"`
	Fields []FieldOutput `json:"fields,omitempty"`
}

type FieldOutput struct {
	Key   string     `json:"key"`
	Value NodeOutput `json:"value"`
}

// FormatTreePretty prints the node graph below root as an indented tree.
//
//	Map #8
//	├─ .a: Int(1) #3
//	└─ .b: Map #7
//	   └─ .x: Float(2.5) #6
func FormatTreePretty(w io.Writer, atoms *ast.Atoms, heap *ast.Heap, root ast.NodeID) error {
	fmt.Fprintf(w, "%s\n", treeLabel(atoms, heap, root))
	return formatTreeChildren(w, atoms, heap, root, "")
}

func formatTreeChildren(w io.Writer, atoms *ast.Atoms, heap *ast.Heap, id ast.NodeID, prefix string) error {
	n := heap.Get(id)
	if n.Kind != ast.KindMap {
		return nil
	}
	keys := n.Fields.Keys()
	for i, key := range keys {
		child, _ := n.Fields.Get(key)
		branch, next := "├─ ", "│  "
		if i == len(keys)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, atoms.Name(key), treeLabel(atoms, heap, child)); err != nil {
			return err
		}
		if err := formatTreeChildren(w, atoms, heap, child, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func treeLabel(atoms *ast.Atoms, heap *ast.Heap, id ast.NodeID) string {
	n := heap.Get(id)
	if n.Kind == ast.KindMap {
		return fmt.Sprintf("Map #%d", id)
	}
	return fmt.Sprintf("%s #%d", n.Describe(atoms), id)
}

// BuildTreeOutput converts the graph below root into NodeOutput values.
func BuildTreeOutput(atoms *ast.Atoms, heap *ast.Heap, root ast.NodeID) NodeOutput {
	n := heap.Get(root)
	out := NodeOutput{ID: root, Kind: n.Kind.String()}
	switch n.Kind {
	case ast.KindInt:
		out.Value = n.Int
	case ast.KindFloat:
		out.Value = n.Float
	case ast.KindChar:
		out.Value = string(rune(n.Char))
	case ast.KindString:
		out.Value = n.Str
	case ast.KindAtom:
		out.Value = atoms.Name(n.Atom)
	case ast.KindMap:
		out.Fields = make([]FieldOutput, 0, n.Fields.Len())
		for _, key := range n.Fields.Keys() {
			child, _ := n.Fields.Get(key)
			out.Fields = append(out.Fields, FieldOutput{
				Key:   atoms.Name(key),
				Value: BuildTreeOutput(atoms, heap, child),
			})
		}
	}
	return out
}

func FormatTreeJSON(w io.Writer, atoms *ast.Atoms, heap *ast.Heap, root ast.NodeID) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(atoms, heap, root))
}
