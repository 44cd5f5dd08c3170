package karta

import (
	"bytes"
	"fmt"

	"karta/internal/ast"
	"karta/internal/lexer"
	"karta/internal/parser"
	"karta/internal/source"
)

// Document is a parsed Karta source. It owns its atom table and node heap
// and is safe for concurrent readers.
type Document struct {
	file   *source.File
	atoms  *ast.Atoms
	heap   *ast.Heap
	root   ast.NodeID
	strict bool
}

// Parse builds a document from in-memory source. The bytes are used as
// given; only WithNormalizeNFC rewrites them.
func Parse(src []byte, opts ...Option) (*Document, error) {
	cfg := buildConfig(opts)
	content, flags := source.Normalize(bytes.Clone(src), source.LoadOptions{
		NormalizeNFC: cfg.normalizeNFC,
		Verbatim:     true,
	})
	fs := source.NewFileSet()
	file := fs.Get(fs.Add("<input>", content, flags|source.FileVirtual))
	return parseFile(file, cfg)
}

func ParseString(src string, opts ...Option) (*Document, error) {
	return Parse([]byte(src), opts...)
}

// ParseFile loads path, appending a final newline when it is missing, and
// parses it. File content is normalized like every loaded source: a BOM is
// dropped and CRLF line endings become LF, string literals included.
func ParseFile(path string, opts ...Option) (*Document, error) {
	cfg := buildConfig(opts)
	fs := source.NewFileSet()
	id, err := fs.Load(path, source.LoadOptions{NormalizeNFC: cfg.normalizeNFC})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parseFile(fs.Get(id), cfg)
}

// ParseSourceFile parses a file already registered in a FileSet. Diagnostics
// sent to the reporter carry spans into that set.
func ParseSourceFile(file *source.File, opts ...Option) (*Document, error) {
	return parseFile(file, buildConfig(opts))
}

func parseFile(file *source.File, cfg config) (*Document, error) {
	tokens, err := lexer.Tokenize(file, lexer.Options{Reporter: cfg.reporter})
	if err != nil {
		return nil, err
	}
	atoms := ast.NewAtoms()
	heap := ast.NewHeap(uint(len(tokens)))
	root, err := parser.Parse(file, tokens, atoms, heap, parser.Options{
		RequireEOF: cfg.requireEOF,
		MaxDepth:   cfg.maxDepth,
		Reporter:   cfg.reporter,
	})
	if err != nil {
		return nil, err
	}
	return &Document{
		file:   file,
		atoms:  atoms,
		heap:   heap,
		root:   root,
		strict: cfg.strictFields,
	}, nil
}

// Root is the handle of the top-level expression.
func (d *Document) Root() ast.NodeID { return d.root }

// Atoms exposes the atom table. READONLY.
func (d *Document) Atoms() *ast.Atoms { return d.atoms }

// Heap exposes the node heap. READONLY.
func (d *Document) Heap() *ast.Heap { return d.heap }

// Len is the number of nodes, including the shared .nil node.
func (d *Document) Len() int { return d.heap.Len() }

// File is the source the document was parsed from; nil for documents
// restored from a snapshot.
func (d *Document) File() *source.File { return d.file }

// Query starts a cursor at the root.
func (d *Document) Query() Query {
	return Query{doc: d, cur: d.root}
}
