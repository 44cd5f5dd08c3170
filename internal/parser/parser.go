package parser

import (
	"karta/internal/ast"
	"karta/internal/diag"
	"karta/internal/source"
	"karta/internal/token"
)

type Options struct {
	// RequireEOF rejects tokens after the root expression. Off by default:
	// anything after the first complete expression is ignored.
	RequireEOF bool
	// MaxDepth bounds map/list nesting; 0 means unlimited.
	MaxDepth uint
	Reporter diag.Reporter
}

// Parser is the state for one token stream.
type Parser struct {
	file   *source.File
	tokens []token.Token
	pos    int
	atoms  *ast.Atoms
	heap   *ast.Heap
	opts   Options
	depth  uint
}

// Parse builds the document rooted at the first expression of tokens.
// On error nothing useful is left behind: callers must drop atoms and heap.
func Parse(file *source.File, tokens []token.Token, atoms *ast.Atoms, heap *ast.Heap, opts Options) (ast.NodeID, error) {
	p := &Parser{
		file:   file,
		tokens: tokens,
		atoms:  atoms,
		heap:   heap,
		opts:   opts,
	}
	root, err := p.parseExpression()
	if err != nil {
		return ast.NoNodeID, err
	}
	if p.opts.RequireEOF {
		if _, err := p.expect(token.EndOfFile, diag.SynTrailingTokens); err != nil {
			return ast.NoNodeID, err
		}
	}
	return root, nil
}
