package parser

import (
	"fmt"
	"strconv"

	"karta/internal/ast"
	"karta/internal/diag"
	"karta/internal/token"
)

// parseExpression picks the production by the kind of the next token.
func (p *Parser) parseExpression() (ast.NodeID, error) {
	if p.opts.MaxDepth > 0 && p.depth >= p.opts.MaxDepth {
		return ast.NoNodeID, p.fail(diag.SynTooDeep, p.peek(), fmt.Sprintf("nesting deeper than %d", p.opts.MaxDepth))
	}
	p.depth++
	defer func() { p.depth-- }()

	if tok, ok := p.accept(token.Integer); ok {
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return ast.NoNodeID, p.fail(diag.SynIntegerRange, tok, "integer literal out of range")
		}
		return p.heap.NewInt(v), nil
	}
	if tok, ok := p.accept(token.Float); ok {
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return ast.NoNodeID, p.fail(diag.SynFloatRange, tok, "float literal out of range")
		}
		return p.heap.NewFloat(v), nil
	}
	if tok, ok := p.accept(token.Char); ok {
		return p.heap.NewChar(tok.Text[1]), nil
	}
	if tok, ok := p.accept(token.String); ok {
		// quotes are stripped verbatim, no escapes
		return p.heap.NewString(tok.Text[1 : len(tok.Text)-1]), nil
	}
	if tok, ok := p.accept(token.Atom); ok {
		return p.heap.NewAtom(p.atoms.Intern(tok.Text)), nil
	}
	if _, ok := p.accept(token.LeftBrace); ok {
		return p.parseMap()
	}
	if _, ok := p.accept(token.LeftSquare); ok {
		return p.parseList()
	}
	got := p.peek()
	return ast.NoNodeID, p.fail(diag.SynUnexpectedToken, got, fmt.Sprintf("expected an expression, got %s", got.Kind))
}

// parseMap parses `pair (',' pair)* '}'` after the opening brace.
func (p *Parser) parseMap() (ast.NodeID, error) {
	fields := ast.NewFields()
	for {
		keyTok := p.peek()
		keyID, err := p.parseExpression()
		if err != nil {
			return ast.NoNodeID, err
		}
		key := p.heap.Get(keyID)
		if key.Kind != ast.KindAtom {
			return ast.NoNodeID, p.fail(diag.SynBadMapKey, keyTok, fmt.Sprintf("expected Atom map key, got %s", key.Kind))
		}
		if _, err := p.expect(token.Assign, diag.SynUnexpectedToken); err != nil {
			return ast.NoNodeID, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return ast.NoNodeID, err
		}
		fields.Set(key.Atom, value)

		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(token.RightBrace, diag.SynUnexpectedToken); err != nil {
		return ast.NoNodeID, err
	}
	return p.heap.NewMap(fields), nil
}

// parseList parses `(expr (',' expr)*)? ']'` after the opening bracket.
// Cells are linked left to right; the first cell is the result.
func (p *Parser) parseList() (ast.NodeID, error) {
	if _, ok := p.accept(token.RightSquare); ok {
		return p.heap.Nil(), nil
	}

	head, err := p.parseExpression()
	if err != nil {
		return ast.NoNodeID, err
	}
	first := p.heap.NewListCell(head)
	cur := first
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		head, err := p.parseExpression()
		if err != nil {
			return ast.NoNodeID, err
		}
		cell := p.heap.NewListCell(head)
		p.heap.LinkTail(cur, cell)
		cur = cell
	}
	if _, err := p.expect(token.RightSquare, diag.SynUnexpectedToken); err != nil {
		return ast.NoNodeID, err
	}
	return first, nil
}
