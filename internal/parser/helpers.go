package parser

import (
	"fmt"

	"karta/internal/diag"
	"karta/internal/token"
)

// peek returns the next unconsumed token; past the end it keeps returning
// the final EndOfFile.
func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		if n := len(p.tokens); n > 0 {
			return p.tokens[n-1]
		}
		return token.Token{Kind: token.EndOfFile}
	}
	return p.tokens[p.pos]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// accept consumes the next token if it is of kind k.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.pos >= len(p.tokens) || !p.at(k) {
		return token.Token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

// expect is accept that fails with "expected <k>, got <kind>".
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, error) {
	if tok, ok := p.accept(k); ok {
		return tok, nil
	}
	got := p.peek()
	return token.Token{}, p.fail(code, got, fmt.Sprintf("expected %s, got %s", k, got.Kind))
}

// fail builds the error at tok and mirrors it to the reporter.
func (p *Parser) fail(code diag.Code, tok token.Token, msg string) error {
	err := &Error{
		Code: code,
		Span: tok.Span,
		Pos:  p.file.Position(tok.Span.Start),
		Msg:  msg,
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, tok.Span, msg, nil)
	}
	return err
}
