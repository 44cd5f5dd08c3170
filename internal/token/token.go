package token

import (
	"karta/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a scalar literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Integer, Float, Char, String, Atom:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is one of the single-byte punctuation kinds.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case LeftBrace, RightBrace, LeftSquare, RightSquare, Comma, Assign:
		return true
	default:
		return false
	}
}
