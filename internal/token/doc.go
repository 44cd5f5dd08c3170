// Package token defines lexical token kinds for Karta sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Punctuation tokens are always a single byte wide.
//   - Kind names double as the vocabulary of parse errors
//     ("expected RightBrace, got Atom"), so they must stay stable.
package token
