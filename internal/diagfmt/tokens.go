package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"karta/internal/source"
	"karta/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Class string      `json:"class"`
	Text  string      `json:"text,omitempty"`
	Span  source.Span `json:"span"`
	Line  uint32      `json:"line"`
	Col   uint32      `json:"col"`
}

// tokenClass groups kinds into literal, punct, eof and other.
func tokenClass(tok token.Token) string {
	switch {
	case tok.IsLiteral():
		return "literal"
	case tok.IsPunct():
		return "punct"
	case tok.Kind == token.EndOfFile:
		return "eof"
	default:
		return "other"
	}
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-11s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if tok.Kind == token.EndOfFile {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Class: tokenClass(tok),
			Text:  tok.Text,
			Span:  tok.Span,
			Line:  pos.Line,
			Col:   pos.Col,
		})
		if tok.Kind == token.EndOfFile {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
