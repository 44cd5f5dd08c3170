package parser

import (
	"fmt"

	"karta/internal/diag"
	"karta/internal/source"
)

// Error is a fatal parse failure located at the offending token.
type Error struct {
	Code diag.Code
	Span source.Span
	Pos  source.LineCol
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: %d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}
