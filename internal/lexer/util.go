package lexer

import (
	"unicode"
)

func isDecRune(r rune) bool { return r >= '0' && r <= '9' }

// isAtomRune reports whether r may continue an atom after its leading '.'.
func isAtomRune(r rune) bool {
	switch r {
	case '_', '-', '?':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool { return unicode.IsSpace(r) }
