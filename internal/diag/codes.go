package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo               Code = 1000
	LexUnterminatedChar   Code = 1001
	LexUnterminatedString Code = 1002

	// syntax
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynBadMapKey       Code = 2002
	SynIntegerRange    Code = 2003
	SynFloatRange      Code = 2004
	SynTooDeep         Code = 2005
	SynTrailingTokens  Code = 2006

	// io
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// snapshot
	SnapCorrupt Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnterminatedChar:   "Unterminated char literal",
	LexUnterminatedString: "Unterminated string literal",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynBadMapKey:          "Map key is not an atom",
	SynIntegerRange:       "Integer literal out of range",
	SynFloatRange:         "Float literal out of range",
	SynTooDeep:            "Nesting too deep",
	SynTrailingTokens:     "Tokens after the root expression",
	IOLoadFileError:       "Failed to load file",
	IOCacheError:          "Cache failure",
	SnapCorrupt:           "Corrupt snapshot",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SNP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
