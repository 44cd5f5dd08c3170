package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// LeftBrace opens a map.
	LeftBrace // {
	// RightBrace closes a map.
	RightBrace // }
	// LeftSquare opens a list.
	LeftSquare // [
	// RightSquare closes a list.
	RightSquare // ]
	// Atom is an interned symbol such as .name.
	Atom
	// Integer is a run of decimal digits.
	Integer
	// Float is digits with a single '.' inside.
	Float
	// Char is a single byte between single quotes.
	Char
	// String is any bytes between double quotes.
	String
	// Identifier is any other symbol run. The grammar has no production for it.
	Identifier
	// Comma separates map pairs and list elements.
	Comma // ,
	// Assign binds a map key to its value.
	Assign // =
	// EndOfFile marks the end of the source input.
	EndOfFile
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	LeftBrace:   "LeftBrace",
	RightBrace:  "RightBrace",
	LeftSquare:  "LeftSquare",
	RightSquare: "RightSquare",
	Atom:        "Atom",
	Integer:     "Integer",
	Float:       "Float",
	Char:        "Char",
	String:      "String",
	Identifier:  "Identifier",
	Comma:       "Comma",
	Assign:      "Assign",
	EndOfFile:   "EndOfFile",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindOf classifies raw token text. Exact punctuation wins, then the first
// byte decides between Atom, Integer and Identifier. Empty text is Invalid.
func KindOf(text string) Kind {
	switch text {
	case "":
		return Invalid
	case "{":
		return LeftBrace
	case "}":
		return RightBrace
	case "[":
		return LeftSquare
	case "]":
		return RightSquare
	case ",":
		return Comma
	case "=":
		return Assign
	}
	switch c := text[0]; {
	case c == '.':
		return Atom
	case c >= '0' && c <= '9':
		return Integer
	default:
		return Identifier
	}
}
