package lexer

import (
	"karta/internal/diag"
	"karta/internal/source"
	"karta/internal/token"
)

type state uint8

const (
	stateNone state = iota
	stateWhitespace
	stateInteger
	stateFloat
	stateAtom
	stateChar
	stateString
	stateSymbol
	stateComment
)

// Error is a fatal tokenization failure. Span covers the unterminated literal.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return "error: " + e.Msg
}

// Tokenizer is a single-pass state machine over one file.
type Tokenizer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	state  state
	start  Mark // beginning of the pending token
	tokens []token.Token
}

func New(file *source.File, opts Options) *Tokenizer {
	return &Tokenizer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		tokens: make([]token.Token, 0, file.Len()/2+1),
	}
}

// Tokenize scans the whole file. The result always ends with EndOfFile.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	return New(file, opts).Run()
}

// Run drives the state machine until the input is exhausted.
func (tz *Tokenizer) Run() ([]token.Token, error) {
	for !tz.cursor.EOF() {
		r, size := tz.cursor.PeekRune()
		tz.step(r, size)
	}
	if err := tz.flush(); err != nil {
		tz.report(err.Code, err.Span, err.Msg)
		return nil, err
	}
	end := tz.cursor.Mark()
	tz.tokens = append(tz.tokens, token.Token{
		Kind: token.EndOfFile,
		Span: tz.cursor.SpanFrom(end),
	})
	return tz.tokens, nil
}

// step consumes r or emits the pending token and leaves r for the next round.
func (tz *Tokenizer) step(r rune, size int) {
	switch tz.state {
	case stateNone:
		tz.start = tz.cursor.Mark()
		switch {
		case isSpace(r):
			tz.advance(stateWhitespace)
		case isDecRune(r):
			tz.advance(stateInteger)
		case r == '.':
			tz.advance(stateAtom)
		case r == '\'':
			tz.advance(stateChar)
		case r == '"':
			tz.advance(stateString)
		case r == ';':
			tz.advance(stateComment)
		default:
			tz.advance(stateSymbol)
		}

	case stateWhitespace:
		if !isSpace(r) {
			tz.state = stateNone
			return
		}
		tz.advance(stateWhitespace)

	case stateInteger:
		switch {
		case r == '.':
			tz.advance(stateFloat)
		case !isDecRune(r):
			tz.emit(token.Integer)
		default:
			tz.advance(stateInteger)
		}

	case stateFloat:
		if !isDecRune(r) {
			tz.emit(token.Float)
			return
		}
		tz.advance(stateFloat)

	case stateAtom:
		if !isAtomRune(r) {
			tz.emit(token.Atom)
			return
		}
		tz.advance(stateAtom)

	case stateChar:
		tz.advance(stateChar)
		if r == '\'' {
			tz.emit(token.Char)
		}

	case stateString:
		tz.advance(stateString)
		if r == '"' {
			tz.emit(token.String)
		}

	case stateSymbol:
		// One rune of lookahead: stop before the run would turn into an
		// Identifier so punctuation stays one byte wide.
		run := tz.cursor.TextFrom(tz.start)
		next := string(tz.file.Content[tz.cursor.Off : int(tz.cursor.Off)+size])
		if token.KindOf(run+next) == token.Identifier {
			tz.emit(token.KindOf(run))
			return
		}
		tz.advance(stateSymbol)

	case stateComment:
		if r == '\n' {
			tz.state = stateNone
			return
		}
		tz.advance(stateComment)
	}
}

// flush handles end of input for the pending state.
func (tz *Tokenizer) flush() *Error {
	switch tz.state {
	case stateInteger:
		tz.emit(token.Integer)
	case stateFloat:
		tz.emit(token.Float)
	case stateAtom:
		tz.emit(token.Atom)
	case stateSymbol:
		tz.emit(token.KindOf(tz.cursor.TextFrom(tz.start)))
	case stateChar:
		return &Error{Code: diag.LexUnterminatedChar, Span: tz.cursor.SpanFrom(tz.start), Msg: "char goes to end of file"}
	case stateString:
		return &Error{Code: diag.LexUnterminatedString, Span: tz.cursor.SpanFrom(tz.start), Msg: "string goes to end of file"}
	}
	tz.state = stateNone
	return nil
}

func (tz *Tokenizer) advance(next state) {
	tz.cursor.BumpRune()
	tz.state = next
}

func (tz *Tokenizer) emit(kind token.Kind) {
	tz.tokens = append(tz.tokens, token.Token{
		Kind: kind,
		Span: tz.cursor.SpanFrom(tz.start),
		Text: tz.cursor.TextFrom(tz.start),
	})
	tz.start = tz.cursor.Mark()
	tz.state = stateNone
}
