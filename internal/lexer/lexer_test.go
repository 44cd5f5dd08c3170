package lexer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"karta/internal/diag"
	"karta/internal/lexer"
	"karta/internal/source"
	"karta/internal/token"
)

// testReporter collects everything the tokenizer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func tokenize(t *testing.T, input string) ([]token.Token, *source.FileSet, *testReporter, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.karta", []byte(input)))
	reporter := &testReporter{}
	toks, err := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	return toks, fs, reporter, err
}

// render prints tokens as "Kind(text)" joined by spaces, EndOfFile last.
func render(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Text == "" {
			parts = append(parts, tok.Kind.String())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", tok.Kind, tok.Text))
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "adjacent punctuation",
			input: "{.a=1,.b=2}",
			want:  "LeftBrace({) Atom(.a) Assign(=) Integer(1) Comma(,) Atom(.b) Assign(=) Integer(2) RightBrace(}) EndOfFile",
		},
		{
			name:  "spaced map",
			input: "{ .a = 1, .b = 2.5, .c = \"hi\" }\n",
			want:  "LeftBrace({) Atom(.a) Assign(=) Integer(1) Comma(,) Atom(.b) Assign(=) Float(2.5) Comma(,) Atom(.c) Assign(=) String(\"hi\") RightBrace(}) EndOfFile",
		},
		{
			name:  "list",
			input: "[1,2, 3]",
			want:  "LeftSquare([) Integer(1) Comma(,) Integer(2) Comma(,) Integer(3) RightSquare(]) EndOfFile",
		},
		{
			name:  "float then atom",
			input: "1.2.3",
			want:  "Float(1.2) Atom(.3) EndOfFile",
		},
		{
			name:  "trailing dot float",
			input: "7.",
			want:  "Float(7.) EndOfFile",
		},
		{
			name:  "atom charset",
			input: ".is-ok? .snake_case .x1 .ключ",
			want:  "Atom(.is-ok?) Atom(.snake_case) Atom(.x1) Atom(.ключ) EndOfFile",
		},
		{
			name:  "atom ends on punctuation",
			input: ".a}",
			want:  "Atom(.a) RightBrace(}) EndOfFile",
		},
		{
			name:  "char and string keep quotes",
			input: "'x' \"a b; c\"",
			want:  "Char('x') String(\"a b; c\") EndOfFile",
		},
		{
			name:  "comments produce nothing",
			input: "; leading comment\n1 ; trailing\n; last line without newline",
			want:  "Integer(1) EndOfFile",
		},
		{
			name:  "identifier runs split per rune",
			input: "ab=",
			want:  "Identifier(a) Identifier(b) Assign(=) EndOfFile",
		},
		{
			name:  "integer stops at letter",
			input: "12ab",
			want:  "Integer(12) Identifier(a) Identifier(b) EndOfFile",
		},
		{
			name:  "empty input",
			input: "",
			want:  "EndOfFile",
		},
		{
			name:  "only whitespace",
			input: " \t\n\r\n",
			want:  "EndOfFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _, rep, err := tokenize(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := render(toks); got != tt.want {
				t.Errorf("tokens:\n got %s\nwant %s", got, tt.want)
			}
			if len(rep.diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", rep.diagnostics)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	toks, fs, _, err := tokenize(t, "{\n  .name = \"karta\",\n\t.n = 42\n}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		text      string
		line, col uint32
	}{
		{"{", 1, 1},
		{".name", 2, 3},
		{"=", 2, 9},
		{"\"karta\"", 2, 11},
		{",", 2, 18},
		{".n", 3, 2},
		{"=", 3, 5},
		{"42", 3, 7},
		{"}", 4, 1},
		{"", 5, 1},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %s", len(toks), len(want), render(toks))
	}
	for i, w := range want {
		start, _ := fs.Resolve(toks[i].Span)
		if toks[i].Text != w.text || start.Line != w.line || start.Col != w.col {
			t.Errorf("token %d = %q at %d:%d, want %q at %d:%d",
				i, toks[i].Text, start.Line, start.Col, w.text, w.line, w.col)
		}
	}
}

func TestTokenizeSpansMatchText(t *testing.T) {
	input := "{ .list = [1, 'c', \"s\", 3.25], .t = .t }"
	toks, _, _, err := tokenize(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v covers %q, token text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestTokenizeUnterminated(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
		code  diag.Code
	}{
		{"string", "{ .s = \"never closed }\n", "error: string goes to end of file", diag.LexUnterminatedString},
		{"char", "'", "error: char goes to end of file", diag.LexUnterminatedChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _, rep, err := tokenize(t, tt.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %s", render(toks))
			}
			if toks != nil {
				t.Errorf("no tokens must be returned on failure")
			}
			if err.Error() != tt.msg {
				t.Errorf("error = %q, want %q", err.Error(), tt.msg)
			}
			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) || lexErr.Code != tt.code {
				t.Errorf("expected *lexer.Error with code %v, got %#v", tt.code, err)
			}
			if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != tt.code {
				t.Errorf("expected one %v diagnostic, got %v", tt.code, rep.diagnostics)
			}
		})
	}
}
