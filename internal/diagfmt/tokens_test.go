package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"karta/internal/lexer"
	"karta/internal/source"
)

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.karta", []byte("{.a=1}")))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), pretty.String())
	}
	if want := `  2: Atom        ".a" at 1:2-1:4`; lines[1] != want {
		t.Errorf("line 2 = %q, want %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[5], "  6: EndOfFile") {
		t.Errorf("last line = %q", lines[5])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks, fs); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 6 || out[3].Kind != "Integer" || out[3].Text != "1" || out[3].Col != 5 {
		t.Errorf("unexpected tokens %+v", out)
	}
	wantClasses := []string{"punct", "literal", "punct", "literal", "punct", "eof"}
	for i, tok := range out {
		if tok.Class != wantClasses[i] {
			t.Errorf("token %d (%s) class = %q, want %q", i, tok.Kind, tok.Class, wantClasses[i])
		}
	}
}
