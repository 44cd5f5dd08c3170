package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"karta/internal/diag"
	"karta/internal/source"
)

func singleDiag(t *testing.T, path, content string, start, end uint32, msg string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: id, Start: start, End: end}, msg))
	return bag, fs
}

func TestPrettyLayout(t *testing.T) {
	bag, fs := singleDiag(t, "conf.karta", "{ .a = 1 .b = 2 }\n", 9, 11, "expected RightBrace, got Atom")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	want := "conf.karta:1:10: ERROR SYN2001: expected RightBrace, got Atom\n" +
		"   1 | { .a = 1 .b = 2 }\n" +
		"     |          ^~\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	// "日本" is four columns wide but two runes.
	content := "{ .k = \"日本\" x }\n"
	start := uint32(strings.Index(content, "x"))
	bag, fs := singleDiag(t, "wide.karta", content, start, start+1, "expected RightBrace, got Identifier")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	caret := strings.Index(lines[2], "^")
	// gutter "     | " + "{ .k = \"" (8) + 4 columns + "\" " (2)
	if want := len("     | ") + 8 + 4 + 2; caret != want {
		t.Errorf("caret at column %d, want %d\n%s", caret, want, buf.String())
	}
}

func TestPrettyNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.karta", []byte("[1, 2\n"))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 6, End: 6}, "expected RightSquare, got EndOfFile").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "list opened here")
	bag.Add(d)
	bag.Add(diag.NewError(diag.SynBadMapKey, source.Span{File: id, Start: 1, End: 2}, "second"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, Max: 1})
	out := buf.String()
	if !strings.Contains(out, "note: a.karta:1:1: list opened here") {
		t.Errorf("note missing:\n%s", out)
	}
	if strings.Contains(out, "second") {
		t.Errorf("Max not applied:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := singleDiag(t, "c.karta", "x\n", 0, 1, "boom")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape codes")
	}
}

func TestPathModes(t *testing.T) {
	long := "/very/long/absolute/path/to/some/nested/directory/file.karta"
	tests := []struct {
		name string
		path string
		mode PathMode
		base string
		want string
	}{
		{"auto short", "test.karta", PathModeAuto, "", "test.karta"},
		{"auto long", long, PathModeAuto, "", "file.karta"},
		{"basename", "/home/user/project/src/test.karta", PathModeBasename, "", "test.karta"},
		{"relative", "/home/user/project/src/test.karta", PathModeRelative, "/home/user/project", "src/test.karta"},
		{"relative outside", "/etc/test.karta", PathModeRelative, "/home/user/project", "/etc/test.karta"},
		{"absolute", "/home/user/test.karta", PathModeAbsolute, "", "/home/user/test.karta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
				t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := singleDiag(t, "conf.karta", "{ .a = 1 .b = 2 }\n", 9, 11, "expected RightBrace, got Atom")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("unexpected count: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2001" || d.Severity != "ERROR" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 10 || d.Location.EndCol != 12 {
		t.Errorf("unexpected location %+v", d.Location)
	}
}
