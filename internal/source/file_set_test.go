package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.karta", []byte("1"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("test.karta", []byte("2"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.karta")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	if got := string(fs.Get(id1).Content); got != "1" {
		t.Errorf("old version must stay reachable, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.karta", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("p.karta", []byte("ab\ncd\n\nα.x"))
	file := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 2}}, // after the two-byte α
		{10, LineCol{4, 3}},
		{100, LineCol{4, 4}}, // clamped to end of file
	}
	for _, tt := range tests {
		if got := file.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.karta", []byte("α\n"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 2})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("unexpected start %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("unexpected end %+v", end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.karta", []byte("first\nsecond\n\nlast")))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, ""},
		{4, "last"},
		{5, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		opts  LoadOptions
		want  string
		flags FileFlags
	}{
		{"plain gets newline", []byte("1"), LoadOptions{}, "1\n", FileAddedNewline},
		{"verbatim", []byte("\xEF\xBB\xBF\"a\r\nb\""), LoadOptions{Verbatim: true}, "\xEF\xBB\xBF\"a\r\nb\"", 0},
		{"verbatim nfc", []byte("\"e\u0301\r\n\""), LoadOptions{Verbatim: true, NormalizeNFC: true}, "\"\u00e9\r\n\"", FileNormalizedNFC},
		{"crlf", []byte("a\r\nb\r\n"), LoadOptions{}, "a\nb\n", FileNormalizedCRLF},
		{"bom", []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}, LoadOptions{}, "x\n", FileHadBOM},
		{"nfc", []byte("\"e\u0301\"\n"), LoadOptions{NormalizeNFC: true}, "\"\u00e9\"\n", FileNormalizedNFC},
		{"nfc off", []byte("\"e\u0301\"\n"), LoadOptions{}, "\"e\u0301\"\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := Normalize(tt.in, tt.opts)
			if string(got) != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if flags != tt.flags {
				t.Errorf("flags = %b, want %b", flags, tt.flags)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.karta")
	if err := os.WriteFile(path, []byte("{ .a = 1 }\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "{ .a = 1 }\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag")
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.karta"), LoadOptions{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
