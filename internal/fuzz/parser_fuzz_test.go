package fuzztests

import (
	"reflect"
	"testing"
	"time"

	"karta"
	"karta/internal/ast"
	"karta/internal/diag"
	"karta/internal/export"
	"karta/internal/lexer"
	"karta/internal/parser"
	"karta/internal/source"
	"karta/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsHeap(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			checkParse(t, input)
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func checkParse(t *testing.T, input []byte) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.karta", input))

	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	tokens, err := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	if err != nil {
		return
	}

	atoms := ast.NewAtoms()
	heap := ast.NewHeap(uint(len(tokens)))
	root, err := parser.Parse(file, tokens, atoms, heap, parser.Options{Reporter: reporter, MaxDepth: 512})
	if (err != nil) != bag.HasErrors() {
		t.Errorf("parse error %v disagrees with %d diagnostics", err, bag.Len())
		return
	}
	if err != nil {
		return
	}
	if err := testkit.CheckHeapInvariants(atoms, heap, root); err != nil {
		t.Errorf("%v\ninput: %q", err, truncateForLog(input, 200))
	}
}

// FuzzSnapshotRoundTrip checks that a compiled snapshot reads back as the
// same data.
func FuzzSnapshotRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		doc, err := karta.Parse(clampInput(input), karta.WithMaxDepth(512))
		if err != nil {
			return
		}
		data, err := doc.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		back, err := karta.UnmarshalDocument(data)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		want := export.ToValue(doc, export.Options{RawLists: true})
		got := export.ToValue(back, export.Options{RawLists: true})
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("round trip changed the document:\n got %#v\nwant %#v", got, want)
		}
	})
}
