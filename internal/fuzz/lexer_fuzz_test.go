package fuzztests

import (
	"strings"
	"testing"

	"karta/internal/diag"
	"karta/internal/lexer"
	"karta/internal/source"
	"karta/internal/testkit"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.karta", input))

		bag := diag.NewBag(64)
		tokens, err := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			if !strings.HasPrefix(err.Error(), "error: ") {
				t.Fatalf("unexpected error format %q", err)
			}
			if bag.Len() != 1 || !bag.HasErrors() {
				t.Fatalf("tokenize failed with %d diagnostics", bag.Len())
			}
			return
		}
		if bag.HasErrors() {
			t.Fatalf("tokenize succeeded but reported errors")
		}
		if err := testkit.CheckTokenInvariants(tokens, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}
