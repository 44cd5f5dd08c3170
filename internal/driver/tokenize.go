package driver

import (
	"context"

	"karta/internal/diag"
	"karta/internal/lexer"
	"karta/internal/source"
	"karta/internal/token"
	"karta/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Err     error // tokenization failure, also reported to Bag
}

// Tokenize loads path and scans it. The returned error is for I/O only.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "tokenize", trace.CurrentSpan(ctx))
	defer span.End("")

	fs := source.NewFileSet()
	file, err := loadFile(fs, path, opts)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens, err := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	span.WithExtra("tokens", itoa(len(tokens)))
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Err:     err,
	}, nil
}
