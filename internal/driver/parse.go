package driver

import (
	"context"
	"strconv"

	"karta"
	"karta/internal/diag"
	"karta/internal/source"
	"karta/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Doc     *karta.Document // nil when Err is set
	Bag     *diag.Bag
	Err     error
}

// Parse loads path and builds its document. The returned error is for I/O
// only; tokenize and parse failures land in Err and Bag.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", trace.CurrentSpan(ctx))
	defer span.End("")

	fs := source.NewFileSet()
	file, err := loadFile(fs, path, opts)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	doc, err := karta.ParseSourceFile(file, opts.docOptions(bag)...)
	if doc != nil {
		span.WithExtra("nodes", itoa(doc.Len()))
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Doc:     doc,
		Bag:     bag,
		Err:     err,
	}, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
