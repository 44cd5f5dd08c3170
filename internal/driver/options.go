package driver

import (
	"karta"
	"karta/internal/diag"
	"karta/internal/source"
)

// Options are the parse settings shared by every driver entry point.
type Options struct {
	MaxDiagnostics int
	StrictFields   bool
	RequireEOF     bool
	MaxDepth       uint
	NormalizeNFC   bool
}

func (o Options) loadOptions() source.LoadOptions {
	return source.LoadOptions{NormalizeNFC: o.NormalizeNFC}
}

func (o Options) docOptions(bag *diag.Bag) []karta.Option {
	opts := []karta.Option{
		karta.WithMaxDepth(o.MaxDepth),
		karta.WithReporter(diag.BagReporter{Bag: bag}),
	}
	if o.StrictFields {
		opts = append(opts, karta.WithStrictFields())
	}
	if o.RequireEOF {
		opts = append(opts, karta.WithRequireEOF())
	}
	// NFC is applied when the file is loaded
	return opts
}
