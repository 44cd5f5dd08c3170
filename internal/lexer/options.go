package lexer

import (
	"karta/internal/diag"
	"karta/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil
}

func (tz *Tokenizer) report(code diag.Code, sp source.Span, msg string) {
	if tz.opts.Reporter != nil {
		tz.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
