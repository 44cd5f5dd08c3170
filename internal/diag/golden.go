package diag

import (
	"fmt"
	"strings"

	"karta/internal/source"
)

// FormatShort renders diagnostics one per line as
// "<SEV> <CODE> <path>:<line>:<col> <message>", in bag order.
func FormatShort(bag *Bag, fs *source.FileSet, includeNotes bool) string {
	if bag == nil || fs == nil || bag.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range bag.Items() {
		writeShort(&b, fs, d.Severity.String(), d.Code.ID(), d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeShort(&b, fs, "NOTE", d.Code.ID(), n.Span, n.Msg)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeShort(b *strings.Builder, fs *source.FileSet, sev, code string, sp source.Span, msg string) {
	path := "<unknown>"
	var pos source.LineCol
	if int(sp.File) < fs.Len() {
		path = fs.Get(sp.File).Path
		pos, _ = fs.Resolve(sp)
	}
	fmt.Fprintf(b, "%s %s %s:%d:%d %s\n", sev, code, path, pos.Line, pos.Col, msg)
}
