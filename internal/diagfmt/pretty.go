package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"karta/internal/diag"
	"karta/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	path   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.code, p.path, p.gutter, p.caret, p.note} {
		setColor(c, enabled)
	}
	for _, c := range p.sev {
		setColor(c, enabled)
	}
	return p
}

func setColor(c *color.Color, enabled bool) {
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		start, _ := fs.Resolve(d.Primary)
		file := fs.Get(d.Primary.File)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", formatPath(file.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message,
		)
		writeSnippet(w, fs, d.Primary, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			pos, _ := fs.Resolve(n.Span)
			nf := fs.Get(n.Span.File)
			fmt.Fprintf(w, "  %s %s: %s\n",
				pal.note.Sprint("note:"),
				formatPath(nf.Path, opts.PathMode, opts.BaseDir)+fmt.Sprintf(":%d:%d", pos.Line, pos.Col),
				n.Msg,
			)
		}
	}
}

// writeSnippet prints the first line of span with a caret underline.
// Underlines are clipped to the end of that line.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, pal palette) {
	file := fs.Get(span.File)
	if len(file.Content) == 0 {
		return
	}
	start, _ := fs.Resolve(span)
	line := file.GetLine(start.Line)

	// Col is in runes; convert back to a byte offset within line.
	prefix := line
	if col := int(start.Col) - 1; col < len([]rune(line)) {
		prefix = string([]rune(line)[:col])
	}
	rest := line[len(prefix):]
	spanLen := min(int(span.Len()), len(rest))
	underlined := rest[:spanLen]

	width := runewidth.StringWidth(underlined)
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	blank := strings.Repeat(" ", len(gutter)-2) + "| "
	fmt.Fprintf(w, "%s%s\n", pal.gutter.Sprint(gutter), line)
	fmt.Fprintf(w, "%s%s%s\n", pal.gutter.Sprint(blank), padding(prefix), pal.caret.Sprint(marker))
}

// padding keeps tabs so the caret lines up with what a terminal shows.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
