package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"karta/internal/diag"
	"karta/internal/diagfmt"
	"karta/internal/observ"
	"karta/internal/source"
)

// switchMode is the auto|on|off value of --color and --ui.
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

func readSwitch(name, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid %s value %q (expected auto|on|off)", name, value)
	}
}

// enabled resolves auto by checking whether f is a terminal.
func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return isTerminal(f)
	}
}

// useColor decides colouring for output written to f.
func (s *settings) useColor(f *os.File) bool {
	mode, _ := readSwitch("color", s.Color)
	return mode.enabled(f)
}

// printDiagnostics renders bag on stderr, or nothing when it is empty.
func (s *settings) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     s.useColor(os.Stderr),
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		Max:       s.MaxDiagnostics,
	})
}

func (s *settings) warnf(w io.Writer, format string, args ...any) {
	if s.Quiet {
		return
	}
	c := color.New(color.FgYellow)
	if s.useColor(os.Stderr) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(w, "warning: "+format+"\n", args...)
}

func (s *settings) printTimings(w io.Writer, timer *observ.Timer) {
	if !s.Timings || timer == nil {
		return
	}
	fmt.Fprint(w, timer.Summary())
}
