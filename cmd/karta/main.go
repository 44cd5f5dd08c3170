package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"karta/internal/prof"
	"karta/internal/version"
)

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var (
		cleanup func()
		session *prof.Session
	)
	root := &cobra.Command{
		Use:           "karta",
		Short:         "Karta data language front-end",
		Long:          `Karta tokenizes, parses, checks, queries and exports Karta documents`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if session, err = startProfiling(cmd); err != nil {
				return err
			}
			cleanup, err = setupTracing(cmd)
			return err
		},
	}
	cobra.OnFinalize(func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
		if session != nil {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "profile: %v\n", err)
			}
			session = nil
		}
	})

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newQueryCmd(),
		newCheckCmd(),
		newExportCmd(),
		newCompileCmd(),
		newCleanCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (- for stderr, *.ndjson for NDJSON)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go execution trace to file")
	pf.String("config", "", "path to karta.toml (default: search upward from the working directory)")

	// Настройки парсера
	pf.Bool("strict", false, "treat unknown field names as missing instead of ignoring the lookup")
	pf.Bool("require-eof", false, "reject input with tokens after the root value")
	pf.Uint("max-depth", 0, "maximum nesting of maps and lists (0 = unlimited)")
	pf.Bool("nfc", false, "normalize sources to Unicode NFC before tokenizing")
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	cfg := prof.Config{}
	cfg.CPU, _ = pf.GetString("cpuprofile")
	cfg.Mem, _ = pf.GetString("memprofile")
	cfg.Trace, _ = pf.GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}
