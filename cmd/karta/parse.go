package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karta/internal/diagfmt"
	"karta/internal/driver"
	"karta/internal/observ"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.karta|->",
		Short: "Parse a Karta source file and print its tree",
		Long:  `Parse builds the node heap of a Karta source file and prints it as a tree`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	format, err := s.outputFormat(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	done := timer.Track("parse")
	result, err := driver.Parse(cmd.Context(), args[0], s.Options)
	done("")
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet)
	if result.Err != nil {
		return result.Err
	}

	doc := result.Doc
	defer s.printTimings(cmd.ErrOrStderr(), timer)
	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(cmd.OutOrStdout(), doc.Atoms(), doc.Heap(), doc.Root())
	case "json":
		return diagfmt.FormatTreeJSON(cmd.OutOrStdout(), doc.Atoms(), doc.Heap(), doc.Root())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
