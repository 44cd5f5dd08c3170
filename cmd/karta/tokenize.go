package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karta/internal/diagfmt"
	"karta/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.karta|->",
		Short: "Tokenize a Karta source file",
		Long:  `Tokenize breaks a Karta source file down into its tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	format, err := s.outputFormat(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(cmd.Context(), args[0], s.Options)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet)
	if result.Err != nil {
		return result.Err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
