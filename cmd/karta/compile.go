package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"karta/internal/observ"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] <file.karta>",
		Short: "Write a binary snapshot of a parsed document",
		Long: `Compile parses a source file and writes its atom table and node heap as a
	snapshot that query and export read back without parsing.`,
		Args: cobra.ExactArgs(1),
		RunE: runCompile,
	}
	cmd.Flags().StringP("output", "o", "", "snapshot path (default: input with "+SnapshotExtension+")")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = snapshotPath(args[0])
	}

	timer := observ.NewTimer()
	defer s.printTimings(cmd.ErrOrStderr(), timer)

	done := timer.Track("parse")
	doc, err := loadDocument(cmd, s, args[0])
	done("")
	if err != nil {
		return err
	}

	done = timer.Track("encode")
	data, err := doc.MarshalBinary()
	done(fmt.Sprintf("%d bytes", len(data)))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	if !s.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d nodes, %d atoms)\n", outPath, doc.Len(), doc.Atoms().Len())
	}
	return nil
}

func snapshotPath(src string) string {
	if src == "-" {
		return "stdin" + SnapshotExtension
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + SnapshotExtension
}
