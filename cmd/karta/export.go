package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"karta/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [flags] <file.karta|file.kbin|->",
		Short: "Convert a document to YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().String("format", "yaml", "output format (yaml|json)")
	cmd.Flags().Bool("nil-as-null", false, "render .nil as null")
	cmd.Flags().Bool("raw-lists", false, "keep list cells as {.head, .tail} maps")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	nilAsNull, _ := cmd.Flags().GetBool("nil-as-null")
	rawLists, _ := cmd.Flags().GetBool("raw-lists")
	outPath, _ := cmd.Flags().GetString("output")

	var write func(io.Writer) error
	opts := export.Options{NilAsNull: nilAsNull, RawLists: rawLists}
	doc, err := loadDocument(cmd, s, args[0])
	if err != nil {
		return err
	}
	switch format {
	case "yaml":
		write = func(w io.Writer) error { return export.WriteYAML(w, doc, opts) }
	case "json":
		write = func(w io.Writer) error { return export.WriteJSON(w, doc, opts) }
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if outPath == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if !s.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
	}
	return nil
}
