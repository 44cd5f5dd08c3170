package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"karta"
	"karta/internal/ast"
	"karta/internal/export"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] <file.karta|file.kbin|-> <path>",
		Short: "Look up a value by field path",
		Long: `Query walks a dotted field path such as .server.port from the root map and
prints the value found there. A field missing from a map yields .nil.

A field name that appears nowhere in the document is skipped, so the
enclosing value is printed instead. Pass --strict or set strict_fields
in karta.toml to get .nil for such names too.`,
		Args: cobra.ExactArgs(2),
		RunE: runQuery,
	}
	cmd.Flags().String("as", "auto", "conversion (auto|int|float|string|char|atom|bool|list|json)")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	as, err := cmd.Flags().GetString("as")
	if err != nil {
		return fmt.Errorf("failed to get as flag: %w", err)
	}

	doc, err := loadDocument(cmd, s, args[0])
	if err != nil {
		return err
	}
	q := doc.Query().Path(args[1])
	if err := q.Err(); err != nil {
		return err
	}
	return printQuery(cmd.OutOrStdout(), doc, q, as)
}

func printQuery(w io.Writer, doc *karta.Document, q karta.Query, as string) error {
	var (
		out string
		err error
	)
	switch as {
	case "auto":
		return printAuto(w, doc, q)
	case "int":
		var v int64
		v, err = q.AsInt()
		out = strconv.FormatInt(v, 10)
	case "float":
		var v float64
		v, err = q.AsFloat()
		out = strconv.FormatFloat(v, 'g', -1, 64)
	case "string":
		out, err = q.AsString()
	case "char":
		var c byte
		c, err = q.AsChar()
		out = string([]byte{c})
	case "atom":
		out, err = q.AsAtom()
	case "bool":
		var b bool
		b, err = q.Truthy()
		out = strconv.FormatBool(b)
	case "list":
		items, err := q.Items()
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := printAuto(w, doc, item); err != nil {
				return err
			}
		}
		return nil
	case "json":
		id, err := q.Handle()
		if err != nil {
			return err
		}
		return export.WriteJSON(w, subtree{Document: doc, root: id}, export.Options{})
	default:
		return fmt.Errorf("unknown conversion: %s", as)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// printAuto prints scalars as text and maps as JSON.
func printAuto(w io.Writer, doc *karta.Document, q karta.Query) error {
	switch q.Kind() {
	case ast.KindInt:
		return printQuery(w, doc, q, "int")
	case ast.KindFloat:
		return printQuery(w, doc, q, "float")
	case ast.KindChar:
		return printQuery(w, doc, q, "char")
	case ast.KindString:
		return printQuery(w, doc, q, "string")
	case ast.KindAtom:
		return printQuery(w, doc, q, "atom")
	default:
		return printQuery(w, doc, q, "json")
	}
}
