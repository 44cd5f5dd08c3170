package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"karta"
	"karta/internal/ast"
	"karta/internal/driver"
	"karta/internal/trace"
)

// SnapshotExtension marks files written by `karta compile`.
const SnapshotExtension = ".kbin"

// loadDocument parses a source file or decodes a compiled snapshot.
// Diagnostics of a failed parse are printed before the error is returned.
func loadDocument(cmd *cobra.Command, s *settings, path string) (*karta.Document, error) {
	if strings.HasSuffix(path, SnapshotExtension) {
		span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopePhase, "decode", trace.CurrentSpan(cmd.Context()))
		defer span.End("")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := karta.UnmarshalDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return doc, nil
	}

	result, err := driver.Parse(cmd.Context(), path, s.Options)
	if err != nil {
		return nil, err
	}
	s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet)
	if result.Err != nil {
		return nil, result.Err
	}
	return result.Doc, nil
}

// subtree exposes a node of a document as a document of its own.
type subtree struct {
	*karta.Document
	root ast.NodeID
}

func (t subtree) Root() ast.NodeID { return t.root }
