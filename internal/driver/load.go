package driver

import (
	"fmt"
	"io"
	"os"

	"karta/internal/diag"
	"karta/internal/source"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// loadFile adds path to fs; "-" reads standard input. A path already loaded
// from disk into fs is reused.
func loadFile(fs *source.FileSet, path string, opts Options) (*source.File, error) {
	if path == StdinPath {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		content, flags := source.Normalize(content, opts.loadOptions())
		return fs.Get(fs.Add("<stdin>", content, flags|source.FileVirtual)), nil
	}
	if id, ok := fs.GetLatest(path); ok {
		if f := fs.Get(id); f.Flags&source.FileVirtual == 0 {
			return f, nil
		}
	}
	id, err := fs.Load(path, opts.loadOptions())
	if err != nil {
		return nil, err
	}
	return fs.Get(id), nil
}

// loadFailure registers an empty placeholder for path so the I/O error can
// be reported like any other diagnostic.
func loadFailure(fs *source.FileSet, bag *diag.Bag, path string, err error) source.FileID {
	id := fs.AddVirtual(path, nil)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
	return id
}
