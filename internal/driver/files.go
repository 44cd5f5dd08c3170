package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the suffix of Karta sources.
const DefaultExtension = ".karta"

// ListFiles returns every file under dir ending in ext, sorted.
func ListFiles(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandPaths replaces every directory in args with the sources below it.
// Plain files are kept even without the extension; missing paths are kept so
// that Check reports them.
func ExpandPaths(args []string, ext string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := ListFiles(arg, ext)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
