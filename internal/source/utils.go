package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
)

// normalizeCRLF folds \r\n into \n. A lone \r is kept.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, []byte{'\n'}), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, uint32(off+i)) // #nosec G115 -- bounded by File.Len
		off += i + 1
	}
}

// lineOf returns the 0-based line holding off: the number of newlines before it.
func lineOf(lineIdx []uint32, off uint32) int {
	return sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
}

// normalizePath gives every file one spelling, with forward slashes.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
