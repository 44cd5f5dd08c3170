package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileAddedNewline
	FileNormalizedNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in runes
}

// LoadOptions controls how Load normalizes file content.
type LoadOptions struct {
	// NormalizeNFC converts content to Unicode normalization form C.
	NormalizeNFC bool
	// Verbatim keeps the bytes as given: no BOM strip, no CRLF folding and
	// no final newline. NormalizeNFC still applies.
	Verbatim bool
}
