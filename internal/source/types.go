package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	// FileHadBOM marks content that starts with a UTF-8 byte order mark.
	// The mark is kept in Content so that rewrites preserve it.
	FileHadBOM
	// FileHasCRLF marks content with at least one CRLF line ending.
	FileHasCRLF
)

// File is an immutable snapshot of one source file.
//
// Content holds the exact bytes read from disk: nothing is normalized,
// because every byte that is not an inserted reference must be written back
// unchanged. All offsets in the module address this snapshot.
type File struct {
	ID          FileID
	Path        string
	Content     []byte
	LineIdx     []uint32 // offsets of '\n'
	Fingerprint Fingerprint
	Flags       FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in runes
}
