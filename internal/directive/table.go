package directive

import (
	"golang.org/x/text/cases"

	"logref/internal/lexer"
	"logref/internal/source"
	"logref/internal/token"
)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
)

type lineInfo struct {
	kind lineKind
	dirs Set
}

// Table is the first pass: every line of a file classified as blank,
// comment-only or code, with the directives found on comment lines.
type Table struct {
	file  *source.File
	lines []lineInfo // index = 1-based line
}

// Collect classifies the lines of file. It lexes the file independently of
// the scanner, so the grammar stays unaware of directives.
func Collect(file *source.File) *Table {
	t := &Table{
		file:  file,
		lines: make([]lineInfo, file.LineCount()+2),
	}
	fold := cases.Fold()
	lx := lexer.New(file, lexer.Options{})
	for {
		tok := lx.Next()
		for _, tv := range tok.Leading {
			if !tv.IsComment() {
				continue
			}
			first, last := t.lineRange(tv.Span)
			for l := first; l <= last; l++ {
				if t.lines[l].kind == lineBlank {
					t.lines[l].kind = lineComment
				}
			}
			t.lines[first].dirs |= parseComment(fold, tv.Text)
		}
		if tok.Kind == token.EOF {
			break
		}
		first, last := t.lineRange(tok.Span)
		for l := first; l <= last; l++ {
			t.lines[l].kind = lineCode
		}
	}
	return t
}

func (t *Table) lineRange(sp source.Span) (first, last uint32) {
	first = t.file.LineOf(sp.Start)
	last = first
	if sp.End > sp.Start {
		last = t.file.LineOf(sp.End - 1)
	}
	return first, last
}

// Attach is the second pass for one statement starting at line: it unions
// the directives of the comment-only and blank lines directly above it and
// stops at the first line holding code.
func (t *Table) Attach(line uint32) Set {
	var set Set
	for l := int(line) - 1; l >= 1; l-- {
		info := t.lines[l]
		if info.kind == lineCode {
			break
		}
		set |= info.dirs
	}
	return set
}
