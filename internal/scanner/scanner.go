package scanner

import (
	"logref/internal/diag"
	"logref/internal/lexer"
	"logref/internal/source"
	"logref/internal/token"
)

// compactAfter bounds the consumed prefix kept in the token buffer.
const compactAfter = 1024

type Options struct {
	Reporter diag.Reporter // может быть nil
}

// Scanner produces Candidates lazily. It is restartable via Reset and not
// safe for concurrent use; each worker scans its own file.
type Scanner struct {
	file    *source.File
	macros  *MacroSet
	opts    Options
	lx      *lexer.Lexer
	buf     []token.Token
	pos     int
	done    bool
	faulted bool
}

type outcome uint8

const (
	noMatch outcome = iota
	matched
	faulted
)

func New(file *source.File, macros *MacroSet, opts Options) *Scanner {
	s := &Scanner{file: file, macros: macros, opts: opts}
	s.Reset()
	return s
}

// Reset rewinds the scanner to the start of the file.
func (s *Scanner) Reset() {
	s.lx = lexer.New(s.file, lexer.Options{Reporter: s.opts.Reporter})
	s.buf = s.buf[:0]
	s.pos = 0
	s.done = false
	s.faulted = false
}

// Faulted reports whether scanning stopped on a parse fault. Candidates
// returned before the fault are incomplete for the file and must not be used
// to patch it.
func (s *Scanner) Faulted() bool {
	return s.faulted
}

// Next returns the next candidate, or false once the file is exhausted or
// a parse fault stopped the scan.
func (s *Scanner) Next() (Candidate, bool) {
	for !s.done {
		s.compact()
		tok := s.peek(0)
		switch tok.Kind {
		case token.EOF:
			s.done = true
		case token.Invalid:
			// лексер уже сообщил о незакрытом литерале
			s.faulted = true
			s.done = true
		case token.Ident, token.ColonColon:
			mark := s.pos
			c, res := s.invocation()
			switch res {
			case matched:
				return c, true
			case faulted:
				s.done = true
			default:
				s.pos = mark
				s.fillerPath()
			}
		default:
			s.pos++ // filler
		}
	}
	return Candidate{}, false
}

// Collect scans the whole file from the start.
func Collect(file *source.File, macros *MacroSet, opts Options) (cands []Candidate, ok bool) {
	s := New(file, macros, opts)
	for {
		c, more := s.Next()
		if !more {
			break
		}
		cands = append(cands, c)
	}
	return cands, !s.Faulted()
}

// ===== token buffer =====

func (s *Scanner) peek(n int) token.Token {
	for len(s.buf) <= s.pos+n {
		s.buf = append(s.buf, s.lx.Next())
	}
	return s.buf[s.pos+n]
}

func (s *Scanner) compact() {
	if s.pos < compactAfter {
		return
	}
	n := copy(s.buf, s.buf[s.pos:])
	s.buf = s.buf[:n]
	s.pos = 0
}

func (s *Scanner) fault(code diag.Code, sp source.Span, msg string) outcome {
	if s.opts.Reporter != nil {
		diag.ReportWarning(s.opts.Reporter, code, sp, msg).Emit()
	}
	s.faulted = true
	return faulted
}

// ===== productions =====

// fillerPath consumes an identifier path as one opaque unit, so that
// "foo::info" is never re-entered at "info".
func (s *Scanner) fillerPath() {
	if _, ok := s.path(); !ok {
		s.pos++
	}
}

// path = [ "::" ] ident { ( "::" | "." ) ident }
func (s *Scanner) path() ([]string, bool) {
	if s.peek(0).Kind == token.ColonColon {
		if s.peek(1).Kind != token.Ident {
			return nil, false
		}
		s.pos++
	}
	first := s.peek(0)
	if first.Kind != token.Ident {
		return nil, false
	}
	s.pos++
	segs := []string{first.Text}
	for {
		sep, next := s.peek(0), s.peek(1)
		if (sep.Kind != token.ColonColon && sep.Kind != token.Dot) || next.Kind != token.Ident {
			return segs, true
		}
		segs = append(segs, next.Text)
		s.pos += 2
	}
}

func (s *Scanner) invocation() (Candidate, outcome) {
	start := s.peek(0).Span.Start
	path, ok := s.path()
	if !ok || !s.macros.Match(path) {
		return Candidate{}, noMatch
	}
	if s.peek(0).Kind != token.Bang {
		return Candidate{}, noMatch
	}
	closeKind, ok := s.peek(1).Kind.Closing()
	if !ok {
		return Candidate{}, noMatch
	}
	s.pos += 2

	c := Candidate{Path: path}

	// target: "name",
	if s.peek(0).Is("target") && s.peek(1).Kind == token.Colon {
		lit := s.peek(2)
		if !lit.IsString() || s.peek(3).Kind != token.Comma {
			return Candidate{}, noMatch
		}
		sp := lit.Span
		c.Target = &sp
		s.pos += 4
	}

	if s.peek(0).Kind == token.Ident {
		if res := s.kvBlock(&c); res != matched {
			return Candidate{}, res
		}
	}

	lit := s.peek(0)
	if !lit.IsString() {
		return Candidate{}, noMatch
	}
	s.pos++
	c.Format = literalOf(lit)
	c.Pos = s.file.Position(c.Format.Content.Start)
	c.Span = source.Span{File: s.file.ID, Start: start, End: s.closeOf(closeKind, lit.Span.End)}
	return c, matched
}

// kvBlock = entry { "," entry } [ "," ] ";"
func (s *Scanner) kvBlock(c *Candidate) outcome {
	blockStart := s.peek(0).Span.Start
	for {
		key := s.peek(0)
		switch key.Kind {
		case token.Ident:
		case token.EOF:
			return s.unterminatedKV(blockStart, key)
		default:
			return noMatch
		}
		s.pos++
		kv := KV{Key: key.Text, KeySpan: key.Span}

		if s.peek(0).Kind == token.Colon {
			mod := s.peek(1)
			if mod.Kind != token.Ident && mod.Kind != token.Other {
				return noMatch
			}
			kv.Modifier = mod.Text
			s.pos += 2
		}
		if s.peek(0).Kind == token.Assign {
			s.pos++
			vs, res := s.value(blockStart)
			if res != matched {
				return res
			}
			kv.Value = &vs
			kv.ValueText = string(s.file.Content[vs.Start:vs.End])
		}
		c.KVs = append(c.KVs, kv)

		sep := s.peek(0)
		switch sep.Kind {
		case token.Comma:
			s.pos++
			if s.peek(0).Kind != token.Semicolon {
				continue
			}
			sep = s.peek(0)
		case token.Semicolon:
		case token.EOF, token.Invalid:
			return s.unterminatedKV(blockStart, sep)
		default:
			return noMatch
		}
		s.pos++ // ';'
		block := source.Span{File: s.file.ID, Start: blockStart, End: sep.Span.End}
		c.KVBlock = &block
		return matched
	}
}

// value skips one expression up to a top-level ',' ';' or closing delimiter.
func (s *Scanner) value(blockStart uint32) (source.Span, outcome) {
	start := s.peek(0).Span.Start
	end := start
	var stack []token.Kind
	for {
		t := s.peek(0)
		switch {
		case t.Kind == token.EOF || t.Kind == token.Invalid:
			return source.Span{}, s.unterminatedKV(blockStart, t)
		case len(stack) == 0 && (t.Kind == token.Comma || t.Kind == token.Semicolon || t.Kind.IsClosing()):
			if end == start {
				return source.Span{}, noMatch
			}
			return source.Span{File: s.file.ID, Start: start, End: end}, matched
		}
		if cl, ok := t.Kind.Closing(); ok {
			stack = append(stack, cl)
		} else if t.Kind.IsClosing() {
			if stack[len(stack)-1] != t.Kind {
				return source.Span{}, noMatch
			}
			stack = stack[:len(stack)-1]
		}
		end = t.Span.End
		s.pos++
	}
}

func (s *Scanner) unterminatedKV(blockStart uint32, at token.Token) outcome {
	if at.Kind == token.Invalid {
		// незакрытая строка внутри блока: лексер уже сообщил
		s.faulted = true
		return faulted
	}
	sp := source.Span{File: s.file.ID, Start: blockStart, End: at.Span.End}
	return s.fault(diag.ScanUnterminatedKVBlock, sp, "unterminated key-value block")
}

// closeOf looks ahead for the delimiter closing the invocation without
// consuming anything. When the file ends first, fallback is returned.
func (s *Scanner) closeOf(closeKind token.Kind, fallback uint32) uint32 {
	depth := 0
	for i := 0; ; i++ {
		t := s.peek(i)
		switch {
		case t.Kind == token.EOF || t.Kind == token.Invalid:
			return fallback
		case t.Kind == closeKind && depth == 0:
			return t.Span.End
		case t.Kind.IsClosing():
			if depth == 0 {
				return fallback
			}
			depth--
		default:
			if _, ok := t.Kind.Closing(); ok {
				depth++
			}
		}
	}
}
