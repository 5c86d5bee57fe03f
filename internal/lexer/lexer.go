package lexer

import (
	"logref/internal/source"
	"logref/internal/token"
)

// Lexer turns a source.File into a stream of significant tokens. It knows the
// host language's literal and comment syntax but nothing of its grammar.
type Lexer struct {
	file   *source.File
	cursor cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: newCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.eof() {
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		tok.Leading = lx.hold
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		// префиксы r"", b"", br"", c"" и r#ident разбирает scanIdentOrLiteral
		tok = lx.scanIdentOrLiteral()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString(lx.cursor.mark())

	case ch == '\'':
		tok = lx.scanQuote(lx.cursor.mark())

	default:
		tok = lx.scanPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Offset returns the byte offset the lexer will resume from.
func (lx *Lexer) Offset() uint32 {
	return lx.cursor.off
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.off, End: lx.cursor.off}
}

func (lx *Lexer) tokenFrom(kind token.Kind, m mark) token.Token {
	sp := lx.cursor.spanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
