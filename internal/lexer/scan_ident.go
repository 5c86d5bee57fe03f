package lexer

import (
	"logref/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrLiteral сканирует идентификатор. Если идентификатор оказался
// префиксом литерала (r, b, br, c, cr перед кавычкой или '#'), сканирует литерал
// целиком. r#ident: сырой идентификатор, Text сохраняет префикс.
func (lx *Lexer) scanIdentOrLiteral() token.Token {
	start := lx.cursor.mark()

	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		return lx.scanPunct()
	}
	lx.scanIdentTail()

	sp := lx.cursor.spanFrom(start)
	word := string(lx.file.Content[sp.Start:sp.End])
	next := lx.cursor.peek()

	switch word {
	case "r", "br", "cr":
		if next == '"' || next == '#' {
			if next == '#' && word == "r" {
				// r#ident
				if b0, b1, ok := lx.cursor.peek2(); ok && b0 == '#' && isIdentStartByte(b1) {
					lx.cursor.bump()
					lx.scanIdentTail()
					return lx.tokenFrom(token.Ident, start)
				}
			}
			return lx.scanRawString(start)
		}
	case "b", "c":
		if next == '"' {
			return lx.scanString(start)
		}
		if next == '\'' && word == "b" {
			return lx.scanQuote(start)
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: word}
}

// scanIdentTail съедает символы продолжения идентификатора.
func (lx *Lexer) scanIdentTail() {
	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		return
	}
	lx.bumpRune()
	for {
		b := lx.cursor.peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return
		}
		lx.bumpRune()
	}
}

// scanNumber сканирует числовой литерал грубо: цифры, буквы суффиксов,
// '_' и точку, если за ней идёт цифра. Значение не интерпретируется.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.mark()
	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		if isIdentContinueByte(b) {
			lx.cursor.bump()
			continue
		}
		if b == '.' {
			if _, b1, ok := lx.cursor.peek2(); ok && isDec(b1) {
				lx.cursor.bump()
				continue
			}
		}
		break
	}
	return lx.tokenFrom(token.Number, start)
}
