package lexer

import (
	"logref/internal/diag"
	"logref/internal/token"
)

// scanString сканирует "..." начиная с открывающей кавычки; start может
// указывать на префикс (b, c). Escape-последовательности не валидируются,
// только "\x" пропускается целиком, чтобы \" не закрывал литерал.
// Перевод строки внутри литерала допустим.
func (lx *Lexer) scanString(start mark) token.Token {
	lx.cursor.bump() // opening '"'
	for !lx.cursor.eof() {
		b := lx.cursor.bump()
		if b == '"' {
			return lx.tokenFrom(token.StringLit, start)
		}
		if b == '\\' && !lx.cursor.eof() {
			lx.cursor.bump()
		}
	}
	// EOF без закрывающей кавычки
	tok := lx.tokenFrom(token.Invalid, start)
	lx.errLex(diag.ScanUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanRawString сканирует r"..." / r#"..."# начиная с '#' или '"' после 'r'.
func (lx *Lexer) scanRawString(start mark) token.Token {
	hashes := 0
	for lx.cursor.eat('#') {
		hashes++
	}
	if !lx.cursor.eat('"') {
		// r### без кавычки: не литерал, отдаём как Other
		return lx.tokenFrom(token.Other, start)
	}
	for !lx.cursor.eof() {
		if lx.cursor.bump() != '"' {
			continue
		}
		m := lx.cursor.mark()
		n := 0
		for n < hashes && lx.cursor.eat('#') {
			n++
		}
		if n == hashes {
			return lx.tokenFrom(token.RawStringLit, start)
		}
		lx.cursor.reset(m)
	}
	tok := lx.tokenFrom(token.Invalid, start)
	lx.errLex(diag.ScanUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}

// scanQuote различает символьный литерал ('x', '\n', '\u{1F600}') и
// lifetime/метку ('a, 'static). start может указывать на префикс b.
func (lx *Lexer) scanQuote(start mark) token.Token {
	lx.cursor.bump() // '\''
	if lx.cursor.eof() {
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.ScanUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}

	if lx.cursor.peek() == '\\' {
		// escape: читаем до закрывающей кавычки в пределах строки
		lx.cursor.bump()
		lx.cursor.bump()
		for !lx.cursor.eof() {
			b := lx.cursor.peek()
			if b == '\'' {
				lx.cursor.bump()
				return lx.tokenFrom(token.CharLit, start)
			}
			if b == '\n' {
				break
			}
			lx.cursor.bump()
		}
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.ScanUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}

	// 'x': один символ и закрывающая кавычка
	m := lx.cursor.mark()
	lx.bumpRune()
	if lx.cursor.eat('\'') {
		return lx.tokenFrom(token.CharLit, start)
	}
	lx.cursor.reset(m)

	// иначе lifetime: 'ident
	r, sz := lx.peekRune()
	if sz > 0 && isIdentStartRune(r) {
		lx.scanIdentTail()
		return lx.tokenFrom(token.Lifetime, start)
	}
	// одинокая кавычка
	return lx.tokenFrom(token.Other, start)
}
