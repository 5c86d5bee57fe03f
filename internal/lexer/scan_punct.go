package lexer

import (
	"logref/internal/token"
)

var singlePunct = [128]token.Kind{
	':': token.Colon,
	',': token.Comma,
	';': token.Semicolon,
	'.': token.Dot,
	'!': token.Bang,
	'=': token.Assign,
	'#': token.Pound,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
}

// scanPunct сканирует пунктуацию. Составные операторы, которые
// могли бы склеиться с интересными сканеру токенами (::, ==, !=, =>, ..),
// распознаются жадно; всё остальное: один символ (руна) как Other.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.mark()

	switch {
	case lx.try2(':', ':'):
		return lx.tokenFrom(token.ColonColon, start)
	case lx.try2('=', '='), lx.try2('=', '>'), lx.try2('!', '='), lx.try2('.', '.'),
		lx.try2('-', '>'), lx.try2('<', '='), lx.try2('>', '='):
		return lx.tokenFrom(token.Other, start)
	}

	b := lx.cursor.peek()
	if b < utf8RuneSelf {
		lx.cursor.bump()
		if k := singlePunct[b]; k != token.Invalid {
			return lx.tokenFrom(k, start)
		}
		return lx.tokenFrom(token.Other, start)
	}
	lx.bumpRune()
	return lx.tokenFrom(token.Other, start)
}
