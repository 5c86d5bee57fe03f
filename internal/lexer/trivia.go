package lexer

import (
	"logref/internal/diag"
	"logref/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\r' и прочие пробельные коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - ///... и //!... до \n -> TriviaDocLine
// - /* ... */ -> TriviaBlockComment (поддерживает вложенность; если не закрыта, репорт и обрезаем на EOF)
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.eof() {
		start := lx.cursor.mark()
		b := lx.cursor.peek()

		if isSpaceByte(b) {
			for isSpaceByte(lx.cursor.peek()) {
				lx.cursor.bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.peek() == '\n' {
				lx.cursor.bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanComment() {
			continue
		}

		// нет больше trivia
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, m mark) {
	sp := lx.cursor.spanFrom(m)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// //... , /*...*/ , ///...
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.mark()
	if !lx.cursor.eat('/') {
		return false
	}
	switch lx.cursor.peek() {
	case '/':
		lx.cursor.bump()
		kind := token.TriviaLineComment
		if b := lx.cursor.peek(); b == '/' || b == '!' {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
			lx.cursor.bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case '*':
		lx.cursor.bump()
		depth := 1
		for !lx.cursor.eof() && depth > 0 {
			if b0, b1, ok := lx.cursor.peek2(); ok {
				if b0 == '/' && b1 == '*' {
					lx.cursor.bump()
					lx.cursor.bump()
					depth++
					continue
				}
				if b0 == '*' && b1 == '/' {
					lx.cursor.bump()
					lx.cursor.bump()
					depth--
					continue
				}
			}
			lx.cursor.bump()
		}
		if depth > 0 {
			lx.errLex(diag.ScanUnterminatedBlockComment, lx.cursor.spanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true

	default:
		// это не комментарий, вернёмся, пусть сканируется как пунктуация '/'
		lx.cursor.reset(start)
		return false
	}
}
