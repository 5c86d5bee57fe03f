package scanner

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"logref/internal/source"
	"logref/internal/token"
)

// literalOf splits a string token into its content span and decoded value.
func literalOf(tok token.Token) Literal {
	text := tok.Text
	lit := Literal{Span: tok.Span, Raw: tok.Kind == token.RawStringLit}

	// префикс b / c / r / br / cr
	i := 0
	for i < len(text) && text[i] != '"' && text[i] != '#' {
		i++
	}
	hashes := 0
	for i < len(text) && text[i] == '#' {
		hashes++
		i++
	}
	open := i + 1 // после '"'
	closeAt := len(text) - 1 - hashes
	if closeAt < open {
		closeAt = open
	}
	lit.Content = source.Span{
		File:  tok.Span.File,
		Start: tok.Span.Start + uint32(open),    // #nosec G115 -- token length bounded by file size
		End:   tok.Span.Start + uint32(closeAt), // #nosec G115 -- token length bounded by file size
	}
	body := text[open:closeAt]
	if lit.Raw {
		lit.Value = body
	} else {
		lit.Value = decodeEscapes(body)
	}
	return lit
}

// decodeEscapes resolves backslash escapes. Unknown or malformed escapes are
// kept verbatim: the value is only compared, never written back.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(s[i])
		case '\n', '\r':
			// продолжение строки: пропускаем ведущие пробелы следующей строки
			for i+1 < len(s) && strings.IndexByte(" \t\r\n", s[i+1]) >= 0 {
				i++
			}
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteString(`\x`)
		case 'u':
			if end := strings.IndexByte(s[i:], '}'); i+1 < len(s) && s[i+1] == '{' && end > 0 {
				hex := strings.ReplaceAll(s[i+2:i+end], "_", "")
				if v, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(v)) {
					b.WriteRune(rune(v))
					i += end
					continue
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
