package token

import (
	"logref/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a string, char or numeric literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, StringLit, RawStringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsString reports whether the token is a (possibly raw) string literal.
func (t Token) IsString() bool {
	return t.Kind == StringLit || t.Kind == RawStringLit
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is an identifier spelled name.
func (t Token) Is(name string) bool {
	return t.Kind == Ident && t.Text == name
}
