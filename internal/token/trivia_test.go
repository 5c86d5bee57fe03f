package token_test

import (
	"testing"

	"logref/internal/source"
	"logref/internal/token"
)

func TestLeadingTriviaShape(t *testing.T) {
	tv := token.Trivia{
		Kind: token.TriviaLineComment,
		Span: source.Span{Start: 0, End: 17},
		Text: "// logref:ignore",
	}
	tk := token.Token{
		Kind:    token.Ident,
		Span:    source.Span{Start: 18, End: 22},
		Text:    "info",
		Leading: []token.Trivia{tv},
	}
	if len(tk.Leading) != 1 || !tk.Leading[0].IsComment() {
		t.Fatalf("comment trivia must be attached as leading")
	}
	if !tk.Is("info") || tk.Is("warn") {
		t.Fatalf("Is must compare identifier spelling")
	}
	if (token.Trivia{Kind: token.TriviaSpace}).IsComment() {
		t.Fatalf("space is not a comment")
	}
}
