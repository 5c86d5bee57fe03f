// Package token defines lexical token kinds and trivia for the source scanner.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Whitespace and comments never appear in the main token stream; they are
//     attached to the following token as Leading trivia (EOF included).
//   - Keywords are identifiers: the scanner matches macro paths by spelling.
package token
