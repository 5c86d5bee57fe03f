// Package scanner locates invocations of configured logging macros inside
// otherwise unparsed source text.
//
// The grammar is deliberately approximate. It has two productions:
//
//	item       = invocation | filler
//	invocation = path "!" open [ "target" ":" string "," ] [ kvblock ] string
//	path       = [ "::" ] ident { ( "::" | "." ) ident }
//	open       = "(" | "[" | "{"
//	kvblock    = entry { "," entry } [ "," ] ";"
//	entry      = ident [ ":" modifier ] [ "=" value ]
//	filler     = identifier path | literal | any other token
//
// Filler is a first-class production, not an error path: anything that is not
// a matching invocation is consumed one unit at a time and discarded. Comments
// and whitespace never reach the grammar, the lexer turns them into trivia.
// Scope and imports are not tracked, so a shadowed name that spells a
// configured macro is still reported.
//
// An unterminated string literal or key-value block at end of file is a parse
// fault: the scanner stops, reports a warning and Faulted returns true.
package scanner
