// Package directive associates override comments with logging statements.
//
// Two directives are recognised, written as a comment whose entire text is
// one or more directive names:
//
//	// logref:ignore     the statement is never reported and never patched
//	// logref:no-kvp     the reference goes into the message text even in
//	                     structured mode
//
// Association runs in two passes. Collect classifies every line of the file
// as blank, comment-only or code and records directives on comment lines.
// Attach then walks upward from a statement's first line over comment and
// blank lines and stops at code, so a directive never leaks past an unrelated
// statement. Directives on the same run of lines stack.
package directive
