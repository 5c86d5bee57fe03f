package reference

import (
	"logref/internal/fix"
	"logref/internal/scanner"
)

// Insertion returns the offset and text that give c the identifier id under
// placement p:
//
//	message:             "[ref: N] " at the first content byte of the format string
//	kv, entries present: "ref = N, " before the first entry
//	kv, no entries:      "ref = N; " before the format string
func Insertion(c *scanner.Candidate, p Placement, id ID) (offset uint32, text string) {
	if p == InMessage {
		return c.Format.Content.Start, id.Marker() + " "
	}
	if len(c.KVs) > 0 {
		return c.KVs[0].KeySpan.Start, Key + " = " + id.String() + ", "
	}
	return c.Format.Span.Start, Key + " = " + id.String() + "; "
}

// Edit returns the edit giving c the identifier id. An identifier already in
// place (a duplicate, or an out-of-range marker) is rewritten; otherwise a
// new reference is inserted.
func Edit(c *scanner.Candidate, ext Extraction, id ID) fix.Edit {
	if ext.At != nil {
		text := id.String()
		if ext.Placement == InMessage {
			text = id.Marker()
		}
		return fix.Edit{Start: ext.At.Start, End: ext.At.End, NewText: text, OldText: ext.Old}
	}
	off, text := Insertion(c, ext.Placement, id)
	return fix.Insert(off, text)
}
