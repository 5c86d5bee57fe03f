package reference

import (
	"fmt"

	"logref/internal/diag"
	"logref/internal/scanner"
	"logref/internal/source"
)

// Placement says where a reference lives in an invocation.
type Placement uint8

const (
	// InMessage places the marker at the start of the format string.
	InMessage Placement = iota
	// InKV places the reference as the "ref" key-value entry.
	InKV
)

func (p Placement) String() string {
	if p == InKV {
		return "kv"
	}
	return "message"
}

// Status is the classification of one candidate.
type Status uint8

const (
	// Present: a well-formed identifier was found.
	Present Status = iota
	// Missing: no identifier; one will be allocated in edit mode.
	Missing
	// Ignored: excluded by a directive.
	Ignored
	// Unpatchable: missing, but inserting a reference would produce invalid
	// code (a "ref" key that is not a number already exists).
	Unpatchable
)

func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case Missing:
		return "missing"
	case Ignored:
		return "ignored"
	case Unpatchable:
		return "unpatchable"
	}
	return "unknown"
}

// Extraction is the result of classifying one candidate.
type Extraction struct {
	Status    Status
	ID        ID
	Placement Placement

	// At covers an identifier already written in the source (the whole
	// marker, or the value of the "ref" entry) and Old is its text. It is
	// set for present references and for out-of-range markers, so a
	// reallocated identifier replaces the old one instead of stacking.
	At  *source.Span
	Old string
}

// Demote turns a present reference into a missing one that keeps its
// location; used for duplicates.
func (e Extraction) Demote() Extraction {
	e.Status = Missing
	e.ID = 0
	return e
}

// PlacementFor applies the placement rule: structured mode uses key-value
// entries unless the candidate carries the no-kvp directive.
func PlacementFor(c *scanner.Candidate, structured bool) Placement {
	if structured && !c.NoKVP {
		return InKV
	}
	return InMessage
}

// Classify decides whether c already carries a reference. Inconsistent input
// is reported to r as warnings; r may be nil.
func Classify(c *scanner.Candidate, structured bool, r diag.Reporter) Extraction {
	if c.Ignored {
		return Extraction{Status: Ignored}
	}
	p := PlacementFor(c, structured)
	if p == InMessage {
		return classifyMessage(c, r)
	}

	if digits, ok := FindMarker(c.Format.Value); ok {
		diag.ReportWarning(r, diag.RefDualPlacement, c.Format.Span,
			fmt.Sprintf("message text carries [ref: %s] but structured mode reads the %q key; the marker is ignored", digits, Key)).Emit()
	}
	return classifyKV(c, r)
}

func classifyMessage(c *scanner.Candidate, r diag.Reporter) Extraction {
	digits, ok := FindMarker(c.Format.Value)
	if !ok {
		return Extraction{Status: Missing, Placement: InMessage}
	}
	marker := "[ref: " + digits + "]"
	at := source.Span{
		File:  c.Format.Content.File,
		Start: c.Format.Content.Start,
		End:   c.Format.Content.Start + uint32(len(marker)),
	}
	id, ok := ParseID(digits)
	if !ok {
		diag.ReportWarning(r, diag.RefOutOfRange, at,
			fmt.Sprintf("reference %s is outside [1, %d]", digits, MaxID)).Emit()
		return Extraction{Status: Missing, Placement: InMessage, At: &at, Old: marker}
	}
	return Extraction{Status: Present, ID: id, Placement: InMessage, At: &at, Old: marker}
}

func classifyKV(c *scanner.Candidate, r diag.Reporter) Extraction {
	var (
		found bool
		ext   = Extraction{Status: Missing, Placement: InKV}
	)
	for _, kv := range c.KVs {
		if kv.Key != Key {
			continue
		}
		if found {
			diag.ReportWarning(r, diag.RefMultipleKeys, kv.Span(),
				fmt.Sprintf("duplicate %q key; only the first one is used", Key)).Emit()
			continue
		}
		found = true
		if kv.Value == nil {
			diag.ReportError(r, diag.RefMalformedKey, kv.Span(),
				fmt.Sprintf("%q key has no value", Key)).Emit()
			ext.Status = Unpatchable
			continue
		}
		id, ok := ParseID(kv.ValueText)
		if !ok {
			diag.ReportError(r, diag.RefMalformedKey, kv.Span(),
				fmt.Sprintf("%q value %q is not an identifier in [1, %d]", Key, kv.ValueText, MaxID)).Emit()
			ext.Status = Unpatchable
			continue
		}
		ext.Status = Present
		ext.ID = id
		at := *kv.Value
		ext.At = &at
		ext.Old = kv.ValueText
	}
	return ext
}
