// Package fix turns planned text edits into rewritten file content and
// writes it back to disk.
package fix

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoEdits is returned by Plan when there is nothing to apply.
	ErrNoEdits = errors.New("no edits to apply")
	// ErrConflict is returned when two edits touch the same bytes.
	ErrConflict = errors.New("conflicting edits")
	// ErrOutOfRange is returned when an edit lies outside the content.
	ErrOutOfRange = errors.New("edit span out of range")
)

// Edit replaces content[Start:End] with NewText. Start == End is a pure
// insertion.
type Edit struct {
	Start   uint32
	End     uint32
	NewText string
	// OldText, when set, must match the replaced bytes.
	OldText string
}

// Insert builds a zero-width edit at offset.
func Insert(offset uint32, text string) Edit {
	return Edit{Start: offset, End: offset, NewText: text}
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// Plan is a validated, ordered set of edits against one content buffer.
type Plan struct {
	edits []Edit
	size  int
}

// NewPlan sorts edits by position and checks them against content.
// Insertions at the same offset keep their relative order.
func NewPlan(content []byte, edits []Edit) (*Plan, error) {
	if len(edits) == 0 {
		return nil, ErrNoEdits
	}
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	size := len(content)
	for i, e := range sorted {
		if e.End < e.Start || int(e.End) > len(content) {
			return nil, fmt.Errorf("%w: [%d, %d) in %d bytes", ErrOutOfRange, e.Start, e.End, len(content))
		}
		if e.OldText != "" && string(content[e.Start:e.End]) != e.OldText {
			return nil, fmt.Errorf("%w: existing text at %d does not match", ErrConflict, e.Start)
		}
		if i > 0 && spansConflict(sorted[i-1], e) {
			return nil, fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrConflict,
				sorted[i-1].Start, sorted[i-1].End, e.Start, e.End)
		}
		size += len(e.NewText) - int(e.End-e.Start)
	}
	return &Plan{edits: sorted, size: size}, nil
}

// Len returns the number of edits in the plan.
func (p *Plan) Len() int { return len(p.edits) }

// Apply produces the edited content in a single left-to-right pass.
// content must be the buffer the plan was validated against.
func (p *Plan) Apply(content []byte) []byte {
	out := make([]byte, 0, p.size)
	cursor := uint32(0)
	for _, e := range p.edits {
		out = append(out, content[cursor:e.Start]...)
		out = append(out, e.NewText...)
		cursor = e.End
	}
	return append(out, content[cursor:]...)
}

// Apply validates edits and returns the rewritten content.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	plan, err := NewPlan(content, edits)
	if err != nil {
		return nil, err
	}
	return plan.Apply(content), nil
}

// spansConflict reports whether two edits' spans overlap. Spans are
// half-open. Two insertions never conflict, an insertion conflicts with a
// replacement whose interior contains it.
func spansConflict(a, b Edit) bool {
	aStart, aEnd := a.Start, a.End
	bStart, bEnd := b.Start, b.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Describe renders edits for debug logs.
func Describe(edits []Edit) string {
	var sb strings.Builder
	for i, e := range edits {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d..%d=%q", e.Start, e.End, e.NewText)
	}
	return sb.String()
}
