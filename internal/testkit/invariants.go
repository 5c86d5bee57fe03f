// Package testkit holds structural checks shared by scanner tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"logref/internal/scanner"
	"logref/internal/source"
)

// CheckCandidateInvariants verifies the spans of scanned candidates against
// the file they came from:
// 1) every span belongs to sf and lies within its content
// 2) candidates are ordered by start offset
// 3) the format literal, target, key-value block and entries sit inside the invocation
// 4) the reported position is 1-based and matches the format content start
func CheckCandidateInvariants(sf *source.File, cands []scanner.Candidate) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	inFile := func(what string, i int, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("candidate %d: %s span file mismatch: got=%d want=%d", i, what, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("candidate %d: %s span %v out of range %d", i, what, sp, size)
		}
		return nil
	}
	within := func(what string, i int, inner, outer source.Span) error {
		if err := inFile(what, i, inner); err != nil {
			return err
		}
		if inner.Start < outer.Start || inner.End > outer.End {
			return fmt.Errorf("candidate %d: %s span %v outside invocation %v", i, what, inner, outer)
		}
		return nil
	}

	var prev uint32
	for i := range cands {
		c := &cands[i]
		if err := inFile("invocation", i, c.Span); err != nil {
			return err
		}
		if c.Span.End <= c.Span.Start {
			return fmt.Errorf("candidate %d: empty invocation span %v", i, c.Span)
		}
		if c.Span.Start < prev {
			return fmt.Errorf("candidate %d starts at %d before previous %d", i, c.Span.Start, prev)
		}
		prev = c.Span.Start

		if err := within("format", i, c.Format.Span, c.Span); err != nil {
			return err
		}
		if err := within("format content", i, c.Format.Content, c.Format.Span); err != nil {
			return err
		}
		if c.Target != nil {
			if err := within("target", i, *c.Target, c.Span); err != nil {
				return err
			}
		}
		if c.KVBlock != nil {
			if err := within("kv block", i, *c.KVBlock, c.Span); err != nil {
				return err
			}
			if c.KVBlock.End > c.Format.Span.Start {
				return fmt.Errorf("candidate %d: kv block %v overlaps format %v", i, *c.KVBlock, c.Format.Span)
			}
		}
		for _, kv := range c.KVs {
			if err := within("key "+kv.Key, i, kv.KeySpan, c.Span); err != nil {
				return err
			}
			if kv.Value != nil {
				if err := within("value of "+kv.Key, i, *kv.Value, c.Span); err != nil {
					return err
				}
			}
		}

		if c.Pos.Line == 0 || c.Pos.Col == 0 {
			return fmt.Errorf("candidate %d has zero position", i)
		}
		if want := sf.Position(c.Format.Content.Start); want != c.Pos {
			return fmt.Errorf("candidate %d: position %v, content starts at %v", i, c.Pos, want)
		}
	}
	return nil
}
