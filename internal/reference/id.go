// Package reference defines reference identifiers, the canonical marker
// syntax and the rules deciding whether a candidate already carries one.
package reference

import (
	"math"
	"regexp"
	"strconv"

	"fortio.org/safecast"
)

// ID is a reference identifier. Zero is never a valid identifier.
type ID uint32

const (
	// MaxID is the largest identifier that can be allocated.
	MaxID ID = math.MaxUint32
	// Key is the reserved key of a structured reference entry.
	Key = "ref"
)

// markerRe anchors the canonical marker at the start of the message text.
// External tooling matches markers with `\[ref: ([0-9]{1,10})\]`.
var markerRe = regexp.MustCompile(`^\[ref: ([0-9]{1,10})\]`)

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Marker renders the canonical message-text marker, e.g. "[ref: 12]".
func (id ID) Marker() string {
	return "[ref: " + id.String() + "]"
}

// ParseID parses 1 to 10 ASCII digits into an identifier in [1, MaxID].
func ParseID(s string) (ID, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 || v > uint64(MaxID) {
		return 0, false
	}
	return ID(v), true
}

// FindMarker returns the digits of a marker at the start of text.
func FindMarker(text string) (digits string, ok bool) {
	m := markerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// sweepRe finds anything that may be an identifier: a marker anywhere in
// the text, or a "ref = N" entry.
var sweepRe = regexp.MustCompile(`\[ref: ([0-9]{1,10})\]|\bref\s*=\s*([0-9]{1,10})\b`)

// Mention is an identifier found by Sweep and the offset of its digits.
type Mention struct {
	ID     ID
	Offset uint32
}

// Sweep returns every plausible identifier in content without parsing it.
// It is used for files the scanner could not finish, so their identifiers
// still count as taken.
func Sweep(content []byte) []Mention {
	var out []Mention
	for _, m := range sweepRe.FindAllSubmatchIndex(content, -1) {
		lo, hi := m[2], m[3]
		if lo < 0 {
			lo, hi = m[4], m[5]
		}
		id, ok := ParseID(string(content[lo:hi]))
		if !ok {
			continue
		}
		off, err := safecast.Conv[uint32](lo)
		if err != nil {
			break
		}
		out = append(out, Mention{ID: id, Offset: off})
	}
	return out
}
