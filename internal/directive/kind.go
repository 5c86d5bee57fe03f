package directive

import (
	"strings"

	"golang.org/x/text/cases"
)

// Set is a bit set of directives attached to one statement.
type Set uint8

const (
	// Ignore excludes the statement from detection, extraction and allocation.
	Ignore Set = 1 << iota
	// NoKVP forces message-text placement regardless of structured mode.
	NoKVP
)

const (
	IgnoreName = "logref:ignore"
	NoKVPName  = "logref:no-kvp"
)

var names = map[string]Set{
	IgnoreName: Ignore,
	NoKVPName:  NoKVP,
}

func (s Set) Has(d Set) bool { return s&d == d }

func (s Set) String() string {
	var parts []string
	if s.Has(Ignore) {
		parts = append(parts, IgnoreName)
	}
	if s.Has(NoKVP) {
		parts = append(parts, NoKVPName)
	}
	return strings.Join(parts, ",")
}

// parseComment returns the directives of a comment whose whole text is a
// list of directive names separated by spaces or commas. Any other word makes
// the comment an ordinary comment. Names compare under Unicode case folding.
func parseComment(fold cases.Caser, text string) Set {
	words := strings.FieldsFunc(commentBody(text), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '*'
	})
	var set Set
	for _, w := range words {
		d, ok := names[fold.String(w)]
		if !ok {
			return 0
		}
		set |= d
	}
	return set
}

// commentBody strips comment markers: "//", "///", "//!", "/*", "*/".
func commentBody(text string) string {
	switch {
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		return strings.TrimLeft(text, "*!")
	case strings.HasPrefix(text, "//"):
		return strings.TrimLeft(text, "/!")
	}
	return text
}
