package scanner

import (
	"strings"
)

// Macro is one configured logging macro: Name invoked bare or qualified with
// Module ("log::info!"). An empty Module only matches bare invocations.
type Macro struct {
	Module string
	Name   string
}

func (m Macro) String() string {
	if m.Module == "" {
		return m.Name
	}
	return m.Module + "::" + m.Name
}

// MacroSet matches invocation paths against configured macros.
type MacroSet struct {
	byName map[string][][]string // name -> module segments
}

// NewMacroSet indexes macros by name.
func NewMacroSet(macros []Macro) *MacroSet {
	set := &MacroSet{byName: make(map[string][][]string, len(macros))}
	for _, m := range macros {
		set.byName[m.Name] = append(set.byName[m.Name], SplitPath(m.Module))
	}
	return set
}

// Len returns the number of distinct macro names.
func (s *MacroSet) Len() int {
	return len(s.byName)
}

// Match reports whether path names a configured macro. A bare name always
// matches; a qualified path matches only the configured module.
func (s *MacroSet) Match(path []string) bool {
	if len(path) == 0 {
		return false
	}
	modules, ok := s.byName[path[len(path)-1]]
	if !ok {
		return false
	}
	prefix := path[:len(path)-1]
	if len(prefix) == 0 {
		return true
	}
	for _, mod := range modules {
		if equalSegments(prefix, mod) {
			return true
		}
	}
	return false
}

// SplitPath splits "a::b", "a.b" or "::a::b" into segments.
func SplitPath(p string) []string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "::")
	if p == "" {
		return nil
	}
	p = strings.ReplaceAll(p, ".", "::")
	return strings.Split(p, "::")
}

func equalSegments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
