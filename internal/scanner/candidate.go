package scanner

import (
	"strings"

	"logref/internal/source"
)

// KV is one structured key-value entry of an invocation.
type KV struct {
	Key       string
	Modifier  string // "?" / "%" / "err", empty when absent
	KeySpan   source.Span
	Value     *source.Span // nil for a bare capture ("key,")
	ValueText string
}

// Span covers the entry from its key to the end of the value.
func (kv KV) Span() source.Span {
	if kv.Value != nil {
		return kv.KeySpan.Cover(*kv.Value)
	}
	return kv.KeySpan
}

// Literal is the format string of an invocation.
type Literal struct {
	Span    source.Span // whole literal including prefix and quotes
	Content source.Span // bytes between the quotes
	Value   string      // decoded value
	Raw     bool
}

// Candidate is a located, not yet classified macro invocation.
type Candidate struct {
	Path    []string
	Span    source.Span // path start to the closing delimiter
	Target  *source.Span
	KVs     []KV
	KVBlock *source.Span // entries up to and including ';'
	Format  Literal
	Pos     source.LineCol // position of Format.Content.Start

	Ignored bool
	NoKVP   bool
}

// Name returns the invocation path as written, e.g. "log::info".
func (c *Candidate) Name() string {
	return strings.Join(c.Path, "::")
}

// KV returns the first entry with the given key.
func (c *Candidate) KV(key string) (KV, bool) {
	for _, kv := range c.KVs {
		if kv.Key == key {
			return kv, true
		}
	}
	return KV{}, false
}
