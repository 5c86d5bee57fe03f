package directive

import (
	"logref/internal/scanner"
	"logref/internal/source"
)

// Resolve tags candidates with the directives written above them.
func Resolve(file *source.File, cands []scanner.Candidate) {
	if len(cands) == 0 {
		return
	}
	table := Collect(file)
	for i := range cands {
		set := table.Attach(file.LineOf(cands[i].Span.Start))
		cands[i].Ignored = set.Has(Ignore)
		cands[i].NoKVP = set.Has(NoKVP)
	}
}
