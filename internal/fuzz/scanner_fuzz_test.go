package fuzztests

import (
	"context"
	"testing"
	"time"

	"logref/internal/diag"
	"logref/internal/directive"
	"logref/internal/scanner"
	"logref/internal/source"
	"logref/internal/testkit"
)

// scanTimeout is the maximum time allowed for scanning a single input.
// If scanning takes longer, it indicates a potential infinite loop.
const scanTimeout = 5 * time.Second

var fuzzMacros = scanner.NewMacroSet([]scanner.Macro{
	{Module: "log", Name: "info"},
	{Module: "log", Name: "warn"},
	{Module: "log", Name: "error"},
	{Name: "debug"},
	{Name: "trace"},
})

func FuzzScannerNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			checkScan(t, input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("scanner hung on input of %d bytes", len(input))
		}
	})
}

func checkScan(t *testing.T, input []byte) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.rs", input))
	bag := diag.NewBag(64)

	cands, _ := scanner.Collect(file, fuzzMacros, scanner.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err := testkit.CheckCandidateInvariants(file, cands); err != nil {
		t.Error(err)
	}
	directive.Resolve(file, cands)
}
