package report

import (
	"fmt"
	"io"

	"logref/internal/diag"
	"logref/internal/driver"
)

// Short writes one sorted line per diagnostic and finding, in the
// `<severity> <CODE> path:line:col message` form that CI annotators and
// editors' problem matchers parse. Totals are left to the exit code.
func Short(w io.Writer, res *driver.Result, opts Options) error {
	all := make([]diag.Diagnostic, 0, len(res.Diagnostics)+res.Totals.Missing+res.Totals.Inserted)
	all = append(all, res.Diagnostics...)
	for i := range res.Files {
		for _, f := range res.Files[i].Findings {
			all = append(all, findingDiagnostic(f))
		}
	}
	out := diag.FormatShortDiagnostics(all, res.FileSet, opts.ShowNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func findingDiagnostic(f driver.Finding) diag.Diagnostic {
	if f.Code == diag.FindInserted {
		return diag.New(diag.SevInfo, f.Code, f.Span, fmt.Sprintf("inserted [ref: %d] into %s!", f.ID, f.Macro))
	}
	return diag.New(diag.SevWarning, f.Code, f.Span, fmt.Sprintf("missing reference in %s!", f.Macro))
}
