package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"logref/internal/diag"
	"logref/internal/driver"
	"logref/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	path, id, dim, bold   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		note: color.New(color.FgBlue),
		path: color.New(color.FgWhite, color.Bold),
		id:   color.New(color.FgGreen, color.Bold),
		dim:  color.New(color.Faint),
		bold: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.id, p.dim, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes the human-readable report: diagnostics first, then the
// findings of each file, then the totals.
func Pretty(w io.Writer, res *driver.Result, opts Options) error {
	pw := &prettyWriter{w: w, fs: res.FileSet, opts: opts, pal: newPalette(opts.Color)}
	for i := range res.Diagnostics {
		pw.diagnostic(&res.Diagnostics[i])
	}
	for i := range res.Files {
		pw.file(res.Mode, &res.Files[i])
	}
	pw.totals(res)
	if opts.Timings && len(res.Timing.Phases) > 0 {
		pw.printf("%s", pw.pal.dim.Sprint(res.Timing.Summary()))
	}
	return pw.err
}

type prettyWriter struct {
	w    io.Writer
	fs   *source.FileSet
	opts Options
	pal  palette
	err  error
}

func (pw *prettyWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

func (pw *prettyWriter) location(sp source.Span) (string, source.LineCol) {
	f := pw.fs.Get(sp.File)
	return formatPath(f, pw.fs, pw.opts.PathMode), f.Position(sp.Start)
}

// <SEV> <CODE> <path>:<line>:<col>: <message>
func (pw *prettyWriter) diagnostic(d *diag.Diagnostic) {
	path, pos := pw.location(d.Primary)
	pw.printf("%s %s %s: %s\n",
		pw.pal.severity(d.Severity).Sprint(d.Severity.Label()),
		pw.pal.dim.Sprint(d.Code.ID()),
		pw.pal.path.Sprintf("%s:%d:%d", path, pos.Line, pos.Col),
		d.Message)
	if pw.opts.Context {
		pw.context(d.Primary)
	}
	if pw.opts.ShowNotes {
		for _, n := range d.Notes {
			npath, npos := pw.location(n.Span)
			pw.printf("  %s %s: %s\n", pw.pal.note.Sprint("note:"),
				pw.pal.path.Sprintf("%s:%d:%d", npath, npos.Line, npos.Col), n.Msg)
		}
	}
}

// context prints the line holding sp with a caret run under the span.
func (pw *prettyWriter) context(sp source.Span) {
	f := pw.fs.Get(sp.File)
	if f.Flags&source.FileVirtual != 0 || len(f.Content) == 0 {
		return
	}
	start := f.Position(sp.Start)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	lineStart := f.LineStart(start.Line)
	prefix := string(f.Content[lineStart:min(sp.Start, lineStart+uint32(len(line)))])
	width := 1
	if sp.End > sp.Start {
		end := min(sp.End, lineStart+uint32(len(line)))
		if end > sp.Start {
			width = max(1, runewidth.StringWidth(string(f.Content[sp.Start:end])))
		}
	}
	gutter := fmt.Sprintf("%5d | ", start.Line)
	pw.printf("%s%s\n", pw.pal.dim.Sprint(gutter), strings.ReplaceAll(line, "\t", " "))
	pw.printf("%s%s%s\n", pw.pal.dim.Sprint("      | "),
		strings.Repeat(" ", runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", " "))),
		pw.pal.warn.Sprint("^"+strings.Repeat("~", width-1)))
}

func (pw *prettyWriter) file(mode driver.Mode, o *driver.FileOutcome) {
	if len(o.Findings) == 0 && o.WriteErr == nil {
		return
	}
	path := o.Path
	if f := pw.fs.Get(o.FileID); f != nil {
		path = formatPath(f, pw.fs, pw.opts.PathMode)
	}
	for _, fd := range o.Findings {
		switch fd.Code {
		case diag.FindInserted:
			pw.printf("Inserted %s in file %s, line %d, column %d\n",
				pw.pal.id.Sprint(fd.ID.Marker()), pw.pal.path.Sprint(path), fd.Pos.Line, fd.Pos.Col)
		default:
			pw.printf("Missing reference in file %s, line %d, column %d\n",
				pw.pal.path.Sprint(path), fd.Pos.Line, fd.Pos.Col)
		}
	}
	if o.WriteErr != nil {
		pw.printf("%s %s: %v\n", pw.pal.err.Sprint("Failed to write"), pw.pal.path.Sprint(path), o.WriteErr)
	}
	if mode == driver.ModeCheck {
		pw.printf("Total missing references in %s: %d\n", path, o.Missing())
		return
	}
	if n := o.Inserted(); n > 0 {
		pw.printf("Inserted references in %s: %d\n", path, n)
	}
	if n := o.Missing(); n > 0 {
		pw.printf("Unresolved references in %s: %d\n", path, n)
	}
}

func (pw *prettyWriter) totals(res *driver.Result) {
	t := res.Totals
	if res.Mode == driver.ModeCheck {
		pw.printf("%s %s\n", pw.pal.bold.Sprint("Total missing references (all files):"), countColor(pw.pal, t.Missing).Sprint(t.Missing))
		return
	}
	pw.printf("%s %s\n", pw.pal.bold.Sprint("Num. inserted reference(s):"), pw.pal.id.Sprint(t.Inserted))
	if t.Unresolved > 0 {
		pw.printf("%s %s\n", pw.pal.bold.Sprint("Unresolved references (all files):"), pw.pal.err.Sprint(t.Unresolved))
	}
	if t.WriteFailures > 0 {
		pw.printf("%s %s\n", pw.pal.bold.Sprint("Failed writes:"), pw.pal.err.Sprint(t.WriteFailures))
	}
	pw.printf("Next reference ID: %d\n", res.NextID)
}

func countColor(p palette, n int) *color.Color {
	if n == 0 {
		return p.id
	}
	return p.err
}
