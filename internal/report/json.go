package report

import (
	"encoding/json"
	"io"

	"logref/internal/diag"
	"logref/internal/driver"
	"logref/internal/observ"
	"logref/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line,omitempty"`
	Col       uint32 `json:"col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FindingJSON is one missing or inserted reference.
type FindingJSON struct {
	Code     string       `json:"code"`
	Kind     string       `json:"kind"`
	Macro    string       `json:"macro"`
	ID       uint32       `json:"id,omitempty"`
	Location LocationJSON `json:"location"`
}

// FileJSON is the outcome of one file.
type FileJSON struct {
	Path       string        `json:"path"`
	Cached     bool          `json:"cached,omitempty"`
	Candidates int           `json:"candidates"`
	Present    int           `json:"present"`
	Ignored    int           `json:"ignored,omitempty"`
	Unresolved int           `json:"unresolved,omitempty"`
	ParseFault bool          `json:"parse_fault,omitempty"`
	ReadError  string        `json:"read_error,omitempty"`
	WriteError string        `json:"write_error,omitempty"`
	Written    bool          `json:"written,omitempty"`
	Findings   []FindingJSON `json:"findings,omitempty"`
}

// RunJSON is the root of the JSON report.
type RunJSON struct {
	RunID       string           `json:"run_id"`
	Mode        string           `json:"mode"`
	NextID      uint32           `json:"next_id"`
	Totals      driver.Totals    `json:"totals"`
	Files       []FileJSON       `json:"files"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Timings     *observ.Report   `json:"timings,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:      formatPath(f, fs, mode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	// Добавляем позиции строк/колонок
	if len(f.Content) > 0 {
		pos := f.Position(span.Start)
		loc.Line = pos.Line
		loc.Col = pos.Col
	}
	return loc
}

// Build assembles the JSON document without serializing it.
func Build(res *driver.Result, opts Options) RunJSON {
	fs := res.FileSet
	out := RunJSON{
		RunID:       res.RunID,
		Mode:        res.Mode.String(),
		NextID:      uint32(res.NextID),
		Totals:      res.Totals,
		Files:       make([]FileJSON, 0, len(res.Files)),
		Diagnostics: make([]DiagnosticJSON, 0, len(res.Diagnostics)),
	}
	if opts.Timings {
		t := res.Timing
		out.Timings = &t
	}

	for _, d := range res.Diagnostics {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts.PathMode)})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	for i := range res.Files {
		o := &res.Files[i]
		fj := FileJSON{
			Path:       o.Path,
			Cached:     o.Cached,
			Candidates: o.Candidates,
			Present:    o.Present,
			Ignored:    o.Ignored,
			Unresolved: o.Unresolved,
			ParseFault: o.ParseFault,
			Written:    o.Written,
		}
		if o.ReadErr != nil {
			fj.ReadError = o.ReadErr.Error()
		}
		if o.WriteErr != nil {
			fj.WriteError = o.WriteErr.Error()
		}
		for _, fd := range o.Findings {
			kind := "missing"
			if fd.Code == diag.FindInserted {
				kind = "inserted"
			}
			fj.Findings = append(fj.Findings, FindingJSON{
				Code:     fd.Code.ID(),
				Kind:     kind,
				Macro:    fd.Macro,
				ID:       uint32(fd.ID),
				Location: makeLocation(fd.Span, fs, opts.PathMode),
			})
		}
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON writes the report as one indented JSON document.
func JSON(w io.Writer, res *driver.Result, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Build(res, opts))
}
