package driver

import (
	"errors"
	"fmt"

	"logref/internal/diag"
	"logref/internal/observ"
	"logref/internal/reference"
	"logref/internal/source"
)

var (
	// ErrMissingReferences: check mode found candidates without a reference.
	ErrMissingReferences = errors.New("missing references")
	// ErrWriteFailed: at least one patched file could not be written.
	ErrWriteFailed = errors.New("failed to write patched files")
	// ErrReadFailed: at least one source file could not be read.
	ErrReadFailed = errors.New("failed to read source files")
	// ErrNoSourceFiles: the source directory holds no file with a configured extension.
	ErrNoSourceFiles = errors.New("no source files found")
	// ErrUnresolved: edit mode could not give every candidate a reference.
	ErrUnresolved = errors.New("unresolved references")
)

// Mode selects what a run does with missing references.
type Mode uint8

const (
	// ModeEdit allocates identifiers and rewrites files.
	ModeEdit Mode = iota
	// ModeCheck only reports; nothing is written.
	ModeCheck
)

func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "edit"
}

// Finding is a missing reference (check mode, or a file whose write
// failed) or an inserted one.
type Finding struct {
	Code  diag.Code // FindMissing or FindInserted
	Span  source.Span
	Pos   source.LineCol
	Macro string
	ID    reference.ID
}

// FileOutcome is the per-file part of a Result.
type FileOutcome struct {
	Path       string // relative to the configuration directory, slash separated
	FileID     source.FileID
	Candidates int
	Present    int
	Ignored    int
	Findings   []Finding
	Unresolved int
	Cached     bool
	// ReadErr and ParseFault mark files that were left untouched.
	ReadErr    error
	ParseFault bool
	Written    bool
	WriteErr   error
}

// Skipped reports whether the file was left out of the run.
func (o FileOutcome) Skipped() bool {
	return o.ReadErr != nil || o.ParseFault
}

// Missing counts missing-reference findings.
func (o FileOutcome) Missing() int {
	return o.count(diag.FindMissing)
}

// Inserted counts references written into the file.
func (o FileOutcome) Inserted() int {
	return o.count(diag.FindInserted)
}

func (o FileOutcome) count(code diag.Code) int {
	n := 0
	for _, f := range o.Findings {
		if f.Code == code {
			n++
		}
	}
	return n
}

// Totals aggregates the outcomes of a run.
type Totals struct {
	Files         int `json:"files"`
	Candidates    int `json:"candidates"`
	Ignored       int `json:"ignored"`
	Missing       int `json:"missing"`
	Inserted      int `json:"inserted"`
	Unresolved    int `json:"unresolved"`
	ReadFailures  int `json:"read_failures"`
	WriteFailures int `json:"write_failures"`
	ParseFaults   int `json:"parse_faults"`
	CacheHits     int `json:"cache_hits"`
}

// Result is everything a run produced.
type Result struct {
	RunID       string
	Mode        Mode
	FileSet     *source.FileSet
	Files       []FileOutcome
	Diagnostics []diag.Diagnostic
	Totals      Totals
	NextID      reference.ID
	Timing      observ.Report
}

// Err derives the failure status of the run. Warnings never fail a run.
func (r *Result) Err() error {
	var errs []error
	if r.Mode == ModeCheck && r.Totals.Missing > 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrMissingReferences, r.Totals.Missing))
	}
	if r.Totals.ReadFailures > 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrReadFailed, r.Totals.ReadFailures))
	}
	if r.Totals.WriteFailures > 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrWriteFailed, r.Totals.WriteFailures))
	}
	if r.Mode == ModeEdit && r.Totals.Unresolved > 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnresolved, r.Totals.Unresolved))
	}
	return errors.Join(errs...)
}

func (r *Result) tally() {
	t := Totals{Files: len(r.Files)}
	for i := range r.Files {
		o := &r.Files[i]
		t.Candidates += o.Candidates
		t.Ignored += o.Ignored
		t.Missing += o.Missing()
		t.Inserted += o.Inserted()
		t.Unresolved += o.Unresolved
		if o.ReadErr != nil {
			t.ReadFailures++
		}
		if o.ParseFault {
			t.ParseFaults++
		}
		if o.WriteErr != nil {
			t.WriteFailures++
		}
		if o.Cached {
			t.CacheHits++
		}
	}
	r.Totals = t
}
