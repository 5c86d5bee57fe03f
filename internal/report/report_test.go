package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"logref/internal/diag"
	"logref/internal/driver"
	"logref/internal/reference"
	"logref/internal/source"
)

func sampleResult(mode driver.Mode) *driver.Result {
	fs := source.NewFileSetWithBase("/proj")
	a := fs.Add("/proj/src/a.rs", []byte("fn f() {\n    info!(\"Unready\");\n}\n"), 0)
	b := fs.Add("/proj/src/b.rs", []byte("info!(\"[ref: 3] x\");\n"), 0)

	findingCode := diag.FindMissing
	var id uint32
	if mode == driver.ModeEdit {
		findingCode = diag.FindInserted
		id = 4
	}
	res := &driver.Result{
		RunID:   "run-1",
		Mode:    mode,
		FileSet: fs,
		Files: []driver.FileOutcome{
			{
				Path: "src/a.rs", FileID: a, Candidates: 1,
				Findings: []driver.Finding{{
					Code:  findingCode,
					Span:  source.Span{File: a, Start: 20, End: 29},
					Pos:   source.LineCol{Line: 2, Col: 12},
					Macro: "info",
					ID:    referenceID(id),
				}},
			},
			{Path: "src/b.rs", FileID: b, Candidates: 1, Present: 1},
		},
		Diagnostics: []diag.Diagnostic{
			diag.NewWarning(diag.RefDuplicate, source.Span{File: b, Start: 7, End: 15}, "reference 3 is already used").
				WithNote(source.Span{File: a, Start: 20, End: 20}, "first used here"),
		},
		NextID: 4,
	}
	if mode == driver.ModeEdit {
		res.Totals = driver.Totals{Files: 2, Candidates: 2, Inserted: 1}
	} else {
		res.Totals = driver.Totals{Files: 2, Candidates: 2, Missing: 1}
	}
	return res
}

func TestPrettyCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleResult(driver.ModeCheck), Options{ShowNotes: true, Context: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"warning REF2002 src/b.rs:1:8: reference 3 is already used",
		"    1 | info!(\"[ref: 3] x\");",
		"      |        ^~~~~~~",
		"note: src/a.rs:2:12: first used here",
		"Missing reference in file src/a.rs, line 2, column 12",
		"Total missing references in src/a.rs: 1",
		"Total missing references (all files): 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Total missing references in src/b.rs") {
		t.Errorf("files without findings should not get a total:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color disabled but escape codes present")
	}
}

func TestPrettyEdit(t *testing.T) {
	res := sampleResult(driver.ModeEdit)
	res.Files[1].WriteErr = errors.New("read-only file system")
	res.Totals.WriteFailures = 1

	var buf bytes.Buffer
	if err := Pretty(&buf, res, Options{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Inserted [ref: 4] in file src/a.rs, line 2, column 12",
		"Inserted references in src/a.rs: 1",
		"Failed to write src/b.rs: read-only file system",
		"Num. inserted reference(s): 1",
		"Failed writes: 1",
		"Next reference ID: 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note:") {
		t.Errorf("notes shown without ShowNotes:\n%s", out)
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeRelative, "file src/a.rs,"},
		{PathModeAbsolute, "file /proj/src/a.rs,"},
		{PathModeBasename, "file a.rs,"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Pretty(&buf, sampleResult(driver.ModeCheck), Options{PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("mode %d: output missing %q:\n%s", tt.mode, tt.want, buf.String())
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResult(driver.ModeEdit), Options{Timings: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got RunJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Mode != "edit" || got.NextID != 4 || got.Totals.Inserted != 1 {
		t.Fatalf("unexpected header: %+v", got)
	}
	if len(got.Files) != 2 || len(got.Files[0].Findings) != 1 {
		t.Fatalf("unexpected files: %+v", got.Files)
	}
	f := got.Files[0].Findings[0]
	if f.Kind != "inserted" || f.Code != "FND5002" || f.ID != 4 || f.Location.Line != 2 {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Code != "REF2002" || len(got.Diagnostics[0].Notes) != 1 {
		t.Fatalf("unexpected diagnostics: %+v", got.Diagnostics)
	}
	if got.Timings == nil {
		t.Fatal("timings requested but missing")
	}
}

func referenceID(v uint32) reference.ID { return reference.ID(v) }

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleResult(driver.ModeCheck), Options{ShowNotes: true}); err != nil {
		t.Fatalf("Short: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"note REF2002 src/a.rs:2:12 first used here",
		"warning FND5001 src/a.rs:2:12 missing reference in info!",
		"warning REF2002 src/b.rs:1:8 reference 3 is already used",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected short output:\n%s", buf.String())
	}

	buf.Reset()
	if err := Short(&buf, sampleResult(driver.ModeEdit), Options{}); err != nil {
		t.Fatalf("Short: %v", err)
	}
	if !strings.Contains(buf.String(), "info FND5002 src/a.rs:2:12 inserted [ref: 4] into info!") {
		t.Fatalf("missing inserted line:\n%s", buf.String())
	}
}
