package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logref/internal/driver"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != exitOK {
		t.Fatalf("nil: %d", got)
	}
	if got := exitCode(failureError(driver.ErrMissingReferences)); got != exitFailure {
		t.Fatalf("failure: %d", got)
	}
	if got := exitCode(setupError(errors.New("bad config"))); got != exitSetup {
		t.Fatalf("setup: %d", got)
	}
	// unknown flags and the like come straight from cobra
	if got := exitCode(errors.New("unknown flag")); got != exitSetup {
		t.Fatalf("plain: %d", got)
	}
}

func TestWriteStarterRefusesOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	path, err := writeStarter(dir)
	if err != nil {
		t.Fatalf("writeStarter: %v", err)
	}
	if filepath.Base(path) != "logref.yaml" {
		t.Fatalf("unexpected path %s", path)
	}
	if _, err := writeStarter(dir); err == nil {
		t.Fatal("expected refusal on second init")
	}

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "logref.toml"), []byte("source_dir = \"src\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := writeStarter(other); err == nil {
		t.Fatal("expected refusal when logref.toml exists")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCheckThenEdit(t *testing.T) {
	root := t.TempDir()
	if _, err := writeStarter(root); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	mainRS := filepath.Join(src, "main.rs")
	body := "fn main() {\n    log::info!(\"started\");\n}\n"
	if err := os.WriteFile(mainRS, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(root, "logref.yaml")

	out, err := execute(t, "--config", cfg, "--check", "--ui", "off", "--color", "off")
	if exitCode(err) != exitFailure || !errors.Is(err, driver.ErrMissingReferences) {
		t.Fatalf("check: err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Total missing references (all files): 1") {
		t.Fatalf("check output:\n%s", out)
	}

	out, err = execute(t, "--config", cfg, "--check=false", "--ui", "off", "--color", "off", "--format", "json")
	if err != nil {
		t.Fatalf("edit: %v\n%s", err, out)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("edit output is not JSON: %v\n%s", err, out)
	}
	got, err := os.ReadFile(mainRS)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `log::info!("[ref: 1] started");`) {
		t.Fatalf("file not patched:\n%s", got)
	}

	out, err = execute(t, "--config", cfg, "--check", "--ui", "off", "--color", "off", "--format", "pretty")
	if err != nil {
		t.Fatalf("second check: %v\n%s", err, out)
	}
}

func TestRootMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "logref.yaml"), "--ui", "off", "--check=false")
	if exitCode(err) != exitSetup {
		t.Fatalf("expected setup exit code, got %v", err)
	}
}

func TestRootEmptySourceDir(t *testing.T) {
	root := t.TempDir()
	if _, err := writeStarter(root); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", filepath.Join(root, "logref.yaml"), "--check", "--ui", "off", "--color", "off")
	if exitCode(err) != exitSetup || !errors.Is(err, driver.ErrNoSourceFiles) {
		t.Fatalf("empty tree: err = %v\n%s", err, out)
	}
}
