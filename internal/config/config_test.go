package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "logref.yaml", `
source_dir: src
structured: true
rust:
  log_macros:
    - module: "::log"
      name: info
    - name: trace
  extensions: [".rs", rs, rsx]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Structured)
	assert.True(t, cfg.UseCache, "use_cache defaults to true")
	assert.Equal(t, []string{"rs", "rsx"}, cfg.Rust.Extensions)
	assert.Equal(t, "log", cfg.Rust.LogMacros[0].Module)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "src"), cfg.SourceRoot())

	macros := cfg.Macros()
	require.Len(t, macros, 2)
	assert.Equal(t, "log::info", macros[0].String())
	assert.Equal(t, "trace", macros[1].String())
}

func TestLoadStarterTemplate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logref.yml", Starter))
	require.NoError(t, err)
	assert.Len(t, cfg.Rust.LogMacros, 5)
	assert.Equal(t, []string{"rs"}, cfg.Rust.Extensions)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "logref.toml", `
source_dir = "crates"
use_cache = false

[[rust.log_macros]]
module = "tracing"
name = "warn"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.UseCache)
	assert.False(t, cfg.Structured)
	assert.Equal(t, []string{"rs"}, cfg.Rust.Extensions)
	assert.Equal(t, "tracing::warn", cfg.Macros()[0].String())
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name, file, body string
	}{
		{"missing source_dir", "c.yaml", "rust:\n  log_macros:\n    - name: info\n"},
		{"no macros", "c.yaml", "source_dir: src\nrust:\n  log_macros: []\n"},
		{"bad name", "c.yaml", "source_dir: src\nrust:\n  log_macros:\n    - name: \"in fo\"\n"},
		{"bad module", "c.yaml", "source_dir: src\nrust:\n  log_macros:\n    - {module: \"a::1b\", name: info}\n"},
		{"unknown yaml key", "c.yaml", "source_dir: src\nsource_dirs: x\nrust:\n  log_macros:\n    - name: info\n"},
		{"unknown toml key", "c.toml", "source_dir = \"src\"\nextra = 1\n[[rust.log_macros]]\nname = \"info\"\n"},
		{"empty", "c.yaml", ""},
		{"syntax", "c.yaml", "source_dir: [\n"},
		{"unsupported ext", "c.json", "{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.file, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidationErrorsAreClassified(t *testing.T) {
	_, err := Load(writeConfig(t, "c.yaml", "source_dir: src\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestDigest(t *testing.T) {
	base := func() *Config {
		return &Config{
			SourceDir: "src",
			Rust: Rust{
				LogMacros:  []MacroSpec{{Module: "log", Name: "info"}, {Name: "warn"}},
				Extensions: []string{"rs"},
			},
		}
	}
	a, b := base(), base()
	b.Rust.LogMacros[0], b.Rust.LogMacros[1] = b.Rust.LogMacros[1], b.Rust.LogMacros[0]
	assert.Equal(t, a.Digest(), b.Digest(), "macro order is irrelevant")

	b.SourceDir = "elsewhere"
	b.UseCache = true
	assert.Equal(t, a.Digest(), b.Digest(), "non-semantic fields are ignored")

	c := base()
	c.Structured = true
	assert.NotEqual(t, a.Digest(), c.Digest())

	d := base()
	d.Rust.LogMacros = d.Rust.LogMacros[:1]
	assert.NotEqual(t, a.Digest(), d.Digest())
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, err := Find(nested)
	// TempDir parents normally carry no logref config
	if !errors.Is(err, ErrNoConfig) {
		t.Skipf("a logref config exists above %s", root)
	}

	want := filepath.Join(root, "logref.toml")
	require.NoError(t, os.WriteFile(want, []byte(""), 0o600))
	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	yml := filepath.Join(root, "a", "logref.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(""), 0o600))
	got, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, yml, got, "nearest directory wins")
}
