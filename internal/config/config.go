// Package config loads and validates the logref configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"logref/internal/logging"
	"logref/internal/scanner"
	"logref/internal/source"
)

// FileNames are searched in this order by Find.
var FileNames = []string{"logref.yaml", "logref.yml", "logref.toml"}

var (
	// ErrNoConfig is returned by Find when no configuration file exists.
	ErrNoConfig = errors.New("no logref configuration found")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// MacroSpec names one logging macro.
type MacroSpec struct {
	Module string `yaml:"module" toml:"module"`
	Name   string `yaml:"name" toml:"name"`
}

// Rust holds the language section.
type Rust struct {
	LogMacros  []MacroSpec `yaml:"log_macros" toml:"log_macros"`
	Extensions []string    `yaml:"extensions" toml:"extensions"`
}

// Config is a loaded configuration.
type Config struct {
	SourceDir  string `yaml:"source_dir" toml:"source_dir"`
	Structured bool   `yaml:"structured" toml:"structured"`
	UseCache   bool   `yaml:"use_cache" toml:"use_cache"`
	Rust       Rust   `yaml:"rust" toml:"rust"`

	// Path is the absolute path of the file the config was read from.
	Path string `yaml:"-" toml:"-"`
}

func defaults() Config {
	return Config{UseCache: true}
}

// Load reads the configuration at path. The format is chosen by extension.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// #nosec G304 -- user-supplied configuration path
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, filepath.Ext(abs))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = abs
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.New("config").Debug("configuration loaded", logging.FieldPath, abs,
		"macros", len(cfg.Rust.LogMacros), "structured", cfg.Structured)
	return &cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty file", ErrInvalid)
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.SourceDir) == "" {
		return fmt.Errorf("%w: missing source_dir", ErrInvalid)
	}
	if len(c.Rust.LogMacros) == 0 {
		return fmt.Errorf("%w: missing rust.log_macros", ErrInvalid)
	}
	for i, m := range c.Rust.LogMacros {
		m.Name = strings.TrimSpace(m.Name)
		m.Module = strings.TrimPrefix(strings.TrimSpace(m.Module), "::")
		if !isIdent(m.Name) {
			return fmt.Errorf("%w: rust.log_macros[%d]: invalid name %q", ErrInvalid, i, m.Name)
		}
		if m.Module != "" {
			for _, seg := range strings.Split(m.Module, "::") {
				if !isIdent(seg) {
					return fmt.Errorf("%w: rust.log_macros[%d]: invalid module %q", ErrInvalid, i, m.Module)
				}
			}
		}
		c.Rust.LogMacros[i] = m
	}

	if len(c.Rust.Extensions) == 0 {
		c.Rust.Extensions = []string{"rs"}
	}
	exts := make([]string, 0, len(c.Rust.Extensions))
	for _, e := range c.Rust.Extensions {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e == "" {
			return fmt.Errorf("%w: empty entry in rust.extensions", ErrInvalid)
		}
		if !slices.Contains(exts, e) {
			exts = append(exts, e)
		}
	}
	c.Rust.Extensions = exts
	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// Root is the directory containing the configuration file.
func (c *Config) Root() string {
	return filepath.Dir(c.Path)
}

// SourceRoot resolves source_dir against Root.
func (c *Config) SourceRoot() string {
	if filepath.IsAbs(c.SourceDir) {
		return filepath.Clean(c.SourceDir)
	}
	return filepath.Join(c.Root(), filepath.FromSlash(c.SourceDir))
}

// Macros converts the configured macros for the scanner.
func (c *Config) Macros() []scanner.Macro {
	out := make([]scanner.Macro, 0, len(c.Rust.LogMacros))
	for _, m := range c.Rust.LogMacros {
		out = append(out, scanner.Macro{Module: m.Module, Name: m.Name})
	}
	return out
}

// Digest fingerprints the fields that change what a scan finds: the macro
// set, the placement mode and the extensions. Cached file records made
// under a different digest are discarded.
func (c *Config) Digest() uint64 {
	macros := make([]string, 0, len(c.Rust.LogMacros))
	for _, m := range c.Rust.LogMacros {
		macros = append(macros, m.Module+"::"+m.Name)
	}
	slices.Sort(macros)
	exts := slices.Clone(c.Rust.Extensions)
	slices.Sort(exts)

	parts := [][]byte{
		[]byte("structured=" + strconv.FormatBool(c.Structured)),
		[]byte("macros=" + strings.Join(macros, ",")),
		[]byte("ext=" + strings.Join(exts, ",")),
	}
	return source.Hash64(parts...)
}

// Find walks up from startDir looking for one of FileNames.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNoConfig
}
