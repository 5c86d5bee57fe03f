// Package logging configures the tool's own diagnostic logging on top of
// charmbracelet/log.
//
// Every logger writes to stderr; stdout carries the run report only, so
// `logref --format json > report.json` stays machine readable.
//
// Usage:
//
//	// once, from the root command's PersistentPreRun:
//	logging.Setup(logging.Options{Verbose: verbose})
//
//	// per component:
//	log := logging.New("ledger")
//	log.Debug("lock file loaded", logging.FieldPath, path)
//
// Setup must run before New: child loggers copy the default logger's level
// and formatter when they are created.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Level aliases so callers do not import charmbracelet/log directly.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Field names shared by all components.
const (
	FieldError     = "error"
	FieldPath      = "path"
	FieldRun       = "run"
	FieldFiles     = "files"
	FieldMode      = "mode"
	FieldNextID    = "next_id"
	FieldID        = "id"
	FieldJobs      = "jobs"
	FieldDuration  = "duration"
	FieldMissing   = "missing"
	FieldInserted  = "inserted"
	FieldCacheHits = "cache_hits"
)

// Options controls Setup.
type Options struct {
	Verbose bool // debug level
	Quiet   bool // errors only; wins over Verbose
	JSON    bool // JSON lines instead of text
	Output  io.Writer
}

// Setup configures the default logger.
func Setup(opts Options) {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	if opts.Quiet {
		level = log.ErrorLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	log.SetLevel(level)
	log.SetOutput(out)
	log.SetReportTimestamp(opts.Verbose)
	if opts.JSON {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// New creates a logger with the given component prefix.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// Discard returns a logger that drops everything, for tests and library use.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
