// Package report renders run results for people (colored text) and for
// tools (JSON).
package report

import (
	"logref/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeRelative shows paths relative to the configuration directory.
	PathModeRelative PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeBasename
)

// Options configures both renderers.
type Options struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Context prints the offending source line under each diagnostic.
	Context bool
	Timings bool
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("relative", fs.BaseDir())
	}
}
