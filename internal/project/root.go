// Package project enumerates the source tree a run operates on.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LockFileName is the ledger file stored next to the configuration.
const LockFileName = "logref.lock"

// ErrNotDir is returned when the source root is not a directory.
var ErrNotDir = errors.New("source root is not a directory")

// skipDirs are never descended into. Hidden directories are skipped too.
var skipDirs = map[string]struct{}{
	"target":       {},
	"node_modules": {},
}

// LockPath returns the lock file location for a configuration file.
func LockPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), LockFileName)
}

// ListSourceFiles returns the sorted list of files under root whose
// extension (without the dot) is one of exts.
func ListSourceFiles(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		want[strings.TrimPrefix(e, ".")] = struct{}{}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if _, ok := want[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	_, ok := skipDirs[name]
	return ok
}
