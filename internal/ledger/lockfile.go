package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"logref/internal/logging"
	"logref/internal/reference"
)

// SchemaVersion is bumped whenever State changes shape.
const SchemaVersion uint16 = 2

var (
	// ErrCorrupt means the lock file could not be decoded. The ledger is
	// rebuilt from the references found in the source tree.
	ErrCorrupt = errors.New("lock file is corrupt")
	// ErrSchema means the lock file was written by an incompatible version.
	ErrSchema = errors.New("lock file schema mismatch")
)

// State is the persisted form of a Ledger.
type State struct {
	Schema       uint16                `msgpack:"schema"`
	NextID       reference.ID          `msgpack:"next_id"`
	ConfigDigest uint64                `msgpack:"config"`
	Files        map[string]FileRecord `msgpack:"files"`
}

// Load reads the lock file at path. A missing file yields an empty ledger.
// A damaged or foreign file also yields a usable ledger together with an
// error wrapping ErrCorrupt or ErrSchema: the lock file is advisory and a
// bad one must never stop a run.
func Load(path string, opts Options) (*Ledger, error) {
	log := logging.New("ledger")

	// #nosec G304 -- path is derived from the configuration location
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("no lock file, starting empty", logging.FieldPath, path)
			return New(0, opts), nil
		}
		return New(0, opts), fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn("failed to close lock file", logging.FieldPath, path, logging.FieldError, closeErr)
		}
	}()

	var st State
	if err := msgpack.NewDecoder(f).Decode(&st); err != nil {
		return New(0, opts), fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	if st.Schema != SchemaVersion {
		// счётчик монотонный и формат-независимый: сохраняем его
		return New(st.NextID, opts), fmt.Errorf("%w: %s: got %d, want %d", ErrSchema, path, st.Schema, SchemaVersion)
	}

	l := New(st.NextID, opts)
	if st.ConfigDigest != opts.ConfigDigest {
		// другой набор макросов: записи не годятся как кеш, но владельцев id помним
		log.Debug("configuration changed, dropping cached files", logging.FieldPath, path)
		l.adopt(st.Files, false)
		return l, nil
	}
	l.adopt(st.Files, true)
	log.Debug("lock file loaded", logging.FieldPath, path,
		logging.FieldNextID, st.NextID, logging.FieldFiles, len(st.Files))
	return l, nil
}

// Save writes the ledger to path atomically: the state goes to a temp file
// in the same directory which is then renamed over path.
func (l *Ledger) Save(path string) (err error) {
	st := l.Snapshot()

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".logref-lock-*")
	if err != nil {
		return fmt.Errorf("create temp lock file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	enc := msgpack.NewEncoder(f)
	enc.SetSortMapKeys(true)
	if err = enc.Encode(&st); err != nil {
		return fmt.Errorf("encode lock file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp lock file: %w", err)
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("replace lock file: %w", err)
	}
	logging.New("ledger").Debug("lock file saved", logging.FieldPath, path,
		logging.FieldNextID, st.NextID, logging.FieldFiles, len(st.Files))
	return nil
}
