// Package ledger owns reference identifier allocation, the in-use set, the
// per-run claims used for duplicate detection and the incremental cache
// persisted in the lock file.
//
// One Ledger is built per run from the lock file and shared by all workers;
// every method is safe for concurrent use.
package ledger

import (
	"errors"
	"sync"

	"logref/internal/reference"
	"logref/internal/source"
)

// ErrExhausted is returned by Allocate when no identifier is left.
var ErrExhausted = errors.New("reference identifiers exhausted")

// Site is the location of a reference in the source tree.
type Site struct {
	Path   string
	Offset uint32
}

// Options configures a Ledger.
type Options struct {
	// UseCache enables fingerprint lookups.
	UseCache bool
	// ConfigDigest invalidates every file record made under another
	// configuration: macro set and placement mode change what a scan finds.
	ConfigDigest uint64
}

type Ledger struct {
	mu     sync.Mutex
	opts   Options
	nextID reference.ID
	inUse  map[reference.ID]struct{}
	owners map[reference.ID]Site
	files  map[string]FileRecord
	// recorded maps ids to the file whose lock file record held them at
	// load time. Record and Forget leave it alone.
	recorded map[reference.ID]string
}

// New creates a ledger whose counter starts at nextID.
func New(nextID reference.ID, opts Options) *Ledger {
	return &Ledger{
		opts:   opts,
		nextID: nextID,
		inUse:  make(map[reference.ID]struct{}),
		owners: make(map[reference.ID]Site),
		files:  make(map[string]FileRecord),
	}
}

// adopt takes the holders of every id from records loaded from a lock file
// and, when install is set, the records themselves. When two records list
// the same id the smaller path is remembered as its holder.
func (l *Ledger) adopt(files map[string]FileRecord, install bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorded = make(map[reference.ID]string)
	for p, rec := range files {
		if install {
			l.files[p] = rec
		}
		for _, id := range rec.Refs {
			if prev, ok := l.recorded[id]; !ok || p < prev {
				l.recorded[id] = p
			}
		}
	}
}

// RecordedHolder returns the file that held id according to the lock file
// this ledger was loaded from.
func (l *Ledger) RecordedHolder(id reference.ID) (path string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	path, ok = l.recorded[id]
	return path, ok
}

// NextID returns the highest identifier handed out or observed so far.
func (l *Ledger) NextID() reference.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextID
}

// Allocate returns a fresh identifier above the counter, skipping ids that
// are already in use, and marks it in use.
func (l *Ledger) Allocate() (reference.ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		if l.nextID == reference.MaxID {
			return 0, ErrExhausted
		}
		l.nextID++
		if _, taken := l.inUse[l.nextID]; !taken {
			l.inUse[l.nextID] = struct{}{}
			return l.nextID, nil
		}
	}
}

// Observe registers an identifier found in the source tree. It reports true
// when id was above the counter; the counter is then advanced to id so that
// it is never behind the largest identifier actually present.
func (l *Ledger) Observe(id reference.ID) (raised bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inUse[id] = struct{}{}
	if id > l.nextID {
		l.nextID = id
		return true
	}
	return false
}

// Claim records site as the owner of id for this run. The first claimant
// wins; later claimants get ok=false together with the owner.
func (l *Ledger) Claim(id reference.ID, site Site) (owner Site, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, taken := l.owners[id]; taken && prev != site {
		return prev, false
	}
	l.owners[id] = site
	return site, true
}

// InUse reports whether id is taken.
func (l *Ledger) InUse(id reference.ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inUse[id]
	return ok
}

// UseCache reports whether file records are consulted.
func (l *Ledger) UseCache() bool {
	return l.opts.UseCache
}

// ===== incremental cache =====

// FileRecord is the cached outcome of scanning one file.
type FileRecord struct {
	Fingerprint source.Fingerprint `msgpack:"fp"`
	Refs        []reference.ID     `msgpack:"refs"`
	// Ignored counts statements skipped by the ignore directive.
	Ignored int `msgpack:"ignored"`
}

// Lookup returns the record of path when the cache is enabled and fp
// matches the stored fingerprint.
func (l *Ledger) Lookup(path string, fp source.Fingerprint) (FileRecord, bool) {
	if !l.opts.UseCache {
		return FileRecord{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.files[path]
	if !ok || rec.Fingerprint != fp {
		return FileRecord{}, false
	}
	rec.Refs = append([]reference.ID(nil), rec.Refs...)
	return rec, true
}

// Record stores the outcome of a fully referenced file. Records are kept
// with the cache disabled too: they tell the next run which file holds an id.
func (l *Ledger) Record(path string, rec FileRecord) {
	rec.Refs = append([]reference.ID(nil), rec.Refs...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[path] = rec
}

// Forget drops the record of path so the next run rescans it.
func (l *Ledger) Forget(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.files, path)
}

// Retain drops records of every path not in keep (deleted or renamed files).
func (l *Ledger) Retain(keep []string) {
	set := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		set[p] = struct{}{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for p := range l.files {
		if _, ok := set[p]; !ok {
			delete(l.files, p)
		}
	}
}

// Snapshot returns the persistable state.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := State{
		Schema:       SchemaVersion,
		NextID:       l.nextID,
		ConfigDigest: l.opts.ConfigDigest,
		Files:        make(map[string]FileRecord, len(l.files)),
	}
	for p, rec := range l.files {
		st.Files[p] = rec
	}
	return st
}
