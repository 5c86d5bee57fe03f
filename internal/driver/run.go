// Package driver runs the reference-assignment pipeline over a source tree:
// enumerate, scan, claim, allocate, patch, persist.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"logref/internal/config"
	"logref/internal/diag"
	"logref/internal/directive"
	"logref/internal/fix"
	"logref/internal/ledger"
	"logref/internal/logging"
	"logref/internal/observ"
	"logref/internal/project"
	"logref/internal/reference"
	"logref/internal/scanner"
	"logref/internal/source"
)

// Options configures a run.
type Options struct {
	Config *config.Config
	Mode   Mode
	// Jobs bounds the worker pool; <= 0 means GOMAXPROCS.
	Jobs int
	// LockPath overrides the lock file location next to the configuration.
	LockPath string
	Progress ProgressSink
	// WriteFile replaces fix.WriteFile.
	WriteFile func(path string, content []byte) error
}

// fileState is owned by one worker at a time; the serial phases read it
// between the parallel ones.
type fileState struct {
	path string
	rel  string
	file *source.File
	bag  *diag.Bag
	rep  *diag.OnceReporter

	cached bool
	refs   []reference.ID      // from the ledger cache
	swept  []reference.Mention // ids of a file that stopped on a parse fault

	cands []scanner.Candidate
	exts  []reference.Extraction
	ids   []reference.ID // allocated, parallel to cands

	out FileOutcome
}

// reporter drops repeats of the same code at the same span, which a
// collision rescan of a previously cached file would otherwise produce.
func (st *fileState) reporter() diag.Reporter {
	if st.rep == nil {
		st.rep = diag.NewOnceReporter(diag.BagReporter{Bag: st.bag})
	}
	return st.rep
}

func (st *fileState) usable() bool {
	return st.file != nil && !st.out.Skipped()
}

type run struct {
	opts    Options
	cfg     *config.Config
	log     *log.Logger
	fs      *source.FileSet
	macros  *scanner.MacroSet
	ledger  *ledger.Ledger
	lock    string
	lockBag *diag.Bag
	lockID  source.FileID
	timer   *observ.Timer
	files   []*fileState
	jobs    int
}

// Run executes one pass over the configured source tree. The returned error
// covers faults that stop the run before or while scanning (enumeration,
// cancellation); per-file faults are in the Result and surface through
// Result.Err.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("driver: nil config")
	}
	runID := uuid.NewString()
	r := &run{
		opts:    opts,
		cfg:     opts.Config,
		log:     logging.New("driver").With(logging.FieldRun, runID),
		fs:      source.NewFileSetWithBase(opts.Config.Root()),
		macros:  scanner.NewMacroSet(opts.Config.Macros()),
		lock:    opts.LockPath,
		lockBag: diag.NewBag(0),
		timer:   observ.NewTimer(),
		jobs:    opts.Jobs,
	}
	if r.lock == "" {
		r.lock = project.LockPath(r.cfg.Path)
	}
	if r.jobs <= 0 {
		r.jobs = runtime.GOMAXPROCS(0)
	}
	if r.opts.WriteFile == nil {
		r.opts.WriteFile = fix.WriteFile
	}
	started := time.Now()
	r.log.Debug("run started", logging.FieldMode, opts.Mode, logging.FieldJobs, r.jobs)

	if err := r.enumerate(); err != nil {
		return nil, err
	}
	r.openLedger()

	if err := r.scanAll(ctx); err != nil {
		return r.result(runID), err
	}
	r.claim()
	if opts.Mode == ModeEdit {
		r.allocate()
	}
	if err := r.patchAll(ctx); err != nil {
		return r.result(runID), err
	}
	if opts.Mode == ModeEdit {
		r.save()
	}

	res := r.result(runID)
	r.log.Debug("run finished",
		logging.FieldFiles, res.Totals.Files,
		logging.FieldMissing, res.Totals.Missing,
		logging.FieldInserted, res.Totals.Inserted,
		logging.FieldCacheHits, res.Totals.CacheHits,
		logging.FieldNextID, res.NextID,
		logging.FieldDuration, time.Since(started))
	return res, nil
}

// ===== phases =====

func (r *run) enumerate() error {
	idx := r.timer.Begin("enumerate")
	paths, err := project.ListSourceFiles(r.cfg.SourceRoot(), r.cfg.Rust.Extensions)
	if err != nil {
		r.timer.End(idx, "")
		return fmt.Errorf("enumerate sources: %w", err)
	}
	if len(paths) == 0 {
		r.timer.End(idx, "")
		return fmt.Errorf("%w in %s (extensions %v)", ErrNoSourceFiles, r.cfg.SourceRoot(), r.cfg.Rust.Extensions)
	}
	r.files = make([]*fileState, len(paths))
	for i, p := range paths {
		rel, relErr := filepath.Rel(r.cfg.Root(), p)
		if relErr != nil {
			rel = p
		}
		r.files[i] = &fileState{path: p, rel: filepath.ToSlash(rel), bag: diag.NewBag(0)}
		r.files[i].out.Path = r.files[i].rel
		r.emit(Event{File: r.files[i].rel, Stage: StageScan, Status: StatusQueued})
	}
	r.timer.End(idx, fmt.Sprintf("%d files", len(paths)))
	return nil
}

// openLedger loads the lock file. Every failure degrades to a cold cache.
func (r *run) openLedger() {
	r.lockID = r.fs.AddVirtual(r.lock, nil)
	opts := ledger.Options{UseCache: r.cfg.UseCache, ConfigDigest: r.cfg.Digest()}
	l, err := ledger.Load(r.lock, opts)
	r.ledger = l
	if err == nil {
		return
	}
	code := diag.CacheCorrupt
	if errors.Is(err, ledger.ErrSchema) {
		code = diag.CacheSchema
	}
	diag.ReportWarning(diag.BagReporter{Bag: r.lockBag}, code, source.Span{File: r.lockID},
		fmt.Sprintf("%v; rebuilding from the source tree", err)).Emit()
	r.log.Warn("lock file ignored", logging.FieldPath, r.lock, logging.FieldError, err)
}

func (r *run) scanAll(ctx context.Context) error {
	idx := r.timer.Begin("scan")
	all := make([]int, len(r.files))
	for i := range all {
		all[i] = i
	}
	err := r.parallel(ctx, StageScan, all, r.scanFile)
	if err != nil {
		r.timer.End(idx, "interrupted")
		return err
	}

	// id встречается больше одного раза: кешированные владельцы
	// пересканируются, чтобы дубликаты получили позиции.
	rescan := r.collisions()
	if len(rescan) > 0 {
		r.log.Debug("rescanning cached files with colliding ids", logging.FieldFiles, len(rescan))
		err = r.parallel(ctx, StageScan, rescan, func(st *fileState) {
			st.cached = false
			st.refs = nil
			st.out.Cached = false
			r.scan(st)
		})
	}
	r.timer.End(idx, fmt.Sprintf("%d rescanned", len(rescan)))
	return err
}

func (r *run) scanFile(st *fileState) {
	id, err := r.fs.Load(st.path)
	if err != nil {
		id = r.fs.Add(st.path, nil, source.FileVirtual)
		st.out.FileID = id
		st.out.ReadErr = err
		diag.ReportError(st.reporter(), diag.IOReadFile, source.Span{File: id}, err.Error()).Emit()
		r.ledger.Forget(st.rel)
		return
	}
	st.file = r.fs.Get(id)
	st.out.FileID = id

	if rec, ok := r.ledger.Lookup(st.rel, st.file.Fingerprint); ok {
		st.cached = true
		st.refs = rec.Refs
		st.out.Cached = true
		st.out.Candidates = len(rec.Refs) + rec.Ignored
		st.out.Present = len(rec.Refs)
		st.out.Ignored = rec.Ignored
		return
	}
	r.scan(st)
}

func (r *run) scan(st *fileState) {
	rep := st.reporter()
	cands, ok := scanner.Collect(st.file, r.macros, scanner.Options{Reporter: rep})
	if !ok {
		st.out.ParseFault = true
		st.swept = reference.Sweep(st.file.Content)
		r.ledger.Forget(st.rel)
		r.log.Debug("parse fault, file skipped", logging.FieldPath, st.rel)
		return
	}
	directive.Resolve(st.file, cands)

	st.cands = cands
	st.exts = make([]reference.Extraction, len(cands))
	st.ids = make([]reference.ID, len(cands))
	st.out.Candidates = len(cands)
	for i := range cands {
		st.exts[i] = reference.Classify(&cands[i], r.cfg.Structured, rep)
	}
}

// collisions returns cached files holding an id that occurs more than once
// across the tree.
func (r *run) collisions() []int {
	count := make(map[reference.ID]int)
	for _, st := range r.files {
		for _, id := range st.refs {
			count[id]++
		}
		for _, m := range st.swept {
			count[m.ID]++
		}
		for _, ext := range st.exts {
			if ext.Status == reference.Present {
				count[ext.ID]++
			}
		}
	}
	var out []int
	for i, st := range r.files {
		for _, id := range st.refs {
			if count[id] > 1 {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// claimSite is one occurrence of an identifier that takes part in claims.
type claimSite struct {
	st  *fileState
	id  reference.ID
	at  source.Span
	off uint32
	ext *reference.Extraction // nil for ids swept from an unparsed file
}

// claim observes every present identifier and decides who keeps ids that
// occur more than once. Claims go in three rounds, each in (path, offset)
// order: occurrences in the file the lock file recorded as the holder, ids
// of files that stopped on a parse fault (they cannot be rewritten), then
// everything else. A later claimant of a taken id is demoted to missing.
func (r *run) claim() {
	idx := r.timer.Begin("claim")
	r.emit(Event{Stage: StageClaim, Status: StatusWorking})

	before := r.ledger.NextID()
	var (
		maxID   reference.ID
		maxSpan source.Span
		maxFile *fileState
		dups    int
		rounds  [3][]claimSite
	)
	observe := func(st *fileState, id reference.ID, sp source.Span) {
		r.ledger.Observe(id)
		if id > maxID {
			maxID, maxSpan, maxFile = id, sp, st
		}
	}

	for _, st := range r.files {
		switch {
		case st.cached:
			for _, id := range st.refs {
				observe(st, id, source.Span{File: st.file.ID})
			}
		case st.out.ParseFault:
			for _, m := range st.swept {
				sp := source.Span{File: st.file.ID, Start: m.Offset, End: m.Offset}
				observe(st, m.ID, sp)
				rounds[1] = append(rounds[1], claimSite{st: st, id: m.ID, at: sp, off: m.Offset})
			}
		default:
			for i := range st.cands {
				ext := &st.exts[i]
				if ext.Status != reference.Present {
					continue
				}
				at := *ext.At
				observe(st, ext.ID, at)
				site := claimSite{st: st, id: ext.ID, at: at, off: st.cands[i].Span.Start, ext: ext}
				if holder, ok := r.ledger.RecordedHolder(ext.ID); ok && holder == st.rel {
					rounds[0] = append(rounds[0], site)
				} else {
					rounds[2] = append(rounds[2], site)
				}
			}
		}
	}

	for _, round := range rounds {
		for _, c := range round {
			owner, ok := r.ledger.Claim(c.id, ledger.Site{Path: c.st.rel, Offset: c.off})
			if ok || c.ext == nil {
				// id из нераспарсенного файла переписать нельзя
				continue
			}
			dups++
			b := diag.ReportWarning(c.st.reporter(), diag.RefDuplicate, c.at,
				fmt.Sprintf("reference %d is already used by another statement; this one is treated as missing", c.id))
			*c.ext = c.ext.Demote()
			if of := r.stateOf(owner.Path); of != nil && of.file != nil {
				b = b.WithNote(source.Span{File: of.file.ID, Start: owner.Offset, End: owner.Offset}, "first used here")
			}
			b.Emit()
		}
	}

	if after := r.ledger.NextID(); before > 0 && after > before && maxFile != nil {
		diag.ReportWarning(maxFile.reporter(), diag.RefCounterBehind, maxSpan,
			fmt.Sprintf("lock file counter %d is behind reference %d found in the source tree; counter advanced", before, maxID)).Emit()
	}
	r.emit(Event{Stage: StageClaim, Status: StatusDone})
	r.timer.End(idx, fmt.Sprintf("%d duplicates", dups))
}

// allocate hands out identifiers serially in (path, offset) order so that
// a run over a fixed tree is deterministic.
func (r *run) allocate() {
	idx := r.timer.Begin("allocate")
	n := 0
	for _, st := range r.files {
		for i := range st.cands {
			if st.exts[i].Status != reference.Missing {
				continue
			}
			id, err := r.ledger.Allocate()
			if err != nil {
				diag.ReportError(st.reporter(), diag.RefExhausted, st.cands[i].Format.Span, err.Error()).Emit()
				continue
			}
			st.ids[i] = id
			n++
		}
	}
	r.timer.End(idx, fmt.Sprintf("%d ids", n))
}

func (r *run) patchAll(ctx context.Context) error {
	idx := r.timer.Begin("patch")
	var work []int
	for i, st := range r.files {
		if st.usable() {
			work = append(work, i)
		}
	}
	err := r.parallel(ctx, StagePatch, work, r.patchFile)
	r.timer.End(idx, fmt.Sprintf("%d files", len(work)))
	return err
}

func (r *run) patchFile(st *fileState) {
	if st.cached {
		return
	}

	var (
		edits    []fix.Edit
		pending  []Finding
		refs     []reference.ID
		complete = true
	)
	for i := range st.cands {
		c := &st.cands[i]
		ext := st.exts[i]
		finding := Finding{Code: diag.FindMissing, Span: c.Format.Span, Pos: c.Pos, Macro: c.Name()}

		switch ext.Status {
		case reference.Ignored:
			st.out.Ignored++
		case reference.Present:
			st.out.Present++
			refs = append(refs, ext.ID)
		case reference.Unpatchable:
			complete = false
			st.out.Unresolved++
			st.out.Findings = append(st.out.Findings, finding)
		case reference.Missing:
			complete = false
			if r.opts.Mode == ModeCheck {
				st.out.Findings = append(st.out.Findings, finding)
				continue
			}
			if st.ids[i] == 0 {
				st.out.Unresolved++
				st.out.Findings = append(st.out.Findings, finding)
				continue
			}
			edits = append(edits, reference.Edit(c, ext, st.ids[i]))
			finding.ID = st.ids[i]
			pending = append(pending, finding)
			refs = append(refs, st.ids[i])
		}
	}

	if len(edits) == 0 {
		if complete {
			r.ledger.Record(st.rel, ledger.FileRecord{Fingerprint: st.file.Fingerprint, Refs: refs, Ignored: st.out.Ignored})
		}
		return
	}

	plan, err := fix.NewPlan(st.file.Content, edits)
	if err != nil {
		diag.ReportError(st.reporter(), diag.RefUnpatchable, source.Span{File: st.file.ID}, err.Error()).Emit()
		st.out.Unresolved += len(edits)
		st.out.Findings = append(st.out.Findings, stripIDs(pending)...)
		r.ledger.Forget(st.rel)
		return
	}
	content := plan.Apply(st.file.Content)
	if err := r.opts.WriteFile(st.path, content); err != nil {
		st.out.WriteErr = err
		diag.ReportError(st.reporter(), diag.IOWriteFile, source.Span{File: st.file.ID}, err.Error()).Emit()
		st.out.Findings = append(st.out.Findings, stripIDs(pending)...)
		r.ledger.Forget(st.rel)
		r.log.Warn("write failed", logging.FieldPath, st.rel, logging.FieldError, err)
		return
	}

	st.out.Written = true
	for i := range pending {
		pending[i].Code = diag.FindInserted
	}
	st.out.Findings = append(st.out.Findings, pending...)
	if st.out.Unresolved == 0 && st.out.Missing() == 0 {
		r.ledger.Record(st.rel, ledger.FileRecord{Fingerprint: source.Fingerprinted(content), Refs: refs, Ignored: st.out.Ignored})
	} else {
		r.ledger.Forget(st.rel)
	}
	r.log.Debug("file patched", logging.FieldPath, st.rel, logging.FieldInserted, len(pending))
}

func stripIDs(fs []Finding) []Finding {
	out := make([]Finding, len(fs))
	for i, f := range fs {
		f.ID = 0
		out[i] = f
	}
	return out
}

// save persists the ledger. Records of files no longer in the tree are
// dropped. A failed save is a cache fault: the edits are already on disk
// and the next run re-derives the counter from them.
func (r *run) save() {
	idx := r.timer.Begin("save")
	r.emit(Event{Stage: StageSave, Status: StatusWorking})
	keep := make([]string, 0, len(r.files))
	for _, st := range r.files {
		keep = append(keep, st.rel)
	}
	r.ledger.Retain(keep)
	if err := r.ledger.Save(r.lock); err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: r.lockBag}, diag.CacheSave, source.Span{File: r.lockID}, err.Error()).Emit()
		r.emit(Event{Stage: StageSave, Status: StatusError, Err: err})
	} else {
		r.emit(Event{Stage: StageSave, Status: StatusDone})
	}
	r.timer.End(idx, "")
}

// ===== helpers =====

// parallel runs fn over the selected files in a bounded pool. Cancellation
// is observed between files only.
func (r *run) parallel(ctx context.Context, stage Stage, idx []int, fn func(*fileState)) error {
	if len(idx) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(idx)))
	for _, i := range idx {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			st := r.files[i]
			start := time.Now()
			r.emit(Event{File: st.rel, Stage: stage, Status: StatusWorking})
			fn(st)
			status := StatusDone
			if st.out.Skipped() || st.out.WriteErr != nil {
				status = StatusError
			}
			r.emit(Event{File: st.rel, Stage: stage, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	return g.Wait()
}

func (r *run) emit(ev Event) {
	if r.opts.Progress != nil {
		r.opts.Progress.OnEvent(ev)
	}
}

func (r *run) stateOf(rel string) *fileState {
	for _, st := range r.files {
		if st.rel == rel {
			return st
		}
	}
	return nil
}

func (r *run) result(runID string) *Result {
	res := &Result{
		RunID:   runID,
		Mode:    r.opts.Mode,
		FileSet: r.fs,
		Files:   make([]FileOutcome, 0, len(r.files)),
		NextID:  r.ledger.NextID(),
		Timing:  r.timer.Report(),
	}
	all := diag.NewBag(0)
	all.Merge(r.lockBag)
	for _, st := range r.files {
		res.Files = append(res.Files, st.out)
		all.Merge(st.bag)
	}
	all.Sort()
	res.Diagnostics = all.Items()
	res.tally()
	return res
}
