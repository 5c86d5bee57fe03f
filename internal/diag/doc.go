// Package diag defines the diagnostic model shared by every phase of a run.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     scanner, the reference extractor, the ledger and the patch applier.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform IO or CLI integration. Rendering lives in
// internal/report; the driver owns aggregation across files.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the canonical source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages, e.g. the first owner of a
//     duplicated reference.
//
// # Code ranges
//
//	1000-1999  SCN  parse faults; scanning of the file stops, other files proceed
//	2000-2999  REF  consistency faults; the run recovers by self-healing
//	3000-3999  IO   read and write failures of single files
//	4000-4999  CCH  lock file problems; the cache is treated as absent
//	5000-5999  FND  findings (missing and inserted references)
//
// Configuration faults never become diagnostics: they are Go errors that stop
// the run before any file is scanned.
package diag
