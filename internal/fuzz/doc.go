
// Package fuzztests houses Go fuzz harnesses that exercise the front of the
// pipeline (source -> lexer -> scanner -> directive resolver). Its goal is to
// guard against panics, hangs and out-of-range spans on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер и сканер.
//
// Не делает: запись файлов, работу с ledger, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/scanner,
// internal/directive, internal/diag.

package fuzztests
