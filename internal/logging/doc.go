// Package logging assembles structured slog loggers and the persisted run
// artifacts of a pipeline run.
//
// It owns the configurable console/JSON handlers, fans diagnostic output out
// to a log file, and exposes helpers so pipeline code tags lines with run IDs
// and consistent field names. RunLog and ErrorLog are the append-only
// run.log and error.log files written under each result tree.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
