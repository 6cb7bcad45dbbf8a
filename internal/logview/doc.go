// Package logview reads the run.log and error.log files of a result tree for
// the CLI. Tail returns the last N lines or everything after a byte offset;
// Follow polls for appended lines until its context ends. Only complete lines
// are returned, so a view never shows a half-written entry from a run that is
// still in progress.
package logview
