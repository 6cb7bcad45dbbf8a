// Package preflight provides readiness checks for the filesystem paths and
// external binaries shotdate depends on.
//
// The pipeline calls EnsureWritableDir before touching any file so an
// unwritable destination aborts the run early. The CLI "shotdate check"
// command runs RunAll and renders the results as a table.
package preflight
