// Package pipeline runs the shot-date renaming workflow for one source tree.
//
// A Runner validates the source and result roots, takes a per-tree flock,
// scans for media, extracts metadata chunk by chunk, plans each file,
// resolves destination collisions and copies. Progress and outcomes are
// published as events and mirrored to run.log and error.log inside the
// result root. Per-file and per-chunk failures are counted and logged; only
// validation failures and recovered panics abort a run.
package pipeline
