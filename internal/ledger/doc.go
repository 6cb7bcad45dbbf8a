// Package ledger records shotdate run history in a local SQLite database.
//
// Each run gets one row in runs with its final counters, and every processed
// file gets one row in outcomes. The pipeline treats the ledger as best
// effort: write failures are logged and never change what happens on disk.
package ledger
