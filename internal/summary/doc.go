// Package summary aggregates per-run statistics.
package summary
