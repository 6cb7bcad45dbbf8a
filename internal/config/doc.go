// Package config loads, normalizes, and validates shotdate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SHOTDATE_EXIFTOOL environment
// fallback for the metadata binary. The Config type centralizes the knobs the
// pipeline and CLI need: chunk sizing, the reserved result directory name,
// extractor selection, ledger location, and log settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
