// Package extract reads raw capture tags for batches of media files.
//
// ExifTool shells out to the exiftool binary once per batch; Native decodes
// EXIF in process for environments without it. Bisect wraps either one with a
// bounded halve-and-retry policy so a single unreadable file does not cost a
// whole batch. Results are keyed by Key(path).
package extract
