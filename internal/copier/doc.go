// Package copier performs the idempotent file transfer step.
//
// Copy targets the exact path it is given, which must already be collision
// resolved. Destinations are created with O_EXCL so a file that appears between
// resolution and copy is reported as skipped instead of overwritten.
package copier
