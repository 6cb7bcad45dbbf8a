// Package fileutil holds low level file copy helpers that never overwrite an
// existing destination.
package fileutil
