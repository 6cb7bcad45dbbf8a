// Package scan discovers candidate media files beneath a source root.
//
// Discovery is a pure function of file-system state: no files are opened or
// written, symlinked directories are not followed, and the result is sorted
// by absolute path so repeated runs process files in the same order.
package scan
