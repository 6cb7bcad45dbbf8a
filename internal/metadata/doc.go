// Package metadata turns raw per-file tag maps into typed Records.
//
// Capture date selection follows a fixed tag priority per media kind and a
// missing date is a normal state, not an error. Camera make and model are
// reduced to a small token set by an ordered rule table; anything the table
// does not recognise becomes UNKNOWN.
package metadata
