// Package deps checks for the external binaries shotdate shells out to.
package deps
