package copier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shotdate/internal/fileutil"
)

// Status is the outcome of a single copy.
type Status int

const (
	StatusCopied Status = iota
	StatusSkippedExists
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusSkippedExists:
		return "skipped-exists"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes what Copy did. Message is set for skips and failures.
type Result struct {
	Status  Status
	Message string
	Bytes   int64
}

// Copier transfers files to already resolved destinations.
type Copier struct {
	verify bool
}

// New returns a Copier. With verify set every copy is checked by size and
// SHA256 before it is reported as copied.
func New(verify bool) *Copier {
	return &Copier{verify: verify}
}

// Copy writes src to dst, creating parent directories and preserving access
// and modification times. An existing dst is never touched and yields
// StatusSkippedExists. Errors are reported in the Result, never returned or
// raised.
func (c *Copier) Copy(src, dst string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			_ = os.Remove(dst)
			res = Result{Status: StatusFailed, Message: fmt.Sprintf("copy panic: %v", r)}
		}
	}()

	if _, err := os.Lstat(dst); err == nil {
		return skippedExists(dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return failed("stat destination", err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return failed("stat source", err)
	}
	if !info.Mode().IsRegular() {
		return Result{Status: StatusFailed, Message: fmt.Sprintf("source %s is not a regular file", src)}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return failed("create destination directory", err)
	}

	mode := info.Mode().Perm()
	var written int64
	if c != nil && c.verify {
		written, err = fileutil.CopyFileVerified(src, dst, mode)
	} else {
		written, err = fileutil.CopyFileExclusive(src, dst, mode)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return skippedExists(dst)
		}
		return failed("copy", err)
	}

	if err := fileutil.PreserveTimes(src, dst); err != nil {
		_ = os.Remove(dst)
		return failed("preserve times", err)
	}
	return Result{Status: StatusCopied, Bytes: written}
}

func skippedExists(dst string) Result {
	return Result{Status: StatusSkippedExists, Message: fmt.Sprintf("destination already exists: %s", dst)}
}

func failed(op string, err error) Result {
	return Result{Status: StatusFailed, Message: fmt.Sprintf("%s: %v", op, err)}
}
