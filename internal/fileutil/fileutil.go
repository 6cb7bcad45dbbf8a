package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// CopyFileExclusive streams src to a new file at dst created with the given
// mode. It never overwrites: if dst exists the returned error satisfies
// errors.Is(err, fs.ErrExist). A partially written dst is removed on failure.
func CopyFileExclusive(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return written, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	return written, nil
}

// afterCopy runs between writing dst and re-reading it for verification.
var afterCopy = func(string) {}

// CopyFileVerified behaves like CopyFileExclusive, then re-reads dst from
// disk and compares its size and SHA256 with the source bytes. dst is
// removed on mismatch.
func CopyFileVerified(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return 0, err
	}

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	afterCopy(dst)

	if err := verifyCopy(dst, written, hex.EncodeToString(srcHasher.Sum(nil))); err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	return written, nil
}

func verifyCopy(dst string, wantSize int64, wantHash string) error {
	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("stat copy: %w", err)
	}
	if info.Size() != wantSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", wantSize, info.Size())
	}
	got, err := HashFile(dst)
	if err != nil {
		return fmt.Errorf("hash copy: %w", err)
	}
	if got != wantHash {
		return fmt.Errorf("copy hash mismatch: destination sha256 %s, source %s", got, wantHash)
	}
	return nil
}

// PreserveTimes copies the access and modification times of src onto dst.
func PreserveTimes(src, dst string) error {
	atime, mtime, err := FileTimes(src)
	if err != nil {
		return err
	}
	return os.Chtimes(dst, atime, mtime)
}

// FileTimes returns the access and modification times of path.
func FileTimes(path string) (time.Time, time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, time.Time{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return time.Unix(st.Atim.Unix()), time.Unix(st.Mtim.Unix()), nil
}

// HashFile returns the hex encoded SHA256 of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
