package collision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shotdate/internal/patterns"
)

// MtimeTolerance is the largest modification time difference at which two
// files of equal size are still treated as the same copy.
const MtimeTolerance = 100 * time.Millisecond

// Resolution is the outcome of resolving a destination path.
type Resolution struct {
	// Path is the collision free destination, or the existing equivalent file.
	Path string
	// Existing is true when Path already holds a copy of the source.
	Existing bool
	// Renamed counts how many candidate names were generated.
	Renamed int
}

// Collided reports whether the desired destination had to be renamed.
func (r Resolution) Collided() bool {
	return r.Renamed > 0
}

// Resolve turns dst into a destination that does not clash with a different
// file. A free dst is returned unchanged. An existing dst that matches src by
// size and modification time is returned with Existing set so the caller can
// skip the copy. Otherwise a new name is derived until a free or equivalent
// path is found.
func Resolve(src, dst string) (Resolution, error) {
	candidate := dst
	exists, err := pathExists(candidate)
	if err != nil {
		return Resolution{}, err
	}
	if !exists {
		return Resolution{Path: candidate}, nil
	}
	if SameFile(src, candidate) {
		return Resolution{Path: candidate, Existing: true}, nil
	}

	renamed := 0
	for {
		candidate = nextCandidate(candidate, renamed > 0)
		renamed++
		exists, err := pathExists(candidate)
		if err != nil {
			return Resolution{}, err
		}
		if !exists {
			return Resolution{Path: candidate, Renamed: renamed}, nil
		}
		if SameFile(src, candidate) {
			return Resolution{Path: candidate, Existing: true, Renamed: renamed}, nil
		}
	}
}

// SameFile reports whether a and b have equal size and modification times
// within MtimeTolerance. Stat failures count as different.
func SameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	if ai.Size() != bi.Size() {
		return false
	}
	diff := ai.ModTime().Sub(bi.ModTime())
	if diff < 0 {
		diff = -diff
	}
	return diff < MtimeTolerance
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// nextCandidate derives the next name to try. Canonical stems mutate only the
// id part: the first collision appends "1", later ones increment the trailing
// digits. Other stems increment trailing digits or append "1".
func nextCandidate(path string, retry bool) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var next string
	if parts, ok := patterns.SplitCanonical(stem); ok {
		id := parts[2]
		if retry {
			id = bumpSuffix(id)
		} else {
			id += "1"
		}
		next = strings.Join([]string{parts[0], parts[1], id, parts[3]}, "_")
	} else {
		next = bumpSuffix(stem)
	}
	return filepath.Join(dir, next+ext)
}

// bumpSuffix increments the trailing decimal digits of s, keeping zero padding
// and any leading prefix. Without trailing digits "1" is appended.
func bumpSuffix(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s + "1"
	}
	return s[:i] + incrementDigits(s[i:])
}

// incrementDigits adds one to a decimal string of any length.
func incrementDigits(d string) string {
	out := []byte(d)
	for j := len(out) - 1; j >= 0; j-- {
		if out[j] < '9' {
			out[j]++
			return string(out)
		}
		out[j] = '0'
	}
	return "1" + string(out)
}
