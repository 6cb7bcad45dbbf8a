package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shotdate/internal/media"
)

// Options controls which directories are skipped during discovery.
type Options struct {
	// ResultDir is the reserved output directory name inside the root.
	ResultDir string
	// ExcludeDirs are extra directories, relative to the root or absolute.
	ExcludeDirs []string
}

// Files walks root and returns every supported media file outside the
// excluded subtrees, sorted by full path. Exclusion is by path containment,
// so a sibling like <root>/result_old is still scanned.
func Files(ctx context.Context, root string, opts Options) ([]media.File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	root = filepath.Clean(abs)
	excluded := buildExcluded(root, opts)

	files := make([]media.File, 0, 256)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isRegularFile(path, d) {
			return nil
		}

		file, ok := media.NewFile(path)
		if !ok {
			return nil
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// isRegularFile reports whether d is a regular file or a symlink that
// resolves to one. Broken links and links to directories are skipped.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func buildExcluded(root string, opts Options) []string {
	excluded := make([]string, 0, 1+len(opts.ExcludeDirs))
	if name := strings.TrimSpace(opts.ResultDir); name != "" {
		excluded = append(excluded, filepath.Join(root, name))
	}
	for _, x := range opts.ExcludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if filepath.IsAbs(x) {
			excluded = append(excluded, filepath.Clean(x))
			continue
		}
		excluded = append(excluded, filepath.Clean(filepath.Join(root, x)))
	}
	sort.Strings(excluded)
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if IsUnder(path, base) {
			return true
		}
	}
	return false
}

// IsUnder reports whether path equals base or lies inside it.
func IsUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, strings.TrimSuffix(base, sep)+sep)
}
