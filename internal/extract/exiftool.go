package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"shotdate/internal/metadata"
)

const defaultExifToolTimeout = 5 * time.Minute

// ExifTool runs the external exiftool binary once per batch, passing paths
// through an argument file so long lists and non-ASCII names are safe.
type ExifTool struct {
	Binary  string
	Timeout time.Duration
}

// NewExifTool returns an ExifTool extractor.
func NewExifTool(binary string, timeout time.Duration) *ExifTool {
	return &ExifTool{Binary: binary, Timeout: timeout}
}

// Args returns the exiftool arguments used for an argument file.
func Args(argFile string) []string {
	args := []string{"-json", "-charset", "filename=utf8", "-SourceFile"}
	for _, tag := range metadata.RequestedTags {
		args = append(args, "-"+tag)
	}
	return append(args, "-@", argFile)
}

// Extract implements Extractor.
func (e *ExifTool) Extract(ctx context.Context, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, nil
	}
	binary := strings.TrimSpace(e.Binary)
	if binary == "" {
		binary = "exiftool"
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultExifToolTimeout
	}

	argFile, err := writeArgFile(paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	defer os.Remove(argFile)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, binary, Args(argFile)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		switch {
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: exiftool executable not found: %s", ErrExtractFailed, binary)
		case runCtx.Err() != nil:
			return nil, fmt.Errorf("%w: exiftool timed out after %s", ErrExtractFailed, timeout)
		default:
			return nil, fmt.Errorf("%w: exiftool batch command failed: %v: %s", ErrExtractFailed, err, strings.TrimSpace(stderr.String()))
		}
	}
	return ParseJSON(stdout.Bytes())
}

func writeArgFile(paths []string) (string, error) {
	f, err := os.CreateTemp("", "shotdate-args-*.txt")
	if err != nil {
		return "", fmt.Errorf("create argfile: %w", err)
	}
	var buf bytes.Buffer
	for _, p := range paths {
		buf.WriteString(Key(p))
		buf.WriteByte('\n')
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write argfile: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close argfile: %w", err)
	}
	return f.Name(), nil
}

// ParseJSON decodes exiftool -json output. Entries without SourceFile are
// skipped; non-string values are stringified.
func ParseJSON(data []byte) (Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Result{}, nil
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse exiftool JSON output: %v", ErrExtractFailed, err)
	}
	result := make(Result, len(entries))
	for _, entry := range entries {
		source, _ := entry["SourceFile"].(string)
		if strings.TrimSpace(source) == "" {
			continue
		}
		tags := make(metadata.Tags, len(entry))
		for k, v := range entry {
			if k == "SourceFile" {
				continue
			}
			if s, ok := stringify(v); ok {
				tags[k] = s
			}
		}
		result[Key(source)] = tags
	}
	return result, nil
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}
