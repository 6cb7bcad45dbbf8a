package logview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// DefaultPollInterval is how often Follow checks the file for new lines.
const DefaultPollInterval = 250 * time.Millisecond

const maxLineBytes = 1024 * 1024

// Options controls a Tail read.
type Options struct {
	// Offset is the byte position to resume from. A negative offset reads the
	// last Limit lines instead.
	Offset int64
	Limit  int
	// Match, when set, keeps only lines containing it (case-insensitive).
	Match string
}

// Chunk is a batch of lines plus the offset to resume from.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from path. A missing file yields an empty chunk at offset 0
// so callers can start viewing before the first run has created the log.
func Tail(path string, opts Options) (Chunk, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Chunk{}, fmt.Errorf("log path %q is a directory", path)
	}

	match := newMatcher(opts.Match)
	if opts.Offset < 0 {
		return readLast(path, opts.Limit, match)
	}
	offset := opts.Offset
	if offset > info.Size() {
		// Truncated or replaced since the last read.
		offset = 0
	}
	return readFrom(path, offset, match)
}

// Follow streams lines appended after offset to emit until ctx is done.
func Follow(ctx context.Context, path string, offset int64, match string, poll time.Duration, emit func(string)) error {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		chunk, err := Tail(path, Options{Offset: offset, Match: match})
		if err != nil {
			return err
		}
		for _, line := range chunk.Lines {
			emit(line)
		}
		offset = chunk.Offset
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

type matcher func(string) bool

func newMatcher(substr string) matcher {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return func(string) bool { return true }
	}
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), needle)
	}
}

func readLast(path string, limit int, match matcher) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		return Chunk{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return Chunk{}, fmt.Errorf("seek log file: %w", err)
		}
		return Chunk{Offset: end}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := scanLines(file, func(line string) {
		if !match(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return Chunk{}, err
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

func readFrom(path string, offset int64, match matcher) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	consumed, err := scanLines(file, func(line string) {
		if match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Lines: lines, Offset: offset + consumed}, nil
}

// scanLines feeds every complete line of r to fn and returns the number of
// bytes consumed. A trailing partial line is left for the next read so a
// writer caught mid-line is never split.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(strings.TrimRight(line, "\r\n"))
	}
}
