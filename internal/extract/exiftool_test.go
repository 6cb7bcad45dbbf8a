package extract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shotdate/internal/extract"
	"shotdate/internal/metadata"
	"shotdate/internal/testsupport"
)

const echoScript = `for last; do :; done
printf '['
sep=''
while IFS= read -r p; do
  printf '%s{"SourceFile":"%s","DateTimeOriginal":"2023:01:01 10:00:00","Make":"Canon","Model":"Canon EOS R7","Rating":5}' "$sep" "$p"
  sep=','
done < "$last"
printf ']'
`

func TestExifToolExtractReadsArgFile(t *testing.T) {
	dir := t.TempDir()
	binary := testsupport.StubBinary(t, filepath.Join(dir, "bin"), "exiftool", echoScript)

	a := filepath.Join(dir, "src", "IMG_0001.jpg")
	b := filepath.Join(dir, "src", "café.jpg")
	testsupport.WriteFile(t, a, 4)
	testsupport.WriteFile(t, b, 4)

	tool := extract.NewExifTool(binary, 10*time.Second)
	result, err := tool.Extract(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(result), result)
	}
	tags, ok := result[extract.Key(b)]
	if !ok {
		t.Fatalf("missing entry for %s", b)
	}
	if tags[metadata.TagDateTimeOriginal] != "2023:01:01 10:00:00" {
		t.Fatalf("unexpected date: %q", tags[metadata.TagDateTimeOriginal])
	}
	if tags["Rating"] != "5" {
		t.Fatalf("expected numeric value stringified, got %q", tags["Rating"])
	}
}

func TestExifToolExtractFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "IMG_0001.jpg")
	testsupport.WriteFile(t, file, 4)

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{name: "nonzero exit", script: "echo 'boom' >&2\nexit 2\n", want: "batch command failed"},
		{name: "bad json", script: "echo 'not json'\n", want: "parse exiftool JSON"},
		{name: "object instead of list", script: "echo '{}'\n", want: "parse exiftool JSON"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			binary := testsupport.StubBinary(t, filepath.Join(t.TempDir(), "bin"), "exiftool", tc.script)
			_, err := extract.NewExifTool(binary, 10*time.Second).Extract(context.Background(), []string{file})
			if !errors.Is(err, extract.ErrExtractFailed) {
				t.Fatalf("expected ErrExtractFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	_, err := extract.NewExifTool(filepath.Join(dir, "missing-exiftool"), time.Second).Extract(context.Background(), []string{file})
	if !errors.Is(err, extract.ErrExtractFailed) || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected ErrExtractFailed for missing binary, got %v", err)
	}
}

func TestExifToolRemovesArgFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", filepath.Join(dir, "tmp"))
	if err := os.MkdirAll(filepath.Join(dir, "tmp"), 0o755); err != nil {
		t.Fatalf("mkdir tmp: %v", err)
	}
	binary := testsupport.StubBinary(t, filepath.Join(dir, "bin"), "exiftool", echoScript)
	file := filepath.Join(dir, "IMG_0001.jpg")
	testsupport.WriteFile(t, file, 4)

	if _, err := extract.NewExifTool(binary, 10*time.Second).Extract(context.Background(), []string{file}); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "tmp"))
	if err != nil {
		t.Fatalf("read tmp: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected argfile removed, found %d entries", len(entries))
	}
}

func TestParseJSONSkipsEntriesWithoutSource(t *testing.T) {
	data := []byte(`[{"SourceFile":"/x/a.jpg","Make":"Apple","Model":null},{"Make":"Canon"},{"SourceFile":""}]`)
	result, err := extract.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one entry, got %v", result)
	}
	tags := result[extract.Key("/x/a.jpg")]
	if tags[metadata.TagMake] != "Apple" {
		t.Fatalf("unexpected tags: %v", tags)
	}
	if _, ok := tags[metadata.TagModel]; ok {
		t.Fatal("expected null value dropped")
	}
}

func TestArgs(t *testing.T) {
	got := strings.Join(extract.Args("/tmp/list.txt"), " ")
	want := "-json -charset filename=utf8 -SourceFile -DateTimeOriginal -CreateDate -MediaCreateDate -TrackCreateDate -Make -Model -@ /tmp/list.txt"
	if got != want {
		t.Fatalf("unexpected args:\n got %s\nwant %s", got, want)
	}
}

func TestKeyNormalizesToNFC(t *testing.T) {
	decomposed := "/photos/cafe\u0301.jpg"
	composed := "/photos/caf\u00e9.jpg"
	if extract.Key(decomposed) != extract.Key(composed) {
		t.Fatalf("expected NFC keys to match: %q vs %q", extract.Key(decomposed), extract.Key(composed))
	}
}
