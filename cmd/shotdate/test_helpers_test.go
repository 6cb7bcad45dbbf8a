package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotdate/internal/testsupport"
)

const exiftoolStub = `for last; do :; done
if [ "$1" = "-ver" ]; then echo 13.10; exit 0; fi
printf '['
sep=''
while IFS= read -r p; do
  printf '%s{"SourceFile":"%s","DateTimeOriginal":"2023:01:01 10:00:00","Make":"Apple","Model":"iPhone 14 Pro"}' "$sep" "$p"
  sep=','
done < "$last"
printf ']'
`

type cliTestEnv struct {
	baseDir    string
	configPath string
	logDir     string
	ledgerPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("SHOTDATE_EXIFTOOL", "")

	binary := testsupport.StubBinary(t, filepath.Join(base, "bin"), "exiftool", exiftoolStub)
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "shotdate.toml"),
		logDir:     filepath.Join(base, "logs"),
		ledgerPath: filepath.Join(base, "state", "ledger.db"),
	}
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nledger_path = %q\n\n[processing]\nchunk_size = 2\n\n[exiftool]\nbinary = %q\n",
		env.logDir, env.ledgerPath, binary,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
