package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains locations for shotdate's own state (not the media trees it processes).
type Paths struct {
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// Processing controls how a source tree is scanned and copied.
type Processing struct {
	ChunkSize    int      `toml:"chunk_size"`
	ResultDir    string   `toml:"result_dir"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	VerifyCopies bool     `toml:"verify_copies"`
}

// ExifTool contains configuration for metadata extraction.
type ExifTool struct {
	// Extractor selects the backend: "exiftool" (external binary) or "native"
	// (built-in EXIF reader, images only).
	Extractor      string `toml:"extractor"`
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Ledger contains configuration for the SQLite run history.
type Ledger struct {
	Enabled bool `toml:"enabled"`
	// KeepRuns bounds stored history; older runs and their outcomes are
	// pruned after each run. Zero keeps everything.
	KeepRuns int `toml:"keep_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for shotdate.
//
// Configuration sections by subsystem:
//   - Paths: log directory and ledger database location
//   - Processing: chunking, result directory name, exclusions, copy verification
//   - ExifTool: metadata extractor selection and invocation
//   - Ledger: run history persistence toggle
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Processing Processing `toml:"processing"`
	ExifTool   ExifTool   `toml:"exiftool"`
	Ledger     Ledger     `toml:"ledger"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shotdate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shotdate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories shotdate writes its own state into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Ledger.Enabled && strings.TrimSpace(c.Paths.LedgerPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LedgerPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ResultRoot returns the result tree location for a given source root.
func (c *Config) ResultRoot(sourceRoot string) string {
	return filepath.Join(sourceRoot, c.Processing.ResultDir)
}

// ExifToolBinary returns the exiftool executable name or path.
func (c *Config) ExifToolBinary() string {
	if bin := strings.TrimSpace(c.ExifTool.Binary); bin != "" {
		return bin
	}
	return defaultExifToolBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

const sampleExtractorLine = `extractor = "exiftool"`

// CreateSample writes the sample configuration to path with the given
// metadata extractor selected. An empty extractor keeps exiftool.
func CreateSample(path, extractor string) error {
	extractor = strings.ToLower(strings.TrimSpace(extractor))
	content := sampleConfig
	switch extractor {
	case "", ExtractorExifTool:
	case ExtractorNative:
		content = strings.Replace(content, sampleExtractorLine, fmt.Sprintf("extractor = %q", extractor), 1)
	default:
		return fmt.Errorf("unsupported extractor %q (want %q or %q)", extractor, ExtractorExifTool, ExtractorNative)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
