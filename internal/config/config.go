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

// Paths contains working and output directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	InboxDir  string `toml:"inbox_dir"`
}

// Tools names the external binaries the prober and tagger execute.
type Tools struct {
	FFprobe string `toml:"ffprobe"`
	FFmpeg  string `toml:"ffmpeg"`
}

// Rename controls the auto-rename pipeline.
type Rename struct {
	DefaultTemplate        string `toml:"default_template"`
	DuplicateWindowSeconds int    `toml:"duplicate_window_seconds"`
	NormalizeLongNames     bool   `toml:"normalize_long_names"`
	ProbeMissingQuality    bool   `toml:"probe_missing_quality"`
	Tagging                bool   `toml:"tagging"`
}

// Metadata holds fallback tag values written by the tagger when a user has
// not configured their own.
type Metadata struct {
	Title     string `toml:"title"`
	Video     string `toml:"video"`
	Audio     string `toml:"audio"`
	Subtitle  string `toml:"subtitle"`
	Artist    string `toml:"artist"`
	Author    string `toml:"author"`
	EncodedBy string `toml:"encoded_by"`
	CustomTag string `toml:"custom_tag"`
}

// Sequence controls sequence dispatch pacing.
type Sequence struct {
	PacingMillis          int `toml:"pacing_millis"`
	RateLimitGraceSeconds int `toml:"rate_limit_grace_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Config encapsulates all configuration values for renamer.
//
// Configuration sections by subsystem:
//   - Paths: scratch, output, state and log directories
//   - Tools: ffprobe/ffmpeg executables
//   - Rename: template fallback and pipeline switches
//   - Metadata: default tag values for the tagger
//   - Sequence: dispatch pacing
//   - Logging: log format, level and rotation
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Rename   Rename   `toml:"rename"`
	Metadata Metadata `toml:"metadata"`
	Sequence Sequence `toml:"sequence"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
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
		decoder.DisallowUnknownFields()
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("renamer.toml")
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

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DownloadDir is the scratch directory incoming files are fetched into.
func (c *Config) DownloadDir() string {
	return filepath.Join(c.Paths.WorkDir, "downloads")
}

// MetadataDir is the scratch directory the tagger writes into.
func (c *Config) MetadataDir() string {
	return filepath.Join(c.Paths.WorkDir, "metadata")
}

// DatabasePath is the SQLite file backing user settings and sequence sessions.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "renamer.db")
}

// LockDir holds per-user and per-process lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// FFprobeBinary returns the ffprobe executable used for stream inspection.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return "ffprobe"
	}
	return c.Tools.FFprobe
}

// FFmpegBinary returns the ffmpeg executable used for metadata tagging.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return "ffmpeg"
	}
	return c.Tools.FFmpeg
}

// DefaultTags returns the configured fallback metadata tags as a map keyed by
// tag name.
func (c *Config) DefaultTags() map[string]string {
	return map[string]string{
		"title":      c.Metadata.Title,
		"video":      c.Metadata.Video,
		"audio":      c.Metadata.Audio,
		"subtitle":   c.Metadata.Subtitle,
		"artist":     c.Metadata.Artist,
		"author":     c.Metadata.Author,
		"encoded_by": c.Metadata.EncodedBy,
		"custom_tag": c.Metadata.CustomTag,
	}
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
