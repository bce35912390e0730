package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for the article archive.
type Paths struct {
	ContentDir string `toml:"content_dir"`
	OutputDir  string `toml:"output_dir"`
	Template   string `toml:"template"`
	MirrorDir  string `toml:"mirror_dir"`
	LedgerPath string `toml:"ledger_path"`
	LogDir     string `toml:"log_dir"`
}

// HTTP contains the shared transport settings used by every fetching command.
type HTTP struct {
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	RetryMaxAttempts    int     `toml:"retry_max_attempts"`
	RetryBackoffSeconds float64 `toml:"retry_backoff_seconds"`
	RetryStatuses       []int   `toml:"retry_statuses"`
	UserAgent           string  `toml:"user_agent"`
	VerifyTLS           bool    `toml:"verify_tls"`
}

// Localize contains configuration for the asset localization pipeline.
type Localize struct {
	AssetsDirName string `toml:"assets_dir_name"`
	CacheDirName  string `toml:"cache_dir_name"`
	Workers       int    `toml:"workers"`
	MaxAssetMiB   int    `toml:"max_asset_mib"`
}

// Mirror contains configuration for the sheet article downloader.
type Mirror struct {
	Workers    int    `toml:"workers"`
	APIBaseURL string `toml:"api_base_url"`
}

// Clean contains configuration for URL cleanup commands.
type Clean struct {
	TrackingParams []string `toml:"tracking_params"`
	StripAllSites  []string `toml:"strip_all_sites"`
	ShortenerHosts []string `toml:"shortener_hosts"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for the a2z commands.
//
// Configuration sections by subsystem:
//   - Paths: article content/output directories, mirror target, ledger, logs
//   - HTTP: shared transport timeout, retry policy, user agent, TLS toggle
//   - Localize: asset pipeline folder names, worker count, size ceiling
//   - Mirror: sheet downloader workers and article API endpoint
//   - Clean: tracking parameters, strip-all hosts, shortener hosts
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	HTTP          HTTP          `toml:"http"`
	Localize      Localize      `toml:"localize"`
	Mirror        Mirror        `toml:"mirror"`
	Clean         Clean         `toml:"clean"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/a2z/config.toml")
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

	defaultPath, err := expandPath("~/.config/a2z/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("a2z.toml")
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

// EnsureDirectories creates required directories for command operation.
// Content-facing directories are created on a best-effort basis so config
// validation does not fail when external storage is unavailable.
func (c *Config) EnsureDirectories() error {
	required := []string{c.Paths.LogDir}
	if ledgerDir := filepath.Dir(c.Paths.LedgerPath); ledgerDir != "." && ledgerDir != "" {
		required = append(required, ledgerDir)
	}
	for _, dir := range required {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.ContentDir, c.Paths.OutputDir, c.Paths.MirrorDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

// HTTPTimeout returns the per-request transport timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RetryBackoff returns the initial retry backoff delay.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.HTTP.RetryBackoffSeconds * float64(time.Second))
}

// MaxAssetBytes returns the download size ceiling in bytes.
func (c *Config) MaxAssetBytes() int64 {
	return int64(c.Localize.MaxAssetMiB) << 20
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
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
