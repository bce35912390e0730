package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeHTTP()
	c.normalizeLocalize()
	c.normalizeMirror()
	c.normalizeClean()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ContentDir) == "" {
		c.Paths.ContentDir = defaultContentDir
	}
	if c.Paths.ContentDir, err = expandPath(c.Paths.ContentDir); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MirrorDir) == "" {
		c.Paths.MirrorDir = defaultMirrorDir
	}
	if c.Paths.MirrorDir, err = expandPath(c.Paths.MirrorDir); err != nil {
		return fmt.Errorf("paths.mirror_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Template = strings.TrimSpace(c.Paths.Template)
	if c.Paths.Template != "" {
		if c.Paths.Template, err = expandPath(c.Paths.Template); err != nil {
			return fmt.Errorf("paths.template: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeHTTP() {
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	if c.HTTP.RetryMaxAttempts == 0 {
		c.HTTP.RetryMaxAttempts = defaultRetryMaxAttempts
	}
	if c.HTTP.RetryBackoffSeconds == 0 {
		c.HTTP.RetryBackoffSeconds = defaultRetryBackoffSeconds
	}
	if len(c.HTTP.RetryStatuses) == 0 {
		c.HTTP.RetryStatuses = defaultRetryStatuses()
	}
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLocalize() {
	c.Localize.AssetsDirName = strings.TrimSpace(c.Localize.AssetsDirName)
	if c.Localize.AssetsDirName == "" {
		c.Localize.AssetsDirName = defaultAssetsDirName
	}
	c.Localize.CacheDirName = strings.TrimSpace(c.Localize.CacheDirName)
	if c.Localize.CacheDirName == "" {
		c.Localize.CacheDirName = defaultCacheDirName
	}
	if c.Localize.Workers == 0 {
		c.Localize.Workers = defaultWorkers
	}
	if c.Localize.MaxAssetMiB == 0 {
		c.Localize.MaxAssetMiB = defaultMaxAssetMiB
	}
}

func (c *Config) normalizeMirror() {
	if c.Mirror.Workers == 0 {
		c.Mirror.Workers = defaultWorkers
	}
	c.Mirror.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Mirror.APIBaseURL), "/")
	if c.Mirror.APIBaseURL == "" {
		c.Mirror.APIBaseURL = defaultMirrorAPIBaseURL
	}
}

func (c *Config) normalizeClean() {
	c.Clean.TrackingParams = normalizeStringSet(c.Clean.TrackingParams, defaultTrackingParams)
	c.Clean.StripAllSites = normalizeStringSet(c.Clean.StripAllSites, defaultStripAllSites)
	c.Clean.ShortenerHosts = normalizeStringSet(c.Clean.ShortenerHosts, defaultShortenerHosts)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("A2Z_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func normalizeStringSet(values []string, fallback func() []string) []string {
	if len(values) == 0 {
		return fallback()
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback()
	}
	return out
}
