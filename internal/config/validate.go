package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if err := c.validateLocalize(); err != nil {
		return err
	}
	if err := c.validateMirror(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateHTTP() error {
	if err := ensurePositiveMap(map[string]int{
		"http.timeout_seconds":    c.HTTP.TimeoutSeconds,
		"http.retry_max_attempts": c.HTTP.RetryMaxAttempts,
	}); err != nil {
		return err
	}
	if c.HTTP.RetryBackoffSeconds < 0 {
		return errors.New("http.retry_backoff_seconds must be >= 0")
	}
	for _, status := range c.HTTP.RetryStatuses {
		if status < 100 || status > 599 {
			return fmt.Errorf("http.retry_statuses contains invalid status %d", status)
		}
	}
	return nil
}

func (c *Config) validateLocalize() error {
	if err := validateDirName("localize.assets_dir_name", c.Localize.AssetsDirName); err != nil {
		return err
	}
	if err := validateDirName("localize.cache_dir_name", c.Localize.CacheDirName); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"localize.workers":       c.Localize.Workers,
		"localize.max_asset_mib": c.Localize.MaxAssetMiB,
	})
}

func (c *Config) validateMirror() error {
	if err := ensurePositiveMap(map[string]int{
		"mirror.workers": c.Mirror.Workers,
	}); err != nil {
		return err
	}
	parsed, err := url.Parse(c.Mirror.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("mirror.api_base_url must be an absolute URL, got %q", c.Mirror.APIBaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("mirror.api_base_url must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func validateDirName(key, name string) error {
	if name == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%s must be a bare directory name, got %q", key, name)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
