// Package config loads, normalizes, and validates a2z configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// A2Z_NTFY_TOPIC. The Config type centralizes every knob the CLI needs,
// from content and mirror directories to HTTP retry behaviour and the
// localizer's cache layout.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
