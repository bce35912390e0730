// Package notifications delivers command outcomes via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Enumerated event types cover the run-level outcomes of the
// localize and mirror commands so the CLI can emit consistent, user-friendly
// messages without duplicating HTTP glue.
//
// Extend this package if you need alternative transports; command code
// depends only on the simple Service interface.
package notifications
