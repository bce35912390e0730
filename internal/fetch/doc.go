// Package fetch provides the shared HTTP client used by every command that
// touches the network.
//
// This package is used by:
//   - Localize: download remote assets into the content-addressed cache
//   - Mirror: fetch article JSON from the sheet API
//   - Expand: resolve shortened links to their final destination
//
// # Entry Points
//
// New: construct a client from options.
// NewFromConfig: construct a client wired to the [http] config section.
// Client.Download: stream a URL to disk with a size ceiling and no partial
// files left behind on failure.
// Client.Get: fetch a URL and return the body.
// Client.Resolve: follow redirects and report the final URL.
//
// # Retry Behaviour
//
// The retry policy is a value callers can replace wholesale: attempts,
// initial backoff, backoff ceiling, and the set of HTTP statuses considered
// transient. Retry-After headers are honoured when present, capped at the
// backoff ceiling. Network timeouts retry; context cancellation aborts
// immediately.
package fetch
