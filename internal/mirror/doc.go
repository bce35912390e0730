// Package mirror downloads sheet article JSON into a local directory tree and
// tracks every article in a SQLite ledger.
//
// A run parses the sheet file, derives one fetch plan per distinct post link
// (category and slug come from the link path, sanitized for the filesystem),
// and fetches the article API across a bounded worker pool. Responses are
// validated as JSON and re-indented before landing at
// <mirror_dir>/<category>/<slug>.json.
//
// # Ledger
//
// The ledger records each article's link, destination, and status:
//
//	pending  first seen, not yet fetched
//	fetched  downloaded and written this or an earlier run
//	exists   destination file already present, fetch skipped
//	failed   fetch or write failed; retried only after `a2z mirror retry`
//
// Per-article failures never abort a run; only an unreadable sheet is fatal.
// Repeated runs are incremental: existing files are skipped and failed
// articles stay parked until explicitly retried.
package mirror
