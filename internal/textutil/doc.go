// Package textutil provides text processing utilities for filename and slug
// sanitization.
//
// The primary use cases are:
//   - Deriving cache file extensions from asset URLs
//   - Reducing article paths to filesystem-safe category and slug tokens
//   - Sanitizing arbitrary names before they touch the filesystem
//
// Sanitization is lossy on purpose: characters outside the safe set are
// replaced or dropped so the result is usable on any platform.
package textutil
