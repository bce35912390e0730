// Package assetcache provides the content-addressed store for downloaded
// remote assets.
//
// Distinct URLs whose bodies are byte-identical share a single cache file:
// final filenames are the first 32 hex characters of the SHA-256 of the
// downloaded content plus the extension taken from the URL path. In-flight
// downloads use a URL-hash temp name so concurrent fetches of different URLs
// never collide.
//
// # Storage
//
// The cache lives in a directory next to the content being localized
// (default: <root>/.asset_cache/). It holds the downloaded asset files plus
// index.json, a JSON object mapping each fetched URL to its cache filename.
// The index is written atomically (temp file + rename) under a file lock so
// concurrent runs cannot tear it; a missing or corrupt index is treated as
// empty and rebuilt by subsequent runs.
//
// # Usage
//
// CLI commands for inspection and management:
//
//	a2z cache ls       # List cached URL-to-filename mappings
//	a2z cache stats    # Show entry count, disk usage, and index path
//	a2z cache verify   # Report index entries whose files are missing
//	a2z cache clear    # Delete the cache directory
package assetcache
