package textutil

import (
	"path/filepath"
	"strings"
)

// SuffixedPath inserts suffix between a path's base name and its extension,
// so "notes/a2z.json" with "_cleaned" becomes "notes/a2z_cleaned.json".
// Files without an extension (dotfiles included) get the suffix appended.
func SuffixedPath(path, suffix string) string {
	ext := extOf(filepath.Base(path))
	return strings.TrimSuffix(path, ext) + suffix + ext
}
