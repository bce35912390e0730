package textutil

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// SanitizeFilename reduces a name to characters safe on any filesystem.
// Percent escapes are decoded, anything after the first ? or # is dropped,
// and every character outside [A-Za-z0-9._-] becomes an underscore.
// Returns "file" when nothing survives.
func SanitizeFilename(name string) string {
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// SanitizeSlug converts a path segment into a slug token. Spaces become
// underscores and everything outside letters, digits, underscore, hyphen,
// and dot is removed. Returns "" when nothing survives; callers decide
// whether an empty slug is an error.
func SanitizeSlug(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, " ", "_")
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtFromURL derives a file extension (with leading dot) from the path
// component of a URL. The basename is sanitized first so extensions stay
// filesystem-safe. Returns "" when the path carries no usable extension.
func ExtFromURL(raw string) string {
	pathPart := raw
	if parsed, err := url.Parse(raw); err == nil {
		pathPart = parsed.Path
	} else if i := strings.IndexAny(pathPart, "?#"); i >= 0 {
		pathPart = pathPart[:i]
	}
	if pathPart == "" {
		return ""
	}
	return extOf(SanitizeFilename(path.Base(pathPart)))
}

// extOf behaves like a basename extension split: the rightmost dot counts
// only when a non-dot character precedes it, so dotfiles have no extension.
func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	for j := 0; j < i; j++ {
		if name[j] != '.' {
			return name[i:]
		}
	}
	return ""
}
