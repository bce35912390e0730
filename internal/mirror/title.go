package mirror

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle renders a slug as a human-readable title for status output,
// e.g. "binary-search_2" becomes "Binary Search 2".
func DisplayTitle(slug string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range slug {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return slug
	}
	return cases.Title(language.Und).String(title)
}
