package htmlscan

import "regexp"

// cssURLPattern matches url(...) with optional single or double quoting.
// The three capture groups cover the quoted and bare forms; bare values end
// at the closing paren, which is the bound the extraction tolerates.
var cssURLPattern = regexp.MustCompile(`(?i)url\(\s*(?:'([^']*)'|"([^"]*)"|([^'"\s)][^)]*?))\s*\)`)

// CSSURLs returns every url(...) value in a block of CSS, unquoted, in
// order of appearance. Text the pattern cannot match is skipped rather than
// failing the block.
func CSSURLs(text string) []string {
	if text == "" {
		return nil
	}
	var urls []string
	for _, match := range cssURLPattern.FindAllStringSubmatch(text, -1) {
		for _, group := range match[1:] {
			if group != "" {
				urls = append(urls, group)
				break
			}
		}
	}
	return urls
}

// ReplaceCSSURLs rewrites each url(...) value through replace, preserving the
// original quoting. Substitution stays inside the matched reference, so one
// URL being a prefix of another never corrupts the longer one. replace
// returns the new value, or "" to leave the reference unchanged.
func ReplaceCSSURLs(text string, replace func(string) string) string {
	if text == "" {
		return text
	}
	return cssURLPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := cssURLPattern.FindStringSubmatch(match)
		raw, quote := "", ""
		switch {
		case groups[1] != "":
			raw, quote = groups[1], "'"
		case groups[2] != "":
			raw, quote = groups[2], `"`
		default:
			raw = groups[3]
		}
		next := replace(raw)
		if next == "" || next == raw {
			return match
		}
		return "url(" + quote + next + quote + ")"
	})
}
