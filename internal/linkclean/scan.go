package linkclean

import "regexp"

// urlPattern matches absolute http(s) URLs up to the next whitespace or
// double quote, which is how URLs terminate inside JSON string values.
var urlPattern = regexp.MustCompile(`https?://[^\s"]+`)

// FindURLs returns the distinct http(s) URLs in content, in order of first
// appearance.
func FindURLs(content string) []string {
	matches := urlPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		urls = append(urls, match)
	}
	return urls
}
