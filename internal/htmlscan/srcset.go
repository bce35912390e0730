package htmlscan

import "strings"

// SrcsetEntry is one image candidate inside a srcset attribute.
type SrcsetEntry struct {
	URL        string
	Descriptor string
}

// ParseSrcset splits a srcset attribute into URL+descriptor entries.
// Entries are comma-separated; within an entry the first whitespace-delimited
// token is the URL and the remainder is the descriptor. Empty entries are
// dropped.
func ParseSrcset(value string) []SrcsetEntry {
	if value == "" {
		return nil
	}
	var entries []SrcsetEntry
	for _, part := range strings.Split(value, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, SrcsetEntry{
			URL:        fields[0],
			Descriptor: strings.Join(fields[1:], " "),
		})
	}
	return entries
}

// BuildSrcset reassembles entries into a srcset attribute value.
func BuildSrcset(entries []SrcsetEntry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, strings.TrimSpace(entry.URL+" "+entry.Descriptor))
	}
	return strings.Join(parts, ", ")
}
