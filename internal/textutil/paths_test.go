package textutil

import "testing"

func TestSuffixedPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		suffix string
		want   string
	}{
		{"json file", "a2z.json", "_cleaned", "a2z_cleaned.json"},
		{"nested path", "notes/links.txt", "_expanded", "notes/links_expanded.txt"},
		{"dotted base keeps extension", "my.file.txt", "_cleaned", "my.file_cleaned.txt"},
		{"no extension", "README", "_cleaned", "README_cleaned"},
		{"dotfile", ".env", "_cleaned", ".env_cleaned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuffixedPath(tt.path, tt.suffix); got != tt.want {
				t.Errorf("SuffixedPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
			}
		})
	}
}
