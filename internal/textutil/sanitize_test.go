package textutil

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "logo.png", "logo.png"},
		{"percent escape decoded", "logo%20final.png", "logo_final.png"},
		{"query suffix dropped", "pic.png?width=200", "pic.png"},
		{"fragment suffix dropped", "chart.svg#section", "chart.svg"},
		{"unsafe runes replaced", "café menu.pdf", "caf__menu.pdf"},
		{"empty input", "", "file"},
		{"nothing survives", "?????", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces become underscores", "two sum problem", "two_sum_problem"},
		{"punctuation dropped", "Binary-Search!", "Binary-Search"},
		{"separators dropped", "a/b\\c", "abc"},
		{"surrounding whitespace trimmed", "  spaced  ", "spaced"},
		{"unicode letters kept", "étude-1.2", "étude-1.2"},
		{"nothing survives", "???", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSlug(tt.input); got != tt.want {
				t.Errorf("SanitizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple image", "https://cdn.example.com/images/logo.png", ".png"},
		{"query ignored", "https://cdn.example.com/images/logo.png?w=100", ".png"},
		{"no extension", "https://example.com/download", ""},
		{"last extension wins", "https://example.com/archive.tar.gz", ".gz"},
		{"dotfile has no extension", "https://example.com/.hidden", ""},
		{"bare host", "https://example.com/", ""},
		{"protocol relative", "//cdn.example.com/x.jpg", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtFromURL(tt.url); got != tt.want {
				t.Errorf("ExtFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
