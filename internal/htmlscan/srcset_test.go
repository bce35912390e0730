package htmlscan

import "testing"

func TestParseSrcset(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []SrcsetEntry
	}{
		{
			name:  "density descriptors",
			value: "a.png 1x, b.png 2x",
			want:  []SrcsetEntry{{URL: "a.png", Descriptor: "1x"}, {URL: "b.png", Descriptor: "2x"}},
		},
		{
			name:  "no descriptor",
			value: "c.png",
			want:  []SrcsetEntry{{URL: "c.png"}},
		},
		{
			name:  "extra whitespace",
			value: "  d.png   480w ,   e.png 800w  ",
			want:  []SrcsetEntry{{URL: "d.png", Descriptor: "480w"}, {URL: "e.png", Descriptor: "800w"}},
		},
		{
			name:  "empty segments dropped",
			value: "a.png 1x,,b.png 2x",
			want:  []SrcsetEntry{{URL: "a.png", Descriptor: "1x"}, {URL: "b.png", Descriptor: "2x"}},
		},
		{
			name:  "empty value",
			value: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSrcset(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSrcset(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildSrcsetPreservesDescriptors(t *testing.T) {
	entries := ParseSrcset("https://x.test/a.png 1x, https://x.test/b.png 2x 100w")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	entries[0].URL = "assets/aaaa.png"
	entries[1].URL = "assets/bbbb.png"

	got := BuildSrcset(entries)
	want := "assets/aaaa.png 1x, assets/bbbb.png 2x 100w"
	if got != want {
		t.Fatalf("BuildSrcset = %q, want %q", got, want)
	}
}

func TestBuildSrcsetOmitsEmptyDescriptor(t *testing.T) {
	got := BuildSrcset([]SrcsetEntry{{URL: "a.png"}, {URL: "b.png", Descriptor: "2x"}})
	if got != "a.png, b.png 2x" {
		t.Fatalf("BuildSrcset = %q", got)
	}
}
