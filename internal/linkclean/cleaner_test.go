package linkclean_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/linkclean"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
	"github.com/Jrchintu/a2z-old-sheet/internal/testsupport"
)

func newCleaner(t *testing.T) *linkclean.Cleaner {
	t.Helper()
	return linkclean.New(testsupport.NewConfig(t), nil)
}

func TestCleanURL(t *testing.T) {
	cleaner := newCleaner(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tracking params removed, order preserved",
			in:   "https://example.com/page?id=42&utm_source=news&ref=keep&utm_campaign=x",
			want: "https://example.com/page?id=42&ref=keep",
		},
		{
			name: "all params tracking leaves bare URL",
			in:   "https://example.com/page?utm_source=a&fbclid=b",
			want: "https://example.com/page",
		},
		{
			name: "clean URL unchanged",
			in:   "https://example.com/page?id=42",
			want: "https://example.com/page?id=42",
		},
		{
			name: "fragment survives general cleaning",
			in:   "https://example.com/docs?utm_medium=mail#section-2",
			want: "https://example.com/docs#section-2",
		},
		{
			name: "bare flag param survives",
			in:   "https://example.com/page?flag&utm_source=x",
			want: "https://example.com/page?flag",
		},
		{
			name: "strip-all host loses query and fragment",
			in:   "https://www.geeksforgeeks.org/problems/two-sum?ref=lbp&pos=3#solution",
			want: "https://www.geeksforgeeks.org/problems/two-sum",
		},
		{
			name: "leetcode study plan params stripped",
			in:   "https://leetcode.com/problems/two-sum/?envType=study-plan&id=top",
			want: "https://leetcode.com/problems/two-sum/",
		},
		{
			name: "youtube collapses to watch URL",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&feature=share&utm_source=x",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "youtube keeps timestamp",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=212s&ab_channel=foo",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=212s",
		},
		{
			name: "youtu.be short link expands",
			in:   "https://youtu.be/dQw4w9WgXcQ?si=abc123",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "youtu.be with timestamp",
			in:   "https://youtu.be/dQw4w9WgXcQ?t=42",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42",
		},
		{
			name: "youtube without video id cleans normally",
			in:   "https://www.youtube.com/playlist?list=PL123&utm_source=x",
			want: "https://www.youtube.com/playlist?list=PL123",
		},
		{
			name: "nested URL value cleaned recursively",
			in:   "https://example.com/redirect?target=https%3A%2F%2Fother.com%2F%3Futm_source%3Dfoo%26id%3D1&keep=2",
			want: "https://example.com/redirect?target=https%3A%2F%2Fother.com%2F%3Fid%3D1&keep=2",
		},
		{
			name: "plus-encoded value round trips",
			in:   "https://example.com/search?q=two+sum&utm_term=x",
			want: "https://example.com/search?q=two+sum",
		},
		{
			name: "unparseable URL unchanged",
			in:   "https://example.com/%zz",
			want: "https://example.com/%zz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleaner.CleanURL(tt.in); got != tt.want {
				t.Errorf("CleanURL(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindURLs(t *testing.T) {
	content := `{"a":"https://example.com/one","b":"https://example.com/two and https://example.com/one"}`
	urls := linkclean.FindURLs(content)
	want := []string{"https://example.com/one", "https://example.com/two"}
	if len(urls) != len(want) {
		t.Fatalf("got %d URLs %v, want %v", len(urls), urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestCleanFileReplacesOnlyQuotedURLs(t *testing.T) {
	cleaner := newCleaner(t)
	dir := t.TempDir()

	content := `{
  "link": "https://example.com/a?utm_source=sheet&id=7",
  "note": "see https://example.com/a?utm_source=sheet&id=7 for details",
  "clean": "https://example.com/b?id=1"
}`
	input := filepath.Join(dir, "links.json")
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(dir, "links_cleaned.json")

	summary, err := cleaner.CleanFile(input, output)
	if err != nil {
		t.Fatalf("CleanFile: %v", err)
	}

	if summary.Found != 2 || summary.Changed != 1 || summary.Replaced != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	result, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(result)
	if !strings.Contains(got, `"link": "https://example.com/a?id=7"`) {
		t.Errorf("quoted URL not cleaned:\n%s", got)
	}
	if !strings.Contains(got, "see https://example.com/a?utm_source=sheet&id=7 for details") {
		t.Errorf("unquoted URL should stay untouched:\n%s", got)
	}
	if !strings.Contains(got, `"https://example.com/b?id=1"`) {
		t.Errorf("clean URL should be untouched:\n%s", got)
	}

	original, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read input back: %v", err)
	}
	if string(original) != content {
		t.Error("input file was modified")
	}
}

func TestCleanFileMissingInput(t *testing.T) {
	cleaner := newCleaner(t)

	_, err := cleaner.CleanFile(filepath.Join(t.TempDir(), "absent.json"), filepath.Join(t.TempDir(), "out.json"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
