package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/render"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
	"github.com/Jrchintu/a2z-old-sheet/internal/testsupport"
)

func newRenderer(t *testing.T, template string) *render.Renderer {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	if template != "" {
		if err := os.WriteFile(cfg.Paths.Template, []byte(template), 0o644); err != nil {
			t.Fatalf("write template: %v", err)
		}
	}
	renderer, err := render.NewRenderer(cfg, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return renderer
}

func strptr(s string) *string { return &s }

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty paragraph", "<p></p><p>keep</p>", "<p>keep</p>"},
		{"whitespace paragraph", "<p>  \n\t </p>", ""},
		{"comment-only paragraph", "<p><!-- note --></p>", ""},
		{"mixed whitespace and comments", "<p> <!-- a --> <!-- b --> </p>", ""},
		{"break paragraph", "<p><br></p><p>x</p>", "<p>x</p>"},
		{"self-closing break", "<p> <BR /> </p>", ""},
		{"nested paragraphs collapse", "<p><p>text</p></p>", "<p>text</p>"},
		{"nested with whitespace keeps spacing", "<p>\n<p>text</p>\n</p>", "\n<p>text\n</p>"},
		{"adjacent paragraphs untouched", "<p>a</p>\n<p>b</p>", "<p>a</p>\n<p>b</p>"},
		{"regular content untouched", "<p>Hello <b>world</b></p>", "<p>Hello <b>world</b></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render.CleanContent(tt.in); got != tt.want {
				t.Errorf("CleanContent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderSubstitutesTemplate(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}|C={CONTENT}")

	page := renderer.Render(render.Article{
		Title:   strptr("Two Sum"),
		Content: strptr("<p></p><p>Body</p>"),
	})
	if page != "T=Two Sum|C=<p>Body</p>" {
		t.Errorf("unexpected page %q", page)
	}
}

func TestRenderDefaultsForMissingFields(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}|C={CONTENT}")

	page := renderer.Render(render.Article{})
	if page != "T=Article|C=<p>No content found.</p>" {
		t.Errorf("unexpected page %q", page)
	}
}

func TestNewRendererFallsBackToEmbeddedTemplate(t *testing.T) {
	// No template file written, so the configured path does not exist.
	renderer := newRenderer(t, "")

	page := renderer.Render(render.Article{Title: strptr("Fallback")})
	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("expected embedded template markup")
	}
	if !strings.Contains(page, "<title>Fallback</title>") {
		t.Errorf("expected substituted title, got:\n%s", page[:200])
	}
}

func TestRenderDirMirrorsStructure(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}|C={CONTENT}")
	contentDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	write := func(rel, body string) {
		path := filepath.Join(contentDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	write("dsa/two-sum.json", `{"title":"Two Sum","content":"<p>ok</p>"}`)
	write("top.json", `{"title":"Top","content":"<p>top</p>"}`)
	write("dsa/broken.json", `{not json`)
	write("notes.txt", "skip me")

	pages, err := renderer.RenderDir(context.Background(), contentDir, outputDir)
	if err != nil {
		t.Fatalf("RenderDir: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %v", pages)
	}

	nested, err := os.ReadFile(filepath.Join(outputDir, "dsa", "two-sum.html"))
	if err != nil {
		t.Fatalf("read nested page: %v", err)
	}
	if string(nested) != "T=Two Sum|C=<p>ok</p>" {
		t.Errorf("unexpected nested page %q", nested)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "top.html")); err != nil {
		t.Errorf("top-level page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "dsa", "broken.html")); !os.IsNotExist(err) {
		t.Error("invalid article should not produce a page")
	}
	if _, err := os.Stat(filepath.Join(outputDir, "notes.html")); !os.IsNotExist(err) {
		t.Error("non-JSON files should be ignored")
	}
}

func TestRenderDirInvalidContentDir(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}")

	_, err := renderer.RenderDir(context.Background(), filepath.Join(t.TempDir(), "absent"), t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriteIndex(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}")
	outputDir := t.TempDir()

	pages := []string{
		filepath.Join(outputDir, "dsa", "two-sum.html"),
		filepath.Join(outputDir, "arrays", "max.html"),
	}
	if err := renderer.WriteIndex(outputDir, pages); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	got := string(index)
	if !strings.Contains(got, `<a href="arrays/max.html">`) || !strings.Contains(got, `<a href="dsa/two-sum.html">`) {
		t.Errorf("expected links to both pages:\n%s", got)
	}
	if strings.Index(got, "arrays/max.html") > strings.Index(got, "dsa/two-sum.html") {
		t.Error("expected links in sorted order")
	}
}

func TestWriteIndexSkipsWhenEmpty(t *testing.T) {
	renderer := newRenderer(t, "T={TITLE}")
	outputDir := t.TempDir()

	if err := renderer.WriteIndex(outputDir, nil); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "index.html")); !os.IsNotExist(err) {
		t.Error("index should not be written for zero pages")
	}
}
