package render

import (
	_ "embed"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

//go:embed template.html
var defaultTemplate string

//go:embed index_template.html
var indexTemplate string

var (
	emptyParagraphPattern = regexp.MustCompile(`(?s)<p>(?:\s|<!--.*?-->)*</p>`)
	breakParagraphPattern = regexp.MustCompile(`(?i)<p>\s*<br\s*/?>\s*</p>`)
	nestedOpenParagraphs  = regexp.MustCompile(`(?i)<p>(\s*<p>)`)
	nestedCloseParagraphs = regexp.MustCompile(`(?i)</p>(\s*</p>)`)
)

// Article is the JSON payload stored by the sheet mirror. Pointer fields
// distinguish absent keys so the rendering defaults can apply.
type Article struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Renderer substitutes articles into the page template.
type Renderer struct {
	template string
	logger   *slog.Logger
}

// NewRenderer loads the configured article template. A missing template file
// falls back to the embedded default.
func NewRenderer(cfg *config.Config, logger *slog.Logger) (*Renderer, error) {
	logger = logging.NewComponentLogger(logger, "render")

	template := defaultTemplate
	if path := strings.TrimSpace(cfg.Paths.Template); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			template = string(data)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("template not found, using embedded default", logging.String("path", path))
		default:
			return nil, services.Wrap(services.ErrConfiguration, "render", "read template", path, err)
		}
	}

	return &Renderer{template: template, logger: logger}, nil
}

// CleanContent removes empty or redundant paragraph markup: paragraphs that
// hold only whitespace or comments, paragraphs holding a lone break tag, and
// directly nested paragraph tags that double the spacing.
func CleanContent(content string) string {
	content = emptyParagraphPattern.ReplaceAllString(content, "")
	content = breakParagraphPattern.ReplaceAllString(content, "")
	content = nestedOpenParagraphs.ReplaceAllString(content, "$1")
	content = nestedCloseParagraphs.ReplaceAllString(content, "$1")
	return content
}

// Render substitutes one article into the template. A missing title renders
// as "Article" and missing content as a placeholder paragraph.
func (r *Renderer) Render(article Article) string {
	title := "Article"
	if article.Title != nil {
		title = *article.Title
	}
	content := "<p>No content found.</p>"
	if article.Content != nil {
		content = *article.Content
	}
	content = CleanContent(content)

	page := strings.ReplaceAll(r.template, "{TITLE}", title)
	return strings.ReplaceAll(page, "{CONTENT}", content)
}

// RenderDir converts every article JSON file under contentDir into an HTML
// page under outputDir, mirroring the directory structure. Unreadable or
// invalid articles are logged and skipped; the returned slice holds the paths
// of all pages written.
func (r *Renderer) RenderDir(ctx context.Context, contentDir, outputDir string) ([]string, error) {
	logger := logging.WithContext(ctx, r.logger)

	info, err := os.Stat(contentDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "render", "validate content dir",
			fmt.Sprintf("content directory %q is not a directory", contentDir), err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStore, "render", "create output dir", outputDir, err)
	}

	var generated []string
	walkErr := filepath.WalkDir(contentDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == contentDir {
				return err
			}
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}

		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		htmlPath := filepath.Join(outputDir, strings.TrimSuffix(rel, ".json")+".html")

		if err := r.renderFile(path, htmlPath); err != nil {
			logger.Warn("skipping article",
				logging.String(logging.FieldEventType, "article_render_failed"),
				logging.String("article", path),
				logging.String("kind", services.Kind(err)),
				logging.Error(err))
			return nil
		}

		generated = append(generated, htmlPath)
		logger.Debug("rendered article", logging.String("page", htmlPath))
		return nil
	})
	if walkErr != nil {
		return generated, services.Wrap(services.ErrValidation, "render", "walk content dir", contentDir, walkErr)
	}

	logger.Info("rendered articles",
		logging.Int("pages", len(generated)),
		logging.String("output_dir", outputDir))
	return generated, nil
}

// WriteIndex generates an index.html under outputDir linking every rendered
// page in sorted order. Nothing is written when pages is empty.
func (r *Renderer) WriteIndex(outputDir string, pages []string) error {
	if len(pages) == 0 {
		r.logger.Debug("no pages rendered, skipping index")
		return nil
	}

	sorted := append([]string(nil), pages...)
	sort.Strings(sorted)

	items := make([]string, 0, len(sorted))
	for _, page := range sorted {
		rel, err := filepath.Rel(outputDir, page)
		if err != nil {
			rel = page
		}
		items = append(items, fmt.Sprintf(`<li><a href="%s">%s</a></li>`, filepath.ToSlash(rel), rel))
	}
	listHTML := "<ul>\n" + strings.Join(items, "\n") + "\n</ul>"

	indexPath := filepath.Join(outputDir, "index.html")
	page := strings.ReplaceAll(indexTemplate, "{LINKS}", listHTML)
	if err := os.WriteFile(indexPath, []byte(page), 0o644); err != nil {
		return services.Wrap(services.ErrStore, "render", "write index", indexPath, err)
	}

	r.logger.Info("wrote article index",
		logging.String("path", indexPath),
		logging.Int("pages", len(pages)))
	return nil
}

// renderFile converts one article JSON file into an HTML page, creating the
// parent directory as needed.
func (r *Renderer) renderFile(jsonPath, htmlPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return services.Wrap(services.ErrParse, "render", "read article", jsonPath, err)
	}

	var article Article
	if err := json.Unmarshal(data, &article); err != nil {
		return services.Wrap(services.ErrParse, "render", "decode article", jsonPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
		return services.Wrap(services.ErrStore, "render", "create page dir", htmlPath, err)
	}
	if err := os.WriteFile(htmlPath, []byte(r.Render(article)), 0o644); err != nil {
		return services.Wrap(services.ErrStore, "render", "write page", htmlPath, err)
	}
	return nil
}
