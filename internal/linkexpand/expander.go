package linkexpand

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/fetch"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// resolveTimeout caps each HEAD request. Shorteners answer fast or not at
// all, so this stays well below the shared HTTP timeout.
const resolveTimeout = 5 * time.Second

// Expander rewrites shortened links to their final destinations.
type Expander struct {
	patterns []*regexp.Regexp
	client   *fetch.Client
	logger   *slog.Logger
}

// Summary reports the outcome of expanding one file.
type Summary struct {
	Input    string
	Output   string
	Found    int
	Expanded int
	Failed   int
}

// New constructs an expander using the shared HTTP settings with the resolve
// timeout applied.
func New(cfg *config.Config, logger *slog.Logger) *Expander {
	return NewWithDependencies(cfg, logger, fetch.NewFromConfig(cfg, fetch.WithTimeout(resolveTimeout)))
}

// NewWithDependencies allows injecting the HTTP client (used in tests).
func NewWithDependencies(cfg *config.Config, logger *slog.Logger, client *fetch.Client) *Expander {
	patterns := make([]*regexp.Regexp, 0, len(cfg.Clean.ShortenerHosts))
	for _, host := range cfg.Clean.ShortenerHosts {
		patterns = append(patterns, regexp.MustCompile(`https?://`+regexp.QuoteMeta(host)+`/[^\s"]*`))
	}
	return &Expander{
		patterns: patterns,
		client:   client,
		logger:   logging.NewComponentLogger(logger, "expand"),
	}
}

// FindLinks returns the distinct shortener links in content, in order of
// first appearance.
func (e *Expander) FindLinks(content string) []string {
	seen := make(map[string]struct{})
	var links []string
	for _, pattern := range e.patterns {
		for _, match := range pattern.FindAllString(content, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			links = append(links, match)
		}
	}
	return links
}

// ExpandFile reads inputPath, resolves every shortener link in it, and
// writes the result to outputPath. Each distinct link is resolved once;
// resolution failures are logged and leave the original link in place.
func (e *Expander) ExpandFile(ctx context.Context, inputPath, outputPath string) (*Summary, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "expand", "read input", "", err)
	}

	content := string(data)
	summary := &Summary{Input: inputPath, Output: outputPath}

	for _, link := range e.FindLinks(content) {
		summary.Found++
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		expanded, err := e.client.Resolve(ctx, link)
		if err != nil {
			summary.Failed++
			e.logger.Warn("cannot expand link, leaving unchanged",
				logging.String("link", link),
				logging.String("kind", services.Kind(err)),
				logging.Error(err))
			continue
		}
		if expanded == link {
			continue
		}

		content = strings.ReplaceAll(content, link, expanded)
		summary.Expanded++
		e.logger.Debug("expanded link",
			logging.String("link", link),
			logging.String("expanded", expanded))
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return nil, services.Wrap(services.ErrStore, "expand", "write output", "", err)
	}

	e.logger.Info("expanded file",
		logging.String("input", inputPath),
		logging.String("output", outputPath),
		logging.Int("links_found", summary.Found),
		logging.Int("links_expanded", summary.Expanded),
		logging.Int("links_failed", summary.Failed))
	return summary, nil
}
