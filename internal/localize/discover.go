package localize

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Jrchintu/a2z-old-sheet/internal/htmlscan"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// discover walks root for HTML documents and unions their remote asset URLs
// in first-seen order.
func (l *Localizer) discover(ctx context.Context, state *runState, root string) ([]string, []string, error) {
	ctx = services.WithPhase(ctx, "discover")
	logger := logging.WithContext(ctx, l.logger)

	docs, err := findDocuments(root, l.cfg.Localize.CacheDirName)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "localize", "discover", "walk content root", err)
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, path := range docs {
		doc, err := htmlscan.ParseFile(path)
		if err != nil {
			state.summary.ParseFailures++
			logger.Warn("skipping unparseable document",
				logging.String(logging.FieldEventType, "document_parse_failed"),
				logging.String(logging.FieldDocument, path),
				logging.Error(services.Wrap(services.ErrParse, "localize", "parse document", path, err)))
			continue
		}
		for _, url := range doc.RemoteURLs() {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}

	state.summary.Documents = len(docs)
	state.summary.URLsFound = len(urls)

	logger.Info("discovered documents",
		logging.Int("documents", len(docs)),
		logging.Int("remote_urls", len(urls)))

	return docs, urls, nil
}

// findDocuments returns every HTML file under root in walk order. The asset
// cache directory is not content and is skipped; unreadable entries below the
// root are tolerated.
func findDocuments(root, cacheDirName string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == cacheDirName && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
