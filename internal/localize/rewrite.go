package localize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Jrchintu/a2z-old-sheet/internal/fileutil"
	"github.com/Jrchintu/a2z-old-sheet/internal/htmlscan"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// rewrite re-opens every discovered document and points resolvable references
// at copies staged in the document's assets folder. References whose URLs are
// not cached keep their remote form.
func (l *Localizer) rewrite(ctx context.Context, state *runState, docs []string) {
	ctx = services.WithPhase(ctx, "rewrite")

	for _, path := range docs {
		dctx := services.WithDocument(ctx, path)
		docLog := logging.WithContext(dctx, l.logger)

		rewritten, skipped, err := l.rewriteDocument(dctx, state, path)
		state.summary.RefsRewritten += rewritten
		state.summary.RefsSkipped += skipped
		if err != nil {
			state.summary.RewriteFailed++
			docLog.Warn("failed to rewrite document",
				logging.String(logging.FieldEventType, "document_rewrite_failed"),
				logging.String("kind", services.Kind(err)),
				logging.Error(err))
			continue
		}
		state.summary.Rewritten++
		docLog.Debug("document rewritten",
			logging.Int("refs_rewritten", rewritten),
			logging.Int("refs_skipped", skipped))
	}

	phaseLog := logging.WithContext(ctx, l.logger)
	phaseLog.Info("rewrite phase complete",
		logging.Int("documents", state.summary.Rewritten),
		logging.Int("failed", state.summary.RewriteFailed),
		logging.Int("refs_rewritten", state.summary.RefsRewritten),
		logging.Int("refs_skipped", state.summary.RefsSkipped))
}

// rewriteDocument parses one document, substitutes every resolvable remote
// reference, and saves the document back in place. In dry-run mode it only
// counts the references a real run would rewrite.
func (l *Localizer) rewriteDocument(ctx context.Context, state *runState, path string) (rewritten, skipped int, err error) {
	doc, err := htmlscan.ParseFile(path)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrParse, "localize", "parse document", path, err)
	}

	if state.dryRun {
		return l.planDocument(ctx, doc), 0, nil
	}

	assetsDir := filepath.Join(filepath.Dir(path), state.assetsName)

	for _, ref := range doc.Refs() {
		switch ref.Kind {
		case htmlscan.KindSrcset:
			entries := htmlscan.ParseSrcset(ref.Get())
			changed := false
			for i, entry := range entries {
				url, remote := htmlscan.NormalizeRemote(entry.URL)
				if !remote {
					continue
				}
				local, ok := l.stageAsset(ctx, state, assetsDir, url)
				if !ok {
					skipped++
					continue
				}
				entries[i].URL = local
				changed = true
				rewritten++
			}
			if changed {
				ref.Set(htmlscan.BuildSrcset(entries))
			}
		case htmlscan.KindStyleAttr, htmlscan.KindStyleBlock:
			changed := false
			resolved := make(map[string]string)
			text := htmlscan.ReplaceCSSURLs(ref.Get(), func(raw string) string {
				if local, done := resolved[raw]; done {
					return local
				}
				url, remote := htmlscan.NormalizeRemote(raw)
				if !remote {
					resolved[raw] = ""
					return ""
				}
				local, ok := l.stageAsset(ctx, state, assetsDir, url)
				if !ok {
					skipped++
					resolved[raw] = ""
					return ""
				}
				resolved[raw] = local
				changed = true
				rewritten++
				return local
			})
			if changed {
				ref.Set(text)
			}
		default:
			url, remote := htmlscan.NormalizeRemote(ref.Get())
			if !remote {
				continue
			}
			local, ok := l.stageAsset(ctx, state, assetsDir, url)
			if !ok {
				skipped++
				continue
			}
			ref.Set(local)
			rewritten++
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return rewritten, skipped, services.Wrap(services.ErrParse, "localize", "render document", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rewritten, skipped, services.Wrap(services.ErrStore, "localize", "save document", path, err)
	}

	return rewritten, skipped, nil
}

// planDocument counts the remote references a real run would rewrite.
func (l *Localizer) planDocument(ctx context.Context, doc *htmlscan.Document) int {
	count := 0
	for _, ref := range doc.Refs() {
		switch ref.Kind {
		case htmlscan.KindSrcset:
			for _, entry := range htmlscan.ParseSrcset(ref.Get()) {
				if _, remote := htmlscan.NormalizeRemote(entry.URL); remote {
					count++
				}
			}
		case htmlscan.KindStyleAttr, htmlscan.KindStyleBlock:
			for _, raw := range htmlscan.CSSURLs(ref.Get()) {
				if _, remote := htmlscan.NormalizeRemote(raw); remote {
					count++
				}
			}
		default:
			if _, remote := htmlscan.NormalizeRemote(ref.Get()); remote {
				count++
			}
		}
	}

	logger := logging.WithContext(ctx, l.logger)
	logger.Info("dry-run: would rewrite document", logging.Int("remote_refs", count))
	return count
}

// stageAsset resolves url through the cache, ensures a copy exists in the
// document's assets folder, and returns the reference value to substitute.
// Unresolvable URLs report false so the caller leaves the remote form alone.
func (l *Localizer) stageAsset(ctx context.Context, state *runState, assetsDir, url string) (string, bool) {
	uctx := services.WithAssetURL(ctx, url)
	logger := logging.WithContext(uctx, l.logger)

	filename, ok := state.store.Resolve(url)
	if !ok {
		logger.Warn("asset not in cache, leaving remote reference",
			logging.String(logging.FieldEventType, "asset_unresolved"))
		return "", false
	}

	cachePath := state.store.Path(filename)
	if _, err := os.Stat(cachePath); err != nil {
		wrapped := services.Wrap(services.ErrCorruptCache, "localize", "stage asset", filename, err)
		logger.Warn("cache file missing, leaving remote reference",
			logging.String(logging.FieldEventType, "asset_cache_corrupt"),
			logging.String("kind", services.Kind(wrapped)),
			logging.Error(wrapped))
		return "", false
	}

	destPath := filepath.Join(assetsDir, filename)
	if _, err := os.Stat(destPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot stat staged asset, leaving remote reference", logging.Error(err))
			return "", false
		}
		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			logger.Warn("failed to create assets directory, leaving remote reference", logging.Error(err))
			return "", false
		}
		if err := fileutil.CopyFile(cachePath, destPath); err != nil {
			logger.Warn("failed to stage asset copy, leaving remote reference", logging.Error(err))
			return "", false
		}
	}

	return state.assetsName + "/" + filename, true
}
