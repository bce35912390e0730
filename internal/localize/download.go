package localize

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// download fetches every URL not already present in the cache index across a
// bounded worker pool. Each completed download is recorded in the index
// immediately, so an interrupted run keeps what it fetched.
func (l *Localizer) download(ctx context.Context, state *runState, urls []string) {
	ctx = services.WithPhase(ctx, "download")
	logger := logging.WithContext(ctx, l.logger)

	var toFetch []string
	for _, url := range urls {
		if _, ok := state.store.Resolve(url); ok {
			state.summary.AlreadyCached++
			continue
		}
		toFetch = append(toFetch, url)
	}

	if len(toFetch) == 0 {
		logger.Info("all assets already cached", logging.Int("cached", state.summary.AlreadyCached))
		return
	}

	if state.dryRun {
		for _, url := range toFetch {
			logger.Info("dry-run: would download asset", logging.String(logging.FieldAssetURL, url))
		}
		state.summary.Fetched = len(toFetch)
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, l.cfg.Localize.Workers))

	for _, url := range toFetch {
		url := url // pin per-iteration value; go directive predates Go 1.22 loopvar semantics
		eg.Go(func() error {
			uctx := services.WithAssetURL(egCtx, url)
			workerLog := logging.WithContext(uctx, l.logger)

			filename, err := state.downloader.Fetch(uctx, url)
			if err == nil {
				err = state.store.Record(url, filename)
			}

			state.mu.Lock()
			defer state.mu.Unlock()
			if err != nil {
				state.summary.FetchFailed++
				workerLog.Warn("failed to localize asset",
					logging.String(logging.FieldEventType, "asset_fetch_failed"),
					logging.String("kind", services.Kind(err)),
					logging.Error(err))
				return nil // per-URL failures never abort the batch
			}
			state.summary.Fetched++
			workerLog.Debug("asset cached", logging.String("filename", filename))
			return nil
		})
	}
	_ = eg.Wait()

	logger.Info("download phase complete",
		logging.Int("fetched", state.summary.Fetched),
		logging.Int("failed", state.summary.FetchFailed),
		logging.Int("cached", state.summary.AlreadyCached))
}
