package localize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jrchintu/a2z-old-sheet/internal/assetcache"
	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/fetch"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// Localizer drives the discover, download, and rewrite phases for one content root.
type Localizer struct {
	cfg    *config.Config
	logger *slog.Logger
	client *fetch.Client
}

// RunOptions adjusts a single localization run.
type RunOptions struct {
	// DryRun reports intended actions without writing anything.
	DryRun bool
	// ClearCache wipes the asset cache before the run starts.
	ClearCache bool
}

// Summary reports the outcome of one localization run. For dry runs the
// counts describe intended actions rather than completed ones.
type Summary struct {
	RunID         string
	Root          string
	Documents     int
	ParseFailures int
	URLsFound     int
	AlreadyCached int
	Fetched       int
	FetchFailed   int
	Rewritten     int
	RewriteFailed int
	RefsRewritten int
	RefsSkipped   int
	DryRun        bool
	Elapsed       time.Duration
}

// runState carries the per-run collaborators shared by the three phases.
type runState struct {
	store      *assetcache.Store
	downloader *assetcache.Downloader
	assetsName string
	dryRun     bool
	summary    *Summary
	mu         sync.Mutex
}

// New constructs a localizer using the shared HTTP client settings.
func New(cfg *config.Config, logger *slog.Logger) *Localizer {
	return NewWithDependencies(cfg, logger, fetch.NewFromConfig(cfg))
}

// NewWithDependencies allows injecting the HTTP client (used in tests).
func NewWithDependencies(cfg *config.Config, logger *slog.Logger, client *fetch.Client) *Localizer {
	return &Localizer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "localize"),
		client: client,
	}
}

// Run executes one localization pass over root. Only an invalid root is
// fatal; per-URL and per-document failures are logged and reflected in the
// summary without aborting the batch.
func (l *Localizer) Run(ctx context.Context, root string, opts RunOptions) (*Summary, error) {
	start := time.Now()

	summary := &Summary{
		RunID:  uuid.NewString(),
		Root:   root,
		DryRun: opts.DryRun,
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, l.logger)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "localize", "validate root",
			fmt.Sprintf("content root %q is not a directory", root), err)
	}

	store, err := assetcache.Open(filepath.Join(root, l.cfg.Localize.CacheDirName), l.logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "localize", "open cache", "", err)
	}

	if opts.ClearCache {
		switch {
		case opts.DryRun:
			logger.Info("dry-run: would clear asset cache", logging.String("path", store.Dir()))
		default:
			if err := store.Clear(); err != nil {
				return nil, services.Wrap(services.ErrStore, "localize", "clear cache", "", err)
			}
			logger.Info("cleared asset cache", logging.String("path", store.Dir()))
		}
	}

	state := &runState{
		store:      store,
		downloader: assetcache.NewDownloader(store, l.client, l.cfg.MaxAssetBytes(), l.logger),
		assetsName: l.cfg.Localize.AssetsDirName,
		dryRun:     opts.DryRun,
		summary:    summary,
	}

	logger.Info("starting localization",
		logging.String("root", root),
		logging.Int("workers", l.cfg.Localize.Workers),
		logging.Bool("dry_run", opts.DryRun))

	docs, urls, err := l.discover(ctx, state, root)
	if err != nil {
		return nil, err
	}

	l.download(ctx, state, urls)

	if err := ctx.Err(); err != nil {
		summary.Elapsed = time.Since(start)
		return summary, err
	}

	l.rewrite(ctx, state, docs)

	summary.Elapsed = time.Since(start)
	logger.Info("localization complete",
		logging.Int("documents", summary.Documents),
		logging.Int("fetched", summary.Fetched),
		logging.Int("fetch_failures", summary.FetchFailed),
		logging.Int("refs_rewritten", summary.RefsRewritten),
		logging.Int("refs_skipped", summary.RefsSkipped),
		logging.Duration("elapsed", summary.Elapsed))

	return summary, nil
}
