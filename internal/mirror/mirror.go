package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/fetch"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// Mirrorer downloads every article a sheet links to and records the outcome
// in the ledger.
type Mirrorer struct {
	cfg    *config.Config
	store  *Store
	logger *slog.Logger
	client *fetch.Client
}

// Summary reports the outcome of one mirror run.
type Summary struct {
	RunID         string
	Sheet         string
	Topics        int
	Planned       int
	Unplannable   int
	Fetched       int
	Exists        int
	Failed        int
	SkippedFailed int
	Elapsed       time.Duration
}

// runState carries the per-run collaborators shared by the workers.
type runState struct {
	runID   string
	summary *Summary
	mu      sync.Mutex
}

// New constructs a mirrorer using the shared HTTP client settings.
func New(cfg *config.Config, store *Store, logger *slog.Logger) *Mirrorer {
	return NewWithDependencies(cfg, store, logger, fetch.NewFromConfig(cfg))
}

// NewWithDependencies allows injecting the HTTP client (used in tests).
func NewWithDependencies(cfg *config.Config, store *Store, logger *slog.Logger, client *fetch.Client) *Mirrorer {
	return &Mirrorer{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "mirror"),
		client: client,
	}
}

// Run executes one mirror pass over the sheet at sheetPath. Only an
// unreadable or unparseable sheet is fatal; per-article failures are logged,
// recorded in the ledger, and reflected in the summary without aborting the
// batch.
func (m *Mirrorer) Run(ctx context.Context, sheetPath string) (*Summary, error) {
	start := time.Now()

	summary := &Summary{
		RunID: uuid.NewString(),
		Sheet: sheetPath,
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, m.logger)

	sheet, err := LoadSheet(sheetPath)
	if err != nil {
		return nil, err
	}

	topics := sheet.Topics()
	summary.Topics = len(topics)
	if len(topics) == 0 {
		logger.Info("no article links found in sheet", logging.String("sheet", sheetPath))
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	plans := m.plan(logger, summary, topics)

	logger.Info("starting mirror run",
		logging.String("sheet", sheetPath),
		logging.Int("articles", len(plans)),
		logging.Int("workers", m.cfg.Mirror.Workers))

	state := &runState{runID: summary.RunID, summary: summary}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, m.cfg.Mirror.Workers))
	for _, plan := range plans {
		plan := plan // pin per-iteration value; go directive predates Go 1.22 loopvar semantics
		eg.Go(func() error {
			m.mirrorOne(egCtx, state, plan)
			return nil
		})
	}
	_ = eg.Wait()

	summary.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Info("mirror run complete",
		logging.Int("fetched", summary.Fetched),
		logging.Int("already_saved", summary.Exists),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped_failed", summary.SkippedFailed),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// plan derives one fetch plan per distinct post link, in sheet order. Links
// that yield no usable slug are logged and counted, never fatal.
func (m *Mirrorer) plan(logger *slog.Logger, summary *Summary, topics []Topic) []Plan {
	seen := make(map[string]struct{}, len(topics))
	plans := make([]Plan, 0, len(topics))
	for _, topic := range topics {
		if _, ok := seen[topic.PostLink]; ok {
			continue
		}
		seen[topic.PostLink] = struct{}{}

		plan, ok := PlanTopic(topic, m.cfg.Paths.MirrorDir)
		if !ok {
			summary.Unplannable++
			logger.Warn("cannot derive article path from link",
				logging.String(logging.FieldEventType, "article_unplannable"),
				logging.String("link", topic.PostLink))
			continue
		}
		plans = append(plans, plan)
	}
	summary.Planned = len(plans)
	return plans
}

// mirrorOne fetches a single article and records the outcome. Every failure
// path marks the ledger row failed and returns without error so the batch
// continues.
func (m *Mirrorer) mirrorOne(ctx context.Context, state *runState, plan Plan) {
	ctx = services.WithDocument(ctx, plan.Slug)
	logger := logging.WithContext(ctx, m.logger)

	article, err := m.store.Ensure(ctx, plan)
	if err != nil {
		fmt.Printf("DEBUG ensure failed for %s: %v\n", plan.Link, err)
		state.record(func(s *Summary) { s.Failed++ })
		logger.Warn("cannot record article in ledger",
			logging.String("link", plan.Link),
			logging.Error(err))
		return
	}

	if article.Status == StatusFailed {
		state.record(func(s *Summary) { s.SkippedFailed++ })
		logger.Debug("skipping failed article until retried", logging.String("link", plan.Link))
		return
	}

	if _, err := os.Stat(plan.Dest); err == nil {
		if article.Status != StatusExists {
			article.Status = StatusExists
			article.RunID = state.runID
			article.ErrorMessage = ""
			if err := m.store.Update(ctx, article); err != nil {
				logger.Warn("cannot update ledger row", logging.Error(err))
			}
		}
		state.record(func(s *Summary) { s.Exists++ })
		logger.Debug("article already on disk", logging.String("path", plan.Dest))
		return
	}

	body, err := m.fetchArticle(ctx, plan)
	if err == nil {
		err = m.writeArticle(plan, body)
	}
	if err != nil {
		m.markFailed(ctx, state, logger, article, err)
		return
	}

	article.Status = StatusFetched
	article.RunID = state.runID
	article.ErrorMessage = ""
	if err := m.store.Update(ctx, article); err != nil {
		logger.Warn("cannot update ledger row", logging.Error(err))
	}
	state.record(func(s *Summary) { s.Fetched++ })
	logger.Info("article mirrored",
		logging.String(logging.FieldEventType, "article_mirrored"),
		logging.String("path", plan.Dest))
}

// fetchArticle retrieves the article JSON from the API and re-indents it for
// readable diffs, preserving key order.
func (m *Mirrorer) fetchArticle(ctx context.Context, plan Plan) ([]byte, error) {
	apiURL := strings.TrimRight(m.cfg.Mirror.APIBaseURL, "/") + "/" + plan.Path

	body, err := m.client.Get(ctx, apiURL)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "mirror", "fetch article",
			fmt.Sprintf("fetch %s", apiURL), err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "    "); err != nil {
		return nil, services.Wrap(services.ErrParse, "mirror", "validate article",
			"article response is not valid JSON", err)
	}
	return indented.Bytes(), nil
}

func (m *Mirrorer) writeArticle(plan Plan, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(plan.Dest), 0o755); err != nil {
		return services.Wrap(services.ErrStore, "mirror", "create category dir", "", err)
	}
	if err := os.WriteFile(plan.Dest, body, 0o644); err != nil {
		return services.Wrap(services.ErrStore, "mirror", "write article", "", err)
	}
	return nil
}

func (m *Mirrorer) markFailed(ctx context.Context, state *runState, logger *slog.Logger, article *Article, cause error) {
	fmt.Printf("DEBUG markFailed for %s: %v\n", article.Link, cause)
	article.Status = StatusFailed
	article.RunID = state.runID
	article.ErrorMessage = cause.Error()
	if err := m.store.Update(ctx, article); err != nil {
		logger.Warn("cannot update ledger row", logging.Error(err))
	}
	state.record(func(s *Summary) { s.Failed++ })
	logger.Warn("failed to mirror article",
		logging.String(logging.FieldEventType, "article_failed"),
		logging.String("link", article.Link),
		logging.String("kind", services.Kind(cause)),
		logging.Error(cause))
}

func (state *runState) record(update func(*Summary)) {
	state.mu.Lock()
	defer state.mu.Unlock()
	update(state.summary)
}
