package testsupport

import (
	"context"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/mirror"
)

// MustOpenLedger opens a mirror.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *mirror.Store {
	t.Helper()

	store, err := mirror.Open(cfg)
	if err != nil {
		t.Fatalf("mirror.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// EnsureArticle records a pending ledger row for tests using the provided store.
func EnsureArticle(t testing.TB, store *mirror.Store, plan mirror.Plan) *mirror.Article {
	t.Helper()

	article, err := store.Ensure(context.Background(), plan)
	if err != nil {
		t.Fatalf("store.Ensure: %v", err)
	}
	return article
}
