package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/assetcache"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/testsupport"
)

const cachedAssetName = "deadbeefdeadbeefdeadbeefdeadbeef.png"

func seedAssetCache(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	cacheDir := filepath.Join(env.cfg.Paths.ContentDir, env.cfg.Localize.CacheDirName)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache dir: %v", err)
	}
	assetPath := filepath.Join(cacheDir, cachedAssetName)
	if err := os.WriteFile(assetPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	store, err := assetcache.Open(cacheDir, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Record("https://cdn.test/logo.png", cachedAssetName); err != nil {
		t.Fatalf("record entry: %v", err)
	}
	return assetPath
}

func TestCLICacheStatsAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAssetCache(t, env)

	out, _, err := runCLI(t, env.configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 1")
	requireContains(t, out, "Size:    9 B")

	out, _, err = runCLI(t, env.configPath, "cache", "ls")
	if err != nil {
		t.Fatalf("cache ls: %v", err)
	}
	requireContains(t, out, cachedAssetName)
	requireContains(t, out, "https://cdn.test/logo.png")
}

func TestCLICacheVerifyReportsMissingAssets(t *testing.T) {
	env := setupCLITestEnv(t)
	assetPath := seedAssetCache(t, env)

	out, _, err := runCLI(t, env.configPath, "cache", "verify")
	if err != nil {
		t.Fatalf("cache verify: %v", err)
	}
	requireContains(t, out, "Verified 1 cache entries")

	if err := os.Remove(assetPath); err != nil {
		t.Fatalf("remove asset: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "cache", "verify")
	if err == nil {
		t.Fatal("expected verify to fail with a missing asset")
	}
	requireContains(t, out, "missing: https://cdn.test/logo.png")
}

func TestCLICacheClear(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAssetCache(t, env)

	out, _, err := runCLI(t, env.configPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 cached assets")

	out, _, err = runCLI(t, env.configPath, "cache", "ls")
	if err != nil {
		t.Fatalf("cache ls after clear: %v", err)
	}
	requireContains(t, out, "Cache is empty")
}

func TestCLICacheStatsHumanReadableSizes(t *testing.T) {
	env := setupCLITestEnv(t)

	cacheDir := filepath.Join(env.cfg.Paths.ContentDir, env.cfg.Localize.CacheDirName)
	const bigAssetName = "cafecafecafecafecafecafecafecafe.bin"
	testsupport.WriteFile(t, filepath.Join(cacheDir, bigAssetName), 5*1024)

	store, err := assetcache.Open(cacheDir, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Record("https://cdn.test/big.bin", bigAssetName); err != nil {
		t.Fatalf("record entry: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Size:    5.0 KiB")
}

func TestCLICacheStatsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 0")
}
