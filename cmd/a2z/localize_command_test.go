package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/testsupport"
)

func writeDocument(t *testing.T, env *cliTestEnv, assetURL string) string {
	t.Helper()
	docDir := filepath.Join(env.cfg.Paths.ContentDir, "article")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		t.Fatalf("mkdir doc dir: %v", err)
	}
	page := filepath.Join(docDir, "page.html")
	html := fmt.Sprintf("<html><body><img src=%q></body></html>", assetURL)
	if err := os.WriteFile(page, []byte(html), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return page
}

func TestCLILocalizeRewritesDocuments(t *testing.T) {
	env := setupCLITestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, "png-bytes")
	}))
	t.Cleanup(srv.Close)

	page := writeDocument(t, env, srv.URL+"/logo.png")

	out, _, err := runCLI(t, env.configPath, "localize")
	if err != nil {
		t.Fatalf("localize: %v", err)
	}
	requireContains(t, out, "Localized "+env.cfg.Paths.ContentDir)
	requireContains(t, out, "Fetched")

	rewritten, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read rewritten page: %v", err)
	}
	if !strings.Contains(string(rewritten), `src="assets/`) {
		t.Fatalf("expected rewritten asset reference, got %s", rewritten)
	}

	assets, err := filepath.Glob(filepath.Join(filepath.Dir(page), "assets", "*.png"))
	if err != nil {
		t.Fatalf("glob assets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected one localized asset, got %v", assets)
	}
}

func TestCLILocalizeDryRunLeavesTreeUnchanged(t *testing.T) {
	env := setupCLITestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "png-bytes")
	}))
	t.Cleanup(srv.Close)

	page := writeDocument(t, env, srv.URL+"/logo.png")
	before, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "localize", "--dry-run")
	if err != nil {
		t.Fatalf("localize --dry-run: %v", err)
	}
	requireContains(t, out, "Dry run for "+env.cfg.Paths.ContentDir)

	after, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("reread page: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("dry run modified the document:\nbefore: %s\nafter: %s", before, after)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(page), "assets")); !os.IsNotExist(err) {
		t.Fatalf("dry run created an assets directory: %v", err)
	}
}

func TestCLILocalizeSendsCompletionNotification(t *testing.T) {
	var (
		mu     sync.Mutex
		titles []string
		bodies []string
	)
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		titles = append(titles, r.Header.Get("Title"))
		bodies = append(bodies, string(body))
		mu.Unlock()
	}))
	t.Cleanup(ntfy.Close)

	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(ntfy.URL+"/a2z"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "png-bytes")
	}))
	t.Cleanup(srv.Close)

	writeDocument(t, env, srv.URL+"/logo.png")

	if _, _, err := runCLI(t, env.configPath, "localize"); err != nil {
		t.Fatalf("localize: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(titles) != 1 {
		t.Fatalf("expected one notification, got %d", len(titles))
	}
	if titles[0] != "a2z - Localize Complete" {
		t.Errorf("notification title = %q", titles[0])
	}
	if !strings.Contains(bodies[0], "1 assets fetched") {
		t.Errorf("notification body = %q", bodies[0])
	}
}

func TestCLILocalizeMissingRootFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "localize", filepath.Join(env.cfg.Paths.ContentDir, "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
