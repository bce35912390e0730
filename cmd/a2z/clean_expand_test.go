package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLICleanWritesSuffixedFile(t *testing.T) {
	env := setupCLITestEnv(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "notes.md")
	content := `link: "https://example.com/post?utm_source=news&id=7"` + "\n"
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "clean", input)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "Cleaned 1 of 1 links (1 replacements)")

	cleanedPath := filepath.Join(dir, "notes_cleaned.md")
	requireContains(t, out, "Wrote "+cleanedPath)

	cleaned, err := os.ReadFile(cleanedPath)
	if err != nil {
		t.Fatalf("read cleaned file: %v", err)
	}
	if !strings.Contains(string(cleaned), `"https://example.com/post?id=7"`) {
		t.Fatalf("tracking parameter survived: %s", cleaned)
	}
}

func TestCLICleanHonorsOutputFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(input, []byte(`"https://example.com/?gclid=abc"`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(dir, "out.md")

	if _, _, err := runCLI(t, env.configPath, "clean", input, "-o", output); err != nil {
		t.Fatalf("clean -o: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestCLICleanMissingInputFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "clean", filepath.Join(t.TempDir(), "absent.md"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestCLIExpandReplacesShortLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/s/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/articles/dp-intro", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/articles/dp-intro", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	env := setupCLITestEnv(t)
	parsed, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	env.cfg.Clean.ShortenerHosts = []string{parsed.Host}
	writeTestConfig(t, env.configPath, env.cfg)

	dir := t.TempDir()
	input := filepath.Join(dir, "links.txt")
	content := fmt.Sprintf("short: \"%s/s/abc\"\n", srv.URL)
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "expand", input)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	requireContains(t, out, "Expanded 1 of 1 short links (0 failed)")

	expanded, err := os.ReadFile(filepath.Join(dir, "links_expanded.txt"))
	if err != nil {
		t.Fatalf("read expanded file: %v", err)
	}
	if !strings.Contains(string(expanded), "/articles/dp-intro") {
		t.Fatalf("short link not expanded: %s", expanded)
	}
}

func TestCLIExpandMissingInputFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "expand", filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
