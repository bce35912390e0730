package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/mirror"
	"github.com/Jrchintu/a2z-old-sheet/internal/testsupport"
)

// newArticleAPI serves article JSON under /article/, returning 404 for any
// path containing "broken".
func newArticleAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/article/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title": "Two Sum", "content": "<p>Body</p>"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeSheetFile(t *testing.T, links ...string) string {
	t.Helper()
	topics := make([]mirror.Topic, 0, len(links))
	for i, link := range links {
		topics = append(topics, mirror.Topic{Title: fmt.Sprintf("Topic %d", i+1), PostLink: link})
	}
	sheet := mirror.Sheet{{
		Title:    "Arrays",
		SubSteps: []mirror.SubStep{{Title: "Basics", Topics: topics}},
	}}
	data, err := json.Marshal(sheet)
	if err != nil {
		t.Fatalf("marshal sheet: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

func TestCLIMirrorLifecycle(t *testing.T) {
	srv := newArticleAPI(t)
	env := setupCLITestEnv(t, testsupport.WithAPIBaseURL(srv.URL+"/article"))

	sheet := writeSheetFile(t,
		"https://takeuforward.org/arrays/two-sum/",
		"https://takeuforward.org/arrays/broken-topic/",
	)

	out, _, err := runCLI(t, env.configPath, "mirror", "run", sheet)
	if err != nil {
		t.Fatalf("mirror run: %v", err)
	}
	requireContains(t, out, "Mirrored "+sheet)
	requireContains(t, out, "a2z mirror retry")

	saved := filepath.Join(env.cfg.Paths.MirrorDir, "arrays", "two-sum.json")
	if _, err := os.Stat(saved); err != nil {
		t.Fatalf("expected mirrored article on disk: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "mirror", "status")
	if err != nil {
		t.Fatalf("mirror status: %v", err)
	}
	requireContains(t, out, "Fetched")
	requireContains(t, out, "Failed")
	requireContains(t, out, "Health: ok")
	requireContains(t, out, "Ledger: "+env.cfg.Paths.LedgerPath)

	out, _, err = runCLI(t, env.configPath, "mirror", "list", "--status", "failed")
	if err != nil {
		t.Fatalf("mirror list: %v", err)
	}
	requireContains(t, out, "Broken Topic")
	if strings.Contains(out, "Two Sum") {
		t.Fatalf("failed filter leaked fetched articles: %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "mirror", "retry")
	if err != nil {
		t.Fatalf("mirror retry: %v", err)
	}
	requireContains(t, out, "Requeued 1 failed articles")

	out, _, err = runCLI(t, env.configPath, "mirror", "list", "-s", "pending")
	if err != nil {
		t.Fatalf("mirror list pending: %v", err)
	}
	requireContains(t, out, "Broken Topic")
}

func TestCLIMirrorStatusJSON(t *testing.T) {
	srv := newArticleAPI(t)
	env := setupCLITestEnv(t, testsupport.WithAPIBaseURL(srv.URL+"/article"))

	sheet := writeSheetFile(t, "https://takeuforward.org/arrays/two-sum/")
	if _, _, err := runCLI(t, env.configPath, "mirror", "run", sheet); err != nil {
		t.Fatalf("mirror run: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "mirror", "status", "--json")
	if err != nil {
		t.Fatalf("mirror status --json: %v", err)
	}

	var view struct {
		Ledger string         `json:"ledger"`
		Counts map[string]int `json:"counts"`
		Total  int            `json:"total"`
		Health string         `json:"health"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("unmarshal status: %v\noutput: %s", err, out)
	}
	if view.Total != 1 || view.Counts["fetched"] != 1 {
		t.Fatalf("unexpected status counts: %+v", view)
	}
	if view.Health != "ok" {
		t.Fatalf("expected healthy ledger, got %q", view.Health)
	}
}

func TestCLIMirrorStatusEmptyLedger(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "mirror", "status")
	if err != nil {
		t.Fatalf("mirror status: %v", err)
	}
	requireContains(t, out, "Ledger is empty")
}

func TestCLIMirrorListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "mirror", "list", "--status", "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}
