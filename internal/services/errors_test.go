package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrFetch, "downloader", "fetch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"downloader", "fetch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "rewriter", "copy", "copy failed", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestKindClassification(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"fetch", services.Wrap(services.ErrFetch, "downloader", "get", "status 500", nil), "fetch"},
		{"parse", services.Wrap(services.ErrParse, "extractor", "parse", "bad html", nil), "parse"},
		{"corrupt", services.Wrap(services.ErrCorruptCache, "rewriter", "copy", "missing file", nil), "corrupt-cache"},
		{"unclassified", errors.New("surprise"), "transient"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Kind(tc.err); got != tc.expect {
				t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.expect)
			}
		})
	}
}
