package logging

import (
	"log/slog"
	"testing"
	"time"
)

func TestTitleizeKey(t *testing.T) {
	cases := map[string]string{
		"urls_to_fetch": "Urls To Fetch",
		"fetched":       "Fetched",
		"cache-file":    "Cache File",
		"":              "",
	}
	for in, want := range cases {
		if got := titleizeKey(in); got != want {
			t.Errorf("titleizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatValueForKeyHumanizes(t *testing.T) {
	attrs := []kv{}
	if got := formatValueForKeyWithAttrs("bytes", slog.Int64Value(4096), attrs); got != "4.0 KiB" {
		t.Fatalf("expected humanized byte size, got %q", got)
	}
	if got := formatValueForKeyWithAttrs("elapsed", slog.DurationValue(90*time.Second), attrs); got != "1m30s" {
		t.Fatalf("expected humanized duration, got %q", got)
	}
	if got := formatValueForKeyWithAttrs("dry_run", slog.BoolValue(true), attrs); got != "yes" {
		t.Fatalf("expected friendly bool, got %q", got)
	}
}

func TestSelectInfoFieldsHighlightsOrder(t *testing.T) {
	attrs := []kv{
		{key: "workers", value: slog.IntValue(4)},
		{key: "fetched", value: slog.IntValue(12)},
		{key: "status", value: slog.StringValue("completed")},
	}
	fields, hidden := selectInfoFields(attrs, 0, true)
	if hidden != 0 {
		t.Fatalf("expected no hidden fields, got %d", hidden)
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].label != "Status" {
		t.Fatalf("expected status highlighted first, got %q", fields[0].label)
	}
}
