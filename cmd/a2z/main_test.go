package main

import (
	"strings"
	"testing"
)

func TestCLIHelpListsCommands(t *testing.T) {
	out, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"localize", "render", "mirror", "clean", "expand", "cache", "config"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help output missing %q:\n%s", name, out)
		}
	}
}

func TestCLIUnknownCommandFails(t *testing.T) {
	_, _, err := runCLI(t, "", "bogus")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}
