package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("command %v: %v", args, err)
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "version")
	if !strings.Contains(out, "pkt.systems/workbench") {
		t.Fatalf("expected module path in version output, got %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	runCommand(t, "config", "init", "-o", path)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	out := runCommand(t, "config", "show", "-c", path)
	if !strings.Contains(out, "config_version") {
		t.Fatalf("expected config_version in output, got %q", out)
	}
}

func TestOpenAndListCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "config_version: 1\nstate_dir: " + filepath.Join(dir, "state") + "\nbackup:\n  enabled: false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	doc := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(doc, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	out := runCommand(t, "open", "-c", cfgPath, doc)
	if !strings.Contains(out, "opened doc.txt") {
		t.Fatalf("expected open confirmation, got %q", out)
	}

	out = runCommand(t, "list", "-c", cfgPath)
	if !strings.Contains(out, "doc.txt") {
		t.Fatalf("expected listed editor, got %q", out)
	}

	out = runCommand(t, "state", "show", "-c", cfgPath)
	if !strings.Contains(out, "doc.txt") {
		t.Fatalf("expected persisted editor in state, got %q", out)
	}
	runCommand(t, "state", "clear", "-c", cfgPath)
}
