package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	ap, ok := cfg.Profiles["areios_pagos"]
	if !ok {
		t.Fatal("areios_pagos profile missing")
	}
	if ap.Author != "#SCCC" || ap.Foreas != "SCCC" || ap.Strategy != "grammar" {
		t.Errorf("unexpected areios_pagos profile: %+v", ap)
	}

	ste, ok := cfg.Profiles["ste"]
	if !ok {
		t.Fatal("ste profile missing")
	}
	if ste.Author != "#COS" || ste.Strategy != "grammar" || !ste.Override || !ste.Sidecar {
		t.Errorf("unexpected ste profile: %+v", ste)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aknero.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 4
checksums: true
profiles:
  efeteio:
    author: "#CA"
    foreas: "CA"
    strategy: heuristic
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if !cfg.Checksums {
		t.Error("checksums not applied")
	}
	// defaults survive alongside the new profile
	if _, ok := cfg.Profiles["areios_pagos"]; !ok {
		t.Error("default profile dropped by merge")
	}
	added, ok := cfg.Profiles["efeteio"]
	if !ok {
		t.Fatal("file profile missing")
	}
	want := Profile{Name: "efeteio", Author: "#CA", Foreas: "CA", Strategy: "heuristic"}
	if diff := cmp.Diff(want, added); diff != "" {
		t.Errorf("merged profile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadStrategy(t *testing.T) {
	path := writeConfig(t, `
profiles:
  broken:
    author: "#X"
    foreas: "X"
    strategy: telepathy
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestLoadRejectsIncompleteProfile(t *testing.T) {
	path := writeConfig(t, `
profiles:
  broken:
    strategy: grammar
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for profile without author")
	}
}

func TestWorkerCount(t *testing.T) {
	cfg := Config{Workers: 3}
	if cfg.WorkerCount() != 3 {
		t.Errorf("WorkerCount = %d, want 3", cfg.WorkerCount())
	}
	cfg.Workers = 0
	if cfg.WorkerCount() < 1 {
		t.Error("expected at least one worker by default")
	}
}
