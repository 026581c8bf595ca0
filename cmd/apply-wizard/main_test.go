package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "apply-wizard v") {
		t.Errorf("output = %q", out)
	}
}

func TestGraph_Apply(t *testing.T) {
	out, err := execute(t, "graph")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	for _, want := range []string{
		"1. Reasons for placement",
		"   basic-information (Basic information)",
		"     - transgender -> complex-case-board, sentence-type",
		"optional-oasys-sections [fetches reference data]",
		"5. Check your answers",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q", want)
		}
	}
}

func TestGraph_Assess(t *testing.T) {
	out, err := execute(t, "graph", "--form", "assess")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(out, "sufficient-information [can request information]") {
		t.Errorf("graph output = %s", out)
	}
}

func TestGraph_UnknownForm(t *testing.T) {
	if _, err := execute(t, "graph", "--form", "nope"); err == nil {
		t.Error("expected error for unknown form")
	}
}

func TestSeed(t *testing.T) {
	t.Setenv("APPLY_WIZARD_CONFIG", "")
	dataDir := t.TempDir()
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	content := "documents:\n  X320741:\n    - id: d1\n      fileName: licence.pdf\n" +
		"prisonCaseNotes:\n  X320741: []\n"
	if err := os.WriteFile(seed, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "seed", seed, "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Loaded 2 reference data entries") {
		t.Errorf("output = %q", out)
	}
}

func TestSeed_BadConfig(t *testing.T) {
	_, err := execute(t, "seed", "x.yaml", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for a missing config file")
	}
}
