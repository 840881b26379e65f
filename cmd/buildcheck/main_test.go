package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	base := []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--catalog-dir", "../../example/definitions",
		"--snapshots", "../../example/configurations/builds.yaml",
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func requireExamples(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("../../example/definitions"); os.IsNotExist(err) {
		t.Skip("Skipping CLI test - example directory not found")
	}
}

func TestValidateCommandJSON(t *testing.T) {
	requireExamples(t)

	out, err := runCLI(t, "-o", "json", "validate", "compute-node-01", "ram", "ram-ddr5-64g-4800")
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}

	var v models.Verdict
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not a verdict: %v\n%s", err, out)
	}
	if v.Status != models.StatusAllowedWithWarnings {
		t.Errorf("status = %s, expected allowed_with_warnings", v.Status)
	}
	if !v.Has("memory_frequency_cascade") {
		t.Errorf("expected memory_frequency_cascade warning, got %+v", v.Warnings)
	}
}

func TestValidateCommandBlocked(t *testing.T) {
	requireExamples(t)

	out, err := runCLI(t, "validate", "storage-node-01", "cpu", "cpu-xeon-6430")
	if !errors.Is(err, errBlocked) {
		t.Fatalf("validate error = %v, expected errBlocked\n%s", err, out)
	}
	if !strings.Contains(out, "BLOCKED") || !strings.Contains(out, "[cpu_socket_mismatch]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSlotsCommand(t *testing.T) {
	requireExamples(t)

	out, err := runCLI(t, "slots", "compute-node-01")
	if err != nil {
		t.Fatalf("slots error = %v\n%s", err, out)
	}
	for _, want := range []string{"pcie_x16_1", "nic-cx6-dx", "Memory: 0/12 slots used"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderVerdict(t *testing.T) {
	color.NoColor = true

	v := models.NewVerdict("cfg", models.TypeNIC, "nic-1")
	v.Block(models.Finding{Type: "pcie_slot_unavailable", Message: "No free slot", Resolution: "Remove a card"})
	v.Info(models.Finding{Type: "note", Message: "fyi"})
	v.AssignedSlot = "pcie_x8_1"

	var out bytes.Buffer
	renderVerdict(&out, v)

	expected := []string{
		"nic nic-1 → cfg: BLOCKED",
		"  ✗ [pcie_slot_unavailable] No free slot",
		"      → Remove a card",
		"  ℹ [note] fyi",
		"  slot: pcie_x8_1",
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != len(expected) {
		t.Fatalf("renderVerdict() printed %d lines, expected %d:\n%s", len(lines), len(expected), out.String())
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], expected[i])
		}
	}
}

func TestResolveCatalogDir(t *testing.T) {
	dir := t.TempDir()
	logger := utils.NewLoggerTo(&bytes.Buffer{}, false)

	result, err := resolveCatalogDir(dir, logger)
	if err != nil {
		t.Fatalf("resolveCatalogDir() error = %v", err)
	}
	if result != dir {
		t.Errorf("resolveCatalogDir() = %q, expected %q", result, dir)
	}

	// the example fallback is relative to the working directory, which has none here
	if _, err := resolveCatalogDir(filepath.Join(dir, "missing"), logger); err == nil {
		t.Error("resolveCatalogDir() expected error for missing directory")
	}
}

func TestConfigSyncDryRun(t *testing.T) {
	requireExamples(t)

	db := filepath.Join(t.TempDir(), "sync.db")
	out, err := runCLI(t, "--db", db, "config", "sync", "--dry-run", "../../example/configurations/builds.yaml")
	if err != nil {
		t.Fatalf("sync error = %v\n%s", err, out)
	}

	out, err = runCLI(t, "--db", db, "-o", "json", "config", "list")
	if err != nil {
		t.Fatalf("list error = %v\n%s", err, out)
	}
	if strings.Contains(out, "storage-node-01") {
		t.Errorf("dry run stored configurations:\n%s", out)
	}
}
