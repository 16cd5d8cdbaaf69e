package scan_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/scan"
)

func writeRunLog(t *testing.T, cellDir, seed, body string) {
	t.Helper()
	dir := filepath.Join(cellDir, seed)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating run dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "log.txt"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing log: %v", err)
	}
}

func TestEvalDir(t *testing.T) {
	got := scan.EvalDir("out", "caltech101", 4, "clip_adapter", "vit_b16")
	want := filepath.Join("out", "caltech101", "shots_4", "clip_adapter", "vit_b16")
	if got != want {
		t.Errorf("EvalDir: got %q, want %q", got, want)
	}
}

func TestCell(t *testing.T) {
	dir := t.TempDir()
	writeRunLog(t, dir, "seed1", "training...\n=> result\n* accuracy: 80.00%\n")
	writeRunLog(t, dir, "seed2", "=> result\n* accuracy: 90.00%\n")
	writeRunLog(t, dir, "seed3", "crashed before eval\n")
	// Hidden directories are skipped; only seed1 and seed2 count.
	writeRunLog(t, dir, ".cache", "=> result\n* accuracy: 10.00%\n")

	res, ok := scan.Cell(dir)
	if !ok {
		t.Fatal("expected a measurable cell")
	}
	if res.Runs != 2 {
		t.Errorf("runs: got %d, want 2", res.Runs)
	}
	if math.Abs(res.Accuracy-85) > 1e-9 {
		t.Errorf("accuracy: got %f, want 85", res.Accuracy)
	}
	if math.Abs(res.Std-5) > 1e-9 {
		t.Errorf("std: got %f, want 5", res.Std)
	}
}

func TestCellNoAccuracies(t *testing.T) {
	dir := t.TempDir()
	writeRunLog(t, dir, "seed1", "no results here\n")
	if _, ok := scan.Cell(dir); ok {
		t.Error("expected ok=false for a cell with no measurable run")
	}
}

func TestMatrix(t *testing.T) {
	out := t.TempDir()
	cfg := &config.Config{
		Datasets:     []string{"caltech101", "dtd"},
		Shots:        []int{4},
		Trainer:      "clip_adapter",
		ConfigSuffix: "vit_b16",
	}
	cfg.Paths.OutputDir = out

	cell := scan.EvalDir(out, "caltech101", 4, "clip_adapter", "vit_b16")
	writeRunLog(t, cell, "seed1", "=> result\n* accuracy: 72.50%\n")
	// dtd has no eval directory at all; it is skipped, not fatal.

	results := scan.Matrix(cfg, 2)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Dataset != "caltech101" || r.Shots != 4 {
		t.Errorf("unexpected cell identity: %+v", r)
	}
	if math.Abs(r.Accuracy-72.5) > 1e-9 {
		t.Errorf("accuracy: got %f, want 72.5", r.Accuracy)
	}
}

func TestMatrixKeepsConfigOrder(t *testing.T) {
	out := t.TempDir()
	cfg := &config.Config{
		Datasets:     []string{"dtd", "caltech101"},
		Shots:        []int{2, 4},
		Trainer:      "clip_adapter",
		ConfigSuffix: "vit_b16",
	}
	cfg.Paths.OutputDir = out
	for _, ds := range cfg.Datasets {
		for _, k := range cfg.Shots {
			cell := scan.EvalDir(out, ds, k, cfg.Trainer, cfg.ConfigSuffix)
			writeRunLog(t, cell, "seed1", "=> result\n* accuracy: 50.00%\n")
		}
	}

	results := scan.Matrix(cfg, 4)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	want := []struct {
		dataset string
		shots   int
	}{
		{"dtd", 2}, {"dtd", 4}, {"caltech101", 2}, {"caltech101", 4},
	}
	for i, w := range want {
		if results[i].Dataset != w.dataset || results[i].Shots != w.shots {
			t.Errorf("result %d: got %s/%d, want %s/%d",
				i, results[i].Dataset, results[i].Shots, w.dataset, w.shots)
		}
	}
}
