// Package scan walks the evaluation output tree and collects per-cell
// accuracy summaries. One cell is one dataset × shot-count combination; its
// directory holds one subdirectory per seed run, each with a log.txt.
//
// Scanning only reads, so cells are processed concurrently when asked to.
// A missing directory or log is a warning, never a batch failure.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/extract"
	"github.com/signalnine/scorecard/internal/runner"
	"github.com/signalnine/scorecard/internal/stats"
)

// Result is the aggregated accuracy of one dataset × shots cell.
type Result struct {
	Dataset  string
	Shots    int
	Accuracy float64 // mean over seed runs, percent
	Std      float64 // population stddev over seed runs
	Runs     int     // seed runs contributing
}

// EvalDir returns the directory holding the per-seed runs of one cell.
func EvalDir(outputDir, dataset string, shots int, trainer, suffix string) string {
	return filepath.Join(outputDir, dataset, fmt.Sprintf("shots_%d", shots), trainer, suffix)
}

// Matrix scans every configured dataset × shots cell. Cells whose directory
// is missing or contains no measurable run are skipped with a warning;
// results keep dataset-major config order.
func Matrix(cfg *config.Config, parallel int) []Result {
	type cell struct {
		dataset string
		shots   int
	}
	var cells []cell
	for _, dataset := range cfg.Datasets {
		for _, k := range cfg.Shots {
			cells = append(cells, cell{dataset, k})
		}
	}

	found := make([]*Result, len(cells))
	jobs := make([]runner.Job, len(cells))
	for i, c := range cells {
		i, c := i, c
		jobs[i] = func() error {
			dir := EvalDir(cfg.Paths.OutputDir, c.dataset, c.shots, cfg.Trainer, cfg.ConfigSuffix)
			if _, err := os.Stat(dir); err != nil {
				log.WithFields(log.Fields{"dataset": c.dataset, "shots": c.shots}).
					Warnf("eval directory not found: %s", dir)
				return nil
			}
			res, ok := Cell(dir)
			if !ok {
				log.WithFields(log.Fields{"dataset": c.dataset, "shots": c.shots}).
					Warnf("no accuracies found in %s", dir)
				return nil
			}
			res.Dataset = c.dataset
			res.Shots = c.shots
			found[i] = &res
			return nil
		}
	}
	runner.Run(parallel, jobs)

	var results []Result
	for _, r := range found {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// Cell summarizes the first reported accuracy of every seed run under dir.
// Returns ok=false when no run produced a measurable accuracy.
func Cell(dir string) (Result, bool) {
	var accuracies []float64
	for _, sub := range runDirs(dir) {
		logPath := filepath.Join(dir, sub, "log.txt")
		data, err := os.ReadFile(logPath)
		if err != nil {
			continue
		}
		metrics := extract.Extract(string(data))
		if acc, ok := metrics["accuracy"]; ok {
			accuracies = append(accuracies, acc)
		}
	}
	if len(accuracies) == 0 {
		return Result{}, false
	}
	s := stats.Summarize(accuracies)
	return Result{Accuracy: s.Mean, Std: s.StdDev, Runs: s.Count}, true
}

// runDirs lists the non-hidden subdirectories of dir, sorted by name.
func runDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
