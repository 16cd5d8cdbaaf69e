// Package report writes the aggregated CSV tables and renders them for the
// console.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"github.com/signalnine/scorecard/internal/pivot"
	"github.com/signalnine/scorecard/internal/scan"
	"github.com/signalnine/scorecard/internal/stats"
)

// ShotSummary aggregates the per-dataset mean accuracies at one shot count.
type ShotSummary struct {
	Shots       int
	AvgAccuracy float64
	Std         float64 // population stddev across dataset means
	CI95        float64
	NumDatasets int
}

// BuildSummary computes the cross-dataset summary for each shot count, in
// the given order. Shot counts with no contributing dataset are omitted
// entirely — datasets without a record at a shot value are excluded, not
// treated as zero.
func BuildSummary(results []scan.Result, shots []int) []ShotSummary {
	byShot := make(map[int][]float64)
	for _, r := range results {
		byShot[r.Shots] = append(byShot[r.Shots], r.Accuracy)
	}
	var summaries []ShotSummary
	for _, k := range shots {
		accs := byShot[k]
		if len(accs) == 0 {
			continue
		}
		s := stats.Summarize(accs)
		summaries = append(summaries, ShotSummary{
			Shots:       k,
			AvgAccuracy: s.Mean,
			Std:         s.StdDev,
			CI95:        stats.CI95(accs),
			NumDatasets: s.Count,
		})
	}
	return summaries
}

// BuildPivot projects scan results into the dataset × shots matrix.
func BuildPivot(results []scan.Result, datasets []string, shots []int) *pivot.Table {
	cols := make([]string, len(shots))
	for i, k := range shots {
		cols[i] = shotLabel(k)
	}
	return pivot.Build(results,
		func(r scan.Result) string { return r.Dataset },
		func(r scan.Result) string { return shotLabel(r.Shots) },
		func(r scan.Result) float64 { return r.Accuracy },
		datasets, cols, "Dataset")
}

func shotLabel(k int) string {
	return fmt.Sprintf("%d-shot", k)
}

// WriteDetailed writes one row per dataset × shots observation.
func WriteDetailed(results []scan.Result, path string) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Dataset,
			fmt.Sprintf("%d", r.Shots),
			fmt.Sprintf("%.2f", r.Accuracy),
			fmt.Sprintf("%.2f", r.Std),
		})
	}
	return writeCSV(path, []string{"dataset", "shots", "accuracy", "std"}, rows)
}

// WriteSummary writes the per-shot cross-dataset summary.
func WriteSummary(summaries []ShotSummary, path string) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Shots),
			fmt.Sprintf("%.2f", s.AvgAccuracy),
			fmt.Sprintf("%.2f", s.Std),
			fmt.Sprintf("%.2f", s.CI95),
			fmt.Sprintf("%d", s.NumDatasets),
		})
	}
	return writeCSV(path, []string{"shots", "avg_accuracy", "std_across_datasets", "ci95", "num_datasets"}, rows)
}

// WritePivot writes the pivot matrix as a delimited table.
func WritePivot(t *pivot.Table, path string) error {
	return writeCSV(path, t.Header, t.Rows)
}

// RenderPivot prints the pivot matrix as an aligned console table.
func RenderPivot(t *pivot.Table, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Header)
	for _, row := range t.Rows {
		table.Append(row)
	}
	table.Render()
}

// RenderSummary prints the per-shot summary as an aligned console table.
func RenderSummary(summaries []ShotSummary, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Shots", "Avg Accuracy", "Std", "CI95", "Datasets"})
	for _, s := range summaries {
		table.Append([]string{
			fmt.Sprintf("%d", s.Shots),
			fmt.Sprintf("%.2f%%", s.AvgAccuracy),
			fmt.Sprintf("%.2f", s.Std),
			fmt.Sprintf("%.2f", s.CI95),
			fmt.Sprintf("%d", s.NumDatasets),
		})
	}
	table.Render()
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
