package report_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/scorecard/internal/report"
	"github.com/signalnine/scorecard/internal/scan"
)

func sampleResults() []scan.Result {
	return []scan.Result{
		{Dataset: "caltech101", Shots: 1, Accuracy: 70, Std: 2, Runs: 3},
		{Dataset: "dtd", Shots: 1, Accuracy: 90, Std: 1, Runs: 3},
		{Dataset: "caltech101", Shots: 2, Accuracy: 85, Std: 3, Runs: 3},
	}
}

func TestBuildSummary(t *testing.T) {
	summaries := report.BuildSummary(sampleResults(), []int{1, 2, 4})
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries (4-shot has no data), got %d", len(summaries))
	}

	one := summaries[0]
	if one.Shots != 1 || one.NumDatasets != 2 {
		t.Errorf("1-shot identity: %+v", one)
	}
	if math.Abs(one.AvgAccuracy-80) > 1e-9 {
		t.Errorf("1-shot avg: got %f, want 80", one.AvgAccuracy)
	}
	if math.Abs(one.Std-10) > 1e-9 {
		t.Errorf("1-shot std: got %f, want 10", one.Std)
	}
	wantCI := 1.96 * 10 / math.Sqrt(2)
	if math.Abs(one.CI95-wantCI) > 1e-9 {
		t.Errorf("1-shot ci95: got %f, want %f", one.CI95, wantCI)
	}

	two := summaries[1]
	if two.Shots != 2 || two.NumDatasets != 1 {
		t.Errorf("2-shot identity: %+v", two)
	}
	if math.Abs(two.AvgAccuracy-85) > 1e-9 {
		t.Errorf("2-shot avg: got %f, want 85", two.AvgAccuracy)
	}
}

func TestBuildPivot(t *testing.T) {
	table := report.BuildPivot(sampleResults(), []string{"caltech101", "dtd"}, []int{1, 2})
	wantHeader := []string{"Dataset", "1-shot", "2-shot"}
	if len(table.Header) != 3 || table.Header[0] != wantHeader[0] ||
		table.Header[1] != wantHeader[1] || table.Header[2] != wantHeader[2] {
		t.Errorf("header: got %v, want %v", table.Header, wantHeader)
	}
	// dtd has no 2-shot record.
	if table.Rows[1][2] != "N/A" {
		t.Errorf("dtd 2-shot cell: got %q, want N/A", table.Rows[1][2])
	}
	last := table.Rows[len(table.Rows)-1]
	if last[0] != "AVERAGE" {
		t.Errorf("last row label: got %q, want AVERAGE", last[0])
	}
	if last[2] != "85.00" {
		t.Errorf("2-shot marginal: got %q, want 85.00", last[2])
	}
}

func TestWriteDetailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "detailed_results.csv")
	if err := report.WriteDetailed(sampleResults(), path); err != nil {
		t.Fatalf("WriteDetailed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "dataset,shots,accuracy,std" {
		t.Errorf("header: got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
	if lines[1] != "caltech101,1,70.00,2.00" {
		t.Errorf("first row: got %q", lines[1])
	}
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary_by_shots.csv")
	summaries := report.BuildSummary(sampleResults(), []int{1, 2})
	if err := report.WriteSummary(summaries, path); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "shots,avg_accuracy,std_across_datasets,ci95,num_datasets" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "1,80.00,10.00,13.86,2" {
		t.Errorf("1-shot row: got %q", lines[1])
	}
}

func TestWritePivot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot_table.csv")
	table := report.BuildPivot(sampleResults(), []string{"caltech101", "dtd"}, []int{1, 2})
	if err := report.WritePivot(table, path); err != nil {
		t.Fatalf("WritePivot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Dataset,1-shot,2-shot" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[len(lines)-1] != "AVERAGE,77.50,85.00" {
		t.Errorf("marginal row: got %q", lines[len(lines)-1])
	}
}

func TestRenderSummary(t *testing.T) {
	var buf strings.Builder
	report.RenderSummary(report.BuildSummary(sampleResults(), []int{1, 2}), &buf)
	out := buf.String()
	if !strings.Contains(out, "80.00%") {
		t.Errorf("rendered summary missing averages:\n%s", out)
	}
}
