package pivot_test

import (
	"reflect"
	"testing"

	"github.com/signalnine/scorecard/internal/pivot"
)

type obs struct {
	row string
	col string
	val float64
}

func build(records []obs, rowOrder, colOrder []string) *pivot.Table {
	return pivot.Build(records,
		func(o obs) string { return o.row },
		func(o obs) string { return o.col },
		func(o obs) float64 { return o.val },
		rowOrder, colOrder, "Dataset")
}

func TestBuild(t *testing.T) {
	records := []obs{
		{"A", "1-shot", 80},
		{"A", "2-shot", 90},
		{"B", "1-shot", 70},
	}
	table := build(records, []string{"A", "B", "C"}, []string{"1-shot", "2-shot"})

	wantHeader := []string{"Dataset", "1-shot", "2-shot"}
	if !reflect.DeepEqual(table.Header, wantHeader) {
		t.Errorf("header: got %v, want %v", table.Header, wantHeader)
	}
	// C has no observations and is dropped; the marginal row is appended.
	wantRows := [][]string{
		{"A", "80.00", "90.00"},
		{"B", "70.00", pivot.Sentinel},
		{pivot.MarginalLabel, "75.00", "90.00"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("rows: got %v, want %v", table.Rows, wantRows)
	}
}

func TestBuildMarginalSkipsMissingCells(t *testing.T) {
	// B's missing 2-shot cell must not drag the column average down.
	records := []obs{
		{"A", "2-shot", 90},
		{"B", "1-shot", 70},
	}
	table := build(records, []string{"A", "B"}, []string{"1-shot", "2-shot"})
	marginal := table.Rows[len(table.Rows)-1]
	if marginal[2] != "90.00" {
		t.Errorf("2-shot marginal: got %q, want %q", marginal[2], "90.00")
	}
}

func TestBuildEmptyColumn(t *testing.T) {
	records := []obs{{"A", "1-shot", 80}}
	table := build(records, []string{"A"}, []string{"1-shot", "2-shot"})
	marginal := table.Rows[len(table.Rows)-1]
	if marginal[2] != pivot.Sentinel {
		t.Errorf("empty column marginal: got %q, want %q", marginal[2], pivot.Sentinel)
	}
}

func TestBuildDuplicateCellLastWins(t *testing.T) {
	records := []obs{
		{"A", "1-shot", 80},
		{"A", "1-shot", 85},
	}
	table := build(records, []string{"A"}, []string{"1-shot"})
	if table.Rows[0][1] != "85.00" {
		t.Errorf("duplicate cell: got %q, want %q", table.Rows[0][1], "85.00")
	}
}

func TestBuildNoRecords(t *testing.T) {
	table := build(nil, []string{"A"}, []string{"1-shot"})
	if len(table.Rows) != 1 {
		t.Fatalf("expected only the marginal row, got %d rows", len(table.Rows))
	}
	if table.Rows[0][0] != pivot.MarginalLabel || table.Rows[0][1] != pivot.Sentinel {
		t.Errorf("marginal row: got %v", table.Rows[0])
	}
}
