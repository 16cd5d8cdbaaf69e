package stats_test

import (
	"math"
	"testing"

	"github.com/signalnine/scorecard/internal/stats"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	s := stats.Summarize([]float64{70, 80, 90})
	if !almostEqual(s.Mean, 80) {
		t.Errorf("mean: got %f, want 80", s.Mean)
	}
	if !almostEqual(s.Min, 70) {
		t.Errorf("min: got %f, want 70", s.Min)
	}
	if !almostEqual(s.Max, 90) {
		t.Errorf("max: got %f, want 90", s.Max)
	}
	// Population deviation: sqrt(((-10)^2 + 0 + 10^2) / 3).
	want := math.Sqrt(200.0 / 3.0)
	if !almostEqual(s.StdDev, want) {
		t.Errorf("stddev: got %f, want %f", s.StdDev, want)
	}
	if s.Count != 3 {
		t.Errorf("count: got %d, want 3", s.Count)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := stats.Summarize(nil)
	if s.Count != 0 || s.Mean != 0 || s.StdDev != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	s := stats.Summarize([]float64{42.5})
	if !almostEqual(s.Mean, 42.5) || !almostEqual(s.Min, 42.5) || !almostEqual(s.Max, 42.5) {
		t.Errorf("single value summary wrong: %+v", s)
	}
	if !almostEqual(s.StdDev, 0) {
		t.Errorf("stddev of one value: got %f, want 0", s.StdDev)
	}
}

func TestCI95(t *testing.T) {
	values := []float64{70, 80, 90}
	want := 1.96 * math.Sqrt(200.0/3.0) / math.Sqrt(3)
	if got := stats.CI95(values); !almostEqual(got, want) {
		t.Errorf("CI95: got %f, want %f", got, want)
	}
	if got := stats.CI95(nil); got != 0 {
		t.Errorf("CI95 of empty slice: got %f, want 0", got)
	}
}

func TestGroup(t *testing.T) {
	type obs struct {
		key string
		val float64
	}
	items := []obs{
		{"a", 10}, {"a", 20}, {"b", 5},
	}
	groups := stats.Group(items,
		func(o obs) string { return o.key },
		func(o obs) float64 { return o.val })
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !almostEqual(groups["a"].Mean, 15) {
		t.Errorf("group a mean: got %f, want 15", groups["a"].Mean)
	}
	if groups["a"].Count != 2 {
		t.Errorf("group a count: got %d, want 2", groups["a"].Count)
	}
	if !almostEqual(groups["b"].Mean, 5) {
		t.Errorf("group b mean: got %f, want 5", groups["b"].Mean)
	}
}

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59.9, "00:00:59"},
		{60, "00:01:00"},
		{3661, "01:01:01"},
		{7325.7, "02:02:05"},
		{86400, "24:00:00"},
	}
	for _, tt := range tests {
		if got := stats.FormatHMS(tt.seconds); got != tt.want {
			t.Errorf("FormatHMS(%f): got %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
