// Package times maintains the training-duration ledger and its analyses.
//
// Unlike the result ledgers, the times table is append-only: every training
// invocation adds exactly one row and rows are never merged or updated.
package times

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/signalnine/scorecard/internal/stats"
)

var columns = []string{
	"timestamp", "dataset", "trainer", "num_shots", "max_epoch",
	"seed", "duration_seconds", "duration_formatted", "output_dir",
}

const timestampLayout = "2006-01-02 15:04:05"

// Run is one recorded training invocation.
type Run struct {
	Timestamp         string
	Dataset           string
	Trainer           string
	Shots             int
	MaxEpoch          int
	Seed              int
	DurationSeconds   float64
	DurationFormatted string
	OutputDir         string
}

// Append adds one run to the table at path, writing the header first when
// the table is new. Timestamp and the formatted duration are filled in when
// empty.
func Append(path string, r Run) error {
	if r.Timestamp == "" {
		r.Timestamp = time.Now().Format(timestampLayout)
	}
	if r.DurationFormatted == "" {
		r.DurationFormatted = stats.FormatHMS(r.DurationSeconds)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating times dir: %w", err)
	}
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening times ledger %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := w.Write(columns); err != nil {
			f.Close()
			return fmt.Errorf("writing times header: %w", err)
		}
	}
	row := []string{
		r.Timestamp,
		r.Dataset,
		r.Trainer,
		strconv.Itoa(r.Shots),
		strconv.Itoa(r.MaxEpoch),
		strconv.Itoa(r.Seed),
		fmt.Sprintf("%.2f", r.DurationSeconds),
		r.DurationFormatted,
		r.OutputDir,
	}
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("writing times row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing times ledger: %w", err)
	}
	return f.Close()
}

// Load reads all recorded runs. A missing table is an empty history, not an
// error.
func Load(path string) ([]Run, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening times ledger %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing times ledger %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	var runs []Run
	for _, row := range records[1:] {
		shots, _ := strconv.Atoi(field(row, "num_shots"))
		epoch, _ := strconv.Atoi(field(row, "max_epoch"))
		seed, _ := strconv.Atoi(field(row, "seed"))
		dur, _ := strconv.ParseFloat(field(row, "duration_seconds"), 64)
		runs = append(runs, Run{
			Timestamp:         field(row, "timestamp"),
			Dataset:           field(row, "dataset"),
			Trainer:           field(row, "trainer"),
			Shots:             shots,
			MaxEpoch:          epoch,
			Seed:              seed,
			DurationSeconds:   dur,
			DurationFormatted: field(row, "duration_formatted"),
			OutputDir:         field(row, "output_dir"),
		})
	}
	return runs, nil
}

// Analyze prints the overall summary, the most recent runs, and durations
// grouped by dataset, trainer, and shot count.
func Analyze(runs []Run, recent int, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No training runs have been logged yet.")
		return
	}

	var total float64
	durations := make([]float64, len(runs))
	for i, r := range runs {
		durations[i] = r.DurationSeconds
		total += r.DurationSeconds
	}
	overall := stats.Summarize(durations)
	datasets := distinct(runs, func(r Run) string { return r.Dataset })
	trainers := distinct(runs, func(r Run) string { return r.Trainer })

	section(w, "OVERALL SUMMARY")
	fmt.Fprintf(w, "Total training runs: %d\n", len(runs))
	fmt.Fprintf(w, "Total training time: %s\n", stats.FormatHMS(total))
	fmt.Fprintf(w, "Average training time: %s\n", stats.FormatHMS(overall.Mean))
	fmt.Fprintf(w, "Shortest training: %s\n", stats.FormatHMS(overall.Min))
	fmt.Fprintf(w, "Longest training: %s\n", stats.FormatHMS(overall.Max))
	fmt.Fprintf(w, "Datasets trained: %d\n", datasets)
	fmt.Fprintf(w, "Trainers used: %d\n", trainers)

	if recent > len(runs) {
		recent = len(runs)
	}
	section(w, fmt.Sprintf("RECENT %d TRAINING RUNS", recent))
	rt := tablewriter.NewWriter(w)
	rt.SetHeader([]string{"Timestamp", "Dataset", "Trainer", "Shots", "Duration", "Seed"})
	for _, r := range runs[len(runs)-recent:] {
		rt.Append([]string{
			r.Timestamp, r.Dataset, r.Trainer,
			strconv.Itoa(r.Shots), r.DurationFormatted, strconv.Itoa(r.Seed),
		})
	}
	rt.Render()

	grouped(w, "TRAINING TIME BY DATASET", runs, func(r Run) string { return r.Dataset })
	grouped(w, "TRAINING TIME BY TRAINER", runs, func(r Run) string { return r.Trainer })
	grouped(w, "TRAINING TIME BY SHOTS", runs, func(r Run) string { return strconv.Itoa(r.Shots) })
}

func grouped(w io.Writer, title string, runs []Run, key func(Run) string) {
	section(w, title)
	groups := stats.Group(runs, key, func(r Run) float64 { return r.DurationSeconds })
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sortKeys(keys)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Avg", "Min", "Max", "Runs"})
	for _, k := range keys {
		s := groups[k]
		table.Append([]string{
			k,
			stats.FormatHMS(s.Mean),
			stats.FormatHMS(s.Min),
			stats.FormatHMS(s.Max),
			strconv.Itoa(s.Count),
		})
	}
	table.Render()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func distinct(runs []Run, key func(Run) string) int {
	seen := make(map[string]struct{})
	for _, r := range runs {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}

// sortKeys orders numerically when both keys are numbers, else
// lexicographically.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
}
