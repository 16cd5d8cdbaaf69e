package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/scorecard/internal/ledger"
	"github.com/signalnine/scorecard/internal/stats"
)

// GroupStat is one group's accuracy rollup in a ledger report.
type GroupStat struct {
	Key    string  `json:"key"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// LedgerSummary groups a ledger's measurable records two ways.
type LedgerSummary struct {
	ByDataset []GroupStat `json:"by_dataset"`
	ByShot    []GroupStat `json:"by_shot"`
}

type measured struct {
	dataset string
	shots   int
	value   float64
}

// Generate reads a ledger and writes grouped accuracy statistics. For
// base2new ledgers the grouped value is the harmonic mean; records whose
// value is unavailable or not yet derived are left out of the groups.
func Generate(l *ledger.Ledger, task ledger.Task, format string, w io.Writer) error {
	var rows []measured
	for _, rec := range l.Records() {
		var v float64
		var ok bool
		if task == ledger.TaskBase2New {
			v, ok = rec.HarmonicValue()
		} else {
			v, ok = rec.AccuracyValue()
		}
		if !ok {
			continue
		}
		rows = append(rows, measured{dataset: rec.Dataset, shots: rec.Shots, value: v})
	}
	if len(rows) == 0 {
		return fmt.Errorf("ledger %s has no measurable records", l.Path())
	}

	byDataset := stats.Group(rows,
		func(m measured) string { return m.dataset },
		func(m measured) float64 { return m.value })
	byShot := stats.Group(rows,
		func(m measured) string { return strconv.Itoa(m.shots) },
		func(m measured) float64 { return m.value })

	summary := &LedgerSummary{
		ByDataset: sortedStats(byDataset, false),
		ByShot:    sortedStats(byShot, true),
	}

	switch format {
	case "markdown":
		return writeMarkdown(summary, w)
	case "json":
		return writeJSON(summary, w)
	default:
		return writeTable(summary, w)
	}
}

func sortedStats(groups map[string]stats.Summary, numeric bool) []GroupStat {
	out := make([]GroupStat, 0, len(groups))
	for key, s := range groups {
		out = append(out, GroupStat{
			Key:    key,
			Mean:   s.Mean,
			Min:    s.Min,
			Max:    s.Max,
			StdDev: s.StdDev,
			Count:  s.Count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if numeric {
			a, errA := strconv.Atoi(out[i].Key)
			b, errB := strconv.Atoi(out[j].Key)
			if errA == nil && errB == nil {
				return a < b
			}
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func writeTable(summary *LedgerSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeSection := func(title string, groups []GroupStat) {
		fmt.Fprintln(tw, title)
		fmt.Fprintln(tw, "KEY\tMEAN\tMIN\tMAX\tSTDDEV\tRUNS")
		fmt.Fprintln(tw, strings.Repeat("-", 60))
		for _, g := range groups {
			fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%.2f%%\t%.2f\t%d\n",
				g.Key, g.Mean, g.Min, g.Max, g.StdDev, g.Count)
		}
	}
	writeSection("BY DATASET", summary.ByDataset)
	fmt.Fprintln(tw)
	writeSection("BY SHOTS", summary.ByShot)
	return tw.Flush()
}

func writeMarkdown(summary *LedgerSummary, w io.Writer) error {
	writeSection := func(title string, groups []GroupStat) {
		fmt.Fprintf(w, "### %s\n\n", title)
		fmt.Fprintln(w, "| Key | Mean | Min | Max | StdDev | Runs |")
		fmt.Fprintln(w, "|---|---|---|---|---|---|")
		for _, g := range groups {
			fmt.Fprintf(w, "| %s | %.2f%% | %.2f%% | %.2f%% | %.2f | %d |\n",
				g.Key, g.Mean, g.Min, g.Max, g.StdDev, g.Count)
		}
		fmt.Fprintln(w)
	}
	writeSection("By dataset", summary.ByDataset)
	writeSection("By shots", summary.ByShot)
	return nil
}

func writeJSON(summary *LedgerSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
