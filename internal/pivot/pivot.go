// Package pivot projects run records into a two-dimensional matrix view.
package pivot

import (
	"fmt"

	"github.com/signalnine/scorecard/internal/stats"
)

// Sentinel fills cells with no observation. Missing data is rendered
// explicitly, never as a blank or a zero.
const Sentinel = "N/A"

// MarginalLabel names the appended per-column average row.
const MarginalLabel = "AVERAGE"

// Table is a rendered matrix: a header row and data rows, the last of which
// is the marginal average row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Build projects records into a matrix. Rows follow rowOrder but only rows
// with at least one observation are emitted; columns follow colOrder exactly
// and are always all present in the header. When the same (row, column) cell
// is observed twice the later record wins. The marginal row averages each
// column over only the rows holding a value for it.
func Build[T any](records []T, rowKey, colKey func(T) string, value func(T) float64, rowOrder, colOrder []string, corner string) *Table {
	cells := make(map[string]map[string]float64)
	for _, r := range records {
		rk, ck := rowKey(r), colKey(r)
		if cells[rk] == nil {
			cells[rk] = make(map[string]float64)
		}
		cells[rk][ck] = value(r)
	}

	t := &Table{Header: append([]string{corner}, colOrder...)}
	for _, rk := range rowOrder {
		byCol, ok := cells[rk]
		if !ok {
			continue
		}
		row := make([]string, 0, len(colOrder)+1)
		row = append(row, rk)
		for _, ck := range colOrder {
			if v, ok := byCol[ck]; ok {
				row = append(row, fmt.Sprintf("%.2f", v))
			} else {
				row = append(row, Sentinel)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	marginal := make([]string, 0, len(colOrder)+1)
	marginal = append(marginal, MarginalLabel)
	for _, ck := range colOrder {
		var vals []float64
		for _, rk := range rowOrder {
			if v, ok := cells[rk][ck]; ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			marginal = append(marginal, Sentinel)
		} else {
			marginal = append(marginal, fmt.Sprintf("%.2f", stats.Summarize(vals).Mean))
		}
	}
	t.Rows = append(t.Rows, marginal)
	return t
}
