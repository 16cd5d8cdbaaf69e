package ledger

import (
	"strconv"
	"time"

	"github.com/signalnine/scorecard/internal/extract"
)

// Task selects the ledger layout.
type Task string

const (
	// TaskFewShot records one row per evaluation run.
	TaskFewShot Task = "few_shot"
	// TaskBase2New merges base and new phase results into one logical row.
	TaskBase2New Task = "base2new"
)

// Subtask names one phase of a base-to-new generalization run.
type Subtask string

const (
	SubtaskBase Subtask = "base"
	SubtaskNew  Subtask = "new"
)

// Unavailable marks a value that could not be measured. It is deliberately
// distinct from an empty field, which means "not yet observed".
const Unavailable = "N/A"

const timestampLayout = "2006-01-02 15:04:05"

// Entry is one evaluation observation handed in by the caller. Identity
// fields come from the invocation, not from the log.
type Entry struct {
	Model      string
	Checkpoint string
	Dataset    string
	Shots      int
	Seed       int
	Subtask    Subtask // base2new only
	Metrics    extract.MetricSet
	EvalTime   float64 // elapsed seconds; 0 means unknown
	Notes      string
	Timestamp  time.Time // zero value means now
}

// Record is one ledger row. Metric fields are strings so that the numeric,
// empty, and Unavailable states survive load/save round trips unchanged.
type Record struct {
	Model      string
	Checkpoint string
	Dataset    string
	Shots      int
	Seed       int

	// Few-shot fields.
	Accuracy string
	Metrics  map[string]string // optional metric columns

	// Base2new fields.
	BaseAcc      string
	NewAcc       string
	HarmonicMean string

	EvalTime  string
	Timestamp string
	Notes     string
}

// AccuracyValue returns the numeric accuracy, or false when the field is
// empty or unavailable.
func (r *Record) AccuracyValue() (float64, bool) {
	return parseField(r.Accuracy)
}

// HarmonicValue returns the numeric harmonic mean of a base2new row, or
// false when one of the phases has not been recorded yet.
func (r *Record) HarmonicValue() (float64, bool) {
	return parseField(r.HarmonicMean)
}

// EvalTimeValue returns the accumulated evaluation seconds, or false when
// the field never held a number.
func (r *Record) EvalTimeValue() (float64, bool) {
	return parseField(r.EvalTime)
}

func parseField(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
