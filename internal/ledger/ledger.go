// Package ledger maintains the per-model tables of evaluation run results.
//
// A ledger is an explicit value with an open/save lifecycle: Open reads the
// whole backing table into memory, ingest calls mutate the in-memory rows,
// and Save rewrites the table atomically. Single-writer batch semantics;
// callers serialize writers at the process level.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/signalnine/scorecard/internal/extract"
)

var fewShotBase = []string{"model", "checkpoint_name", "dataset", "shot", "seed", "accuracy", "eval_time", "timestamp", "notes"}

var base2newColumns = []string{"model", "checkpoint_name", "dataset", "shot", "seed", "base_acc", "new_acc", "harmonic_mean", "eval_time", "timestamp", "notes"}

// Ledger is a keyed table of run records backed by one delimited file.
type Ledger struct {
	path   string
	task   Task
	extras []string // optional metric columns in first-seen order (few_shot)
	rows   []Record
}

// PathFor returns the backing table path for a task and model, e.g.
// <dir>/few_shot_<model>.csv.
func PathFor(dir string, task Task, model string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", task, model))
}

// Open loads the ledger at path, or starts an empty one when the backing
// table does not exist yet.
func Open(path string, task Task) (*Ledger, error) {
	if task != TaskFewShot && task != TaskBase2New {
		return nil, fmt.Errorf("unknown ledger task %q", task)
	}
	l := &Ledger{path: path, task: task}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}
	if len(records) == 0 {
		return l, nil
	}
	header := records[0]
	for _, col := range header {
		if task == TaskFewShot && !slices.Contains(fewShotBase, col) {
			l.extras = append(l.extras, col)
		}
	}
	for i, row := range records[1:] {
		rec, err := l.decodeRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("ledger %s row %d: %w", path, i+1, err)
		}
		l.rows = append(l.rows, rec)
	}
	return l, nil
}

// Records returns the current rows.
func (l *Ledger) Records() []Record {
	return l.rows
}

// Path returns the backing table path.
func (l *Ledger) Path() string {
	return l.path
}

// IngestSingle appends one few-shot run. Runs are never merged: each
// (model, dataset, shot, seed) combination is logged once per invocation.
// An empty metric set records the accuracy as unavailable, not zero.
func (l *Ledger) IngestSingle(e Entry) {
	rec := Record{
		Model:      e.Model,
		Checkpoint: orUnavailable(e.Checkpoint),
		Dataset:    e.Dataset,
		Shots:      e.Shots,
		Seed:       e.Seed,
		Accuracy:   metricOrUnavailable(e.Metrics, "accuracy"),
		EvalTime:   formatEvalTime(e.EvalTime),
		Timestamp:  stamp(e.Timestamp),
		Notes:      e.Notes,
	}
	for _, name := range optionalMetricNames(e.Metrics) {
		if rec.Metrics == nil {
			rec.Metrics = make(map[string]string)
		}
		rec.Metrics[name] = formatMetric(e.Metrics[name])
		l.addExtra(name)
	}
	l.rows = append(l.rows, rec)
}

// IngestPhase records one phase of a base2new run, merging into the logical
// record matching (model, dataset, shot, seed) when one exists. A duplicate
// phase overwrites the previous value (re-running a phase is a legitimate
// operator action) with a logged warning.
func (l *Ledger) IngestPhase(e Entry) error {
	if e.Subtask != SubtaskBase && e.Subtask != SubtaskNew {
		return fmt.Errorf("subtask must be %q or %q, got %q", SubtaskBase, SubtaskNew, e.Subtask)
	}
	acc := metricOrUnavailable(e.Metrics, "accuracy")

	rec := l.find(e)
	if rec == nil {
		created := Record{
			Model:      e.Model,
			Checkpoint: orUnavailable(e.Checkpoint),
			Dataset:    e.Dataset,
			Shots:      e.Shots,
			Seed:       e.Seed,
			EvalTime:   formatEvalTime(e.EvalTime),
			Timestamp:  stamp(e.Timestamp),
			Notes:      e.Notes,
		}
		if e.Subtask == SubtaskBase {
			created.BaseAcc = acc
		} else {
			created.NewAcc = acc
		}
		l.rows = append(l.rows, created)
		return nil
	}

	prev := &rec.BaseAcc
	if e.Subtask == SubtaskNew {
		prev = &rec.NewAcc
	}
	if *prev != "" {
		log.WithFields(log.Fields{
			"model":   e.Model,
			"dataset": e.Dataset,
			"shot":    e.Shots,
			"seed":    e.Seed,
			"subtask": e.Subtask,
		}).Warnf("overwriting previously recorded value %s", *prev)
	}
	*prev = acc
	rec.HarmonicMean = harmonicMean(rec.BaseAcc, rec.NewAcc)
	if e.EvalTime > 0 {
		prior, _ := rec.EvalTimeValue()
		rec.EvalTime = fmt.Sprintf("%.2f", prior+e.EvalTime)
	}
	rec.Timestamp = stamp(e.Timestamp)
	return nil
}

// Save rewrites the whole backing table. The new contents are written to a
// temporary file in the same directory and moved into place, so readers
// never observe a partially written table and the previous state survives a
// failed write.
func (l *Ledger) Save() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	header := l.header()
	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing ledger header: %w", err)
	}
	for i := range l.rows {
		if err := w.Write(l.encodeRow(header, &l.rows[i])); err != nil {
			tmp.Close()
			return fmt.Errorf("writing ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replacing ledger %s: %w", l.path, err)
	}
	return nil
}

func (l *Ledger) find(e Entry) *Record {
	for i := range l.rows {
		r := &l.rows[i]
		if r.Model == e.Model && r.Dataset == e.Dataset && r.Shots == e.Shots && r.Seed == e.Seed {
			return r
		}
	}
	return nil
}

func (l *Ledger) addExtra(name string) {
	if !slices.Contains(l.extras, name) {
		l.extras = append(l.extras, name)
	}
}

// header is the schema union: the declared field list plus any optional
// metric columns seen so far, between eval_time and timestamp.
func (l *Ledger) header() []string {
	if l.task == TaskBase2New {
		return base2newColumns
	}
	header := make([]string, 0, len(fewShotBase)+len(l.extras))
	header = append(header, "model", "checkpoint_name", "dataset", "shot", "seed", "accuracy", "eval_time")
	header = append(header, l.extras...)
	header = append(header, "timestamp", "notes")
	return header
}

func (l *Ledger) encodeRow(header []string, r *Record) []string {
	row := make([]string, len(header))
	for i, col := range header {
		switch col {
		case "model":
			row[i] = r.Model
		case "checkpoint_name":
			row[i] = r.Checkpoint
		case "dataset":
			row[i] = r.Dataset
		case "shot":
			row[i] = strconv.Itoa(r.Shots)
		case "seed":
			row[i] = strconv.Itoa(r.Seed)
		case "accuracy":
			row[i] = r.Accuracy
		case "base_acc":
			row[i] = r.BaseAcc
		case "new_acc":
			row[i] = r.NewAcc
		case "harmonic_mean":
			row[i] = r.HarmonicMean
		case "eval_time":
			row[i] = r.EvalTime
		case "timestamp":
			row[i] = r.Timestamp
		case "notes":
			row[i] = r.Notes
		default:
			row[i] = r.Metrics[col]
		}
	}
	return row
}

func (l *Ledger) decodeRow(header, row []string) (Record, error) {
	var rec Record
	for i, col := range header {
		if i >= len(row) {
			// A row written before the schema widened lacks the later
			// columns; treat them as absent.
			break
		}
		val := row[i]
		switch col {
		case "model":
			rec.Model = val
		case "checkpoint_name":
			rec.Checkpoint = val
		case "dataset":
			rec.Dataset = val
		case "shot":
			n, err := strconv.Atoi(val)
			if err != nil {
				return rec, fmt.Errorf("bad shot value %q", val)
			}
			rec.Shots = n
		case "seed":
			n, err := strconv.Atoi(val)
			if err != nil {
				return rec, fmt.Errorf("bad seed value %q", val)
			}
			rec.Seed = n
		case "accuracy":
			rec.Accuracy = val
		case "base_acc":
			rec.BaseAcc = val
		case "new_acc":
			rec.NewAcc = val
		case "harmonic_mean":
			rec.HarmonicMean = val
		case "eval_time":
			rec.EvalTime = val
		case "timestamp":
			rec.Timestamp = val
		case "notes":
			rec.Notes = val
		default:
			if val == "" {
				continue
			}
			if rec.Metrics == nil {
				rec.Metrics = make(map[string]string)
			}
			rec.Metrics[col] = val
		}
	}
	return rec, nil
}

// harmonicMean derives 2bn/(b+n) once both phases are recorded. An
// unparsable phase value (an unavailable accuracy) yields Unavailable; a
// missing phase leaves the field empty.
func harmonicMean(baseAcc, newAcc string) string {
	if baseAcc == "" || newAcc == "" {
		return ""
	}
	b, err := strconv.ParseFloat(baseAcc, 64)
	if err != nil {
		return Unavailable
	}
	n, err := strconv.ParseFloat(newAcc, 64)
	if err != nil {
		return Unavailable
	}
	if b+n <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", 2*b*n/(b+n))
}

// optionalMetricNames lists the non-accuracy metrics present in the set, in
// canonical order first and any unknown names after, sorted. The order must
// be deterministic so that repeated saves are byte-identical.
func optionalMetricNames(m extract.MetricSet) []string {
	var names []string
	for _, name := range extract.MetricNames {
		if name == "accuracy" {
			continue
		}
		if _, ok := m[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range m {
		if name != "accuracy" && !slices.Contains(extract.MetricNames, name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return append(names, unknown...)
}

func metricOrUnavailable(m extract.MetricSet, name string) string {
	v, ok := m[name]
	if !ok {
		return Unavailable
	}
	return formatMetric(v)
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatEvalTime(seconds float64) string {
	if seconds <= 0 {
		return Unavailable
	}
	return fmt.Sprintf("%.2f", seconds)
}

func orUnavailable(s string) string {
	if s == "" {
		return Unavailable
	}
	return s
}

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(timestampLayout)
}
