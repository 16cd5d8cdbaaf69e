package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/extract"
	"github.com/signalnine/scorecard/internal/ledger"
)

var (
	flagTask       string
	flagLogFile    string
	flagModel      string
	flagDataset    string
	flagShots      int
	flagSeed       int
	flagEvalTime   float64
	flagCheckpoint string
	flagSubtask    string
	flagNotes      string
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record one evaluation run in the ledger",
		Long: "Parse an evaluation log file and append or merge the result into the " +
			"per-model ledger. A missing or unparsable log records the run as " +
			"unavailable; it never fails the call.",
		RunE: runIngest,
	}
	cmd.Flags().StringVar(&flagTask, "task", "", "evaluation task (few_shot or base2new)")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "path to the run's log.txt")
	cmd.Flags().StringVar(&flagModel, "model", "", "model name")
	cmd.Flags().StringVar(&flagDataset, "dataset", "", "dataset name")
	cmd.Flags().IntVar(&flagShots, "shots", 0, "number of shots")
	cmd.Flags().IntVar(&flagSeed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&flagEvalTime, "eval-time", 0, "evaluation time in seconds")
	cmd.Flags().StringVar(&flagCheckpoint, "checkpoint", "", "checkpoint name or path")
	cmd.Flags().StringVar(&flagSubtask, "subtask", "", "base2new phase (base or new)")
	cmd.Flags().StringVar(&flagNotes, "notes", "", "additional notes")
	cmd.MarkFlagRequired("task")
	cmd.MarkFlagRequired("log-file")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagRequired("shots")
	cmd.MarkFlagRequired("seed")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	task := ledger.Task(flagTask)
	if task != ledger.TaskFewShot && task != ledger.TaskBase2New {
		return fmt.Errorf("task must be %q or %q, got %q", ledger.TaskFewShot, ledger.TaskBase2New, flagTask)
	}
	if task == ledger.TaskBase2New && flagSubtask == "" {
		return fmt.Errorf("--subtask is required for the %s task", ledger.TaskBase2New)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	metrics := readMetrics(flagLogFile)

	path := ledger.PathFor(cfg.Paths.LedgerDir, task, flagModel)
	l, err := ledger.Open(path, task)
	if err != nil {
		return err
	}

	entry := ledger.Entry{
		Model:      flagModel,
		Checkpoint: flagCheckpoint,
		Dataset:    flagDataset,
		Shots:      flagShots,
		Seed:       flagSeed,
		Subtask:    ledger.Subtask(flagSubtask),
		Metrics:    metrics,
		EvalTime:   flagEvalTime,
		Notes:      flagNotes,
	}
	if task == ledger.TaskFewShot {
		l.IngestSingle(entry)
	} else if err := l.IngestPhase(entry); err != nil {
		return err
	}
	if err := l.Save(); err != nil {
		return err
	}

	acc := ledger.Unavailable
	if v, ok := metrics["accuracy"]; ok {
		acc = fmt.Sprintf("%.2f%%", v)
	}
	check := color.New(color.FgGreen).Sprint("✓")
	if task == ledger.TaskFewShot {
		fmt.Printf("%s Logged to %s: %s, %d-shot, seed %d, acc=%s\n",
			check, path, flagDataset, flagShots, flagSeed, acc)
	} else {
		fmt.Printf("%s Logged to %s: %s, %s, seed %d, acc=%s\n",
			check, path, flagDataset, flagSubtask, flagSeed, acc)
	}
	return nil
}

// readMetrics extracts metrics from the log file. A missing log or a log
// with no recognizable result block is a warning; the run is recorded as
// unavailable rather than blocking the batch.
func readMetrics(path string) extract.MetricSet {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("log file not found: %s", path)
		return extract.MetricSet{}
	}
	metrics := extract.Extract(string(data))
	if len(metrics) == 0 {
		log.Warnf("no metrics found in %s", path)
	}
	return metrics
}
