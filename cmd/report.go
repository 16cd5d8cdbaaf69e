package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/ledger"
	"github.com/signalnine/scorecard/internal/report"
)

var (
	flagReportModel  string
	flagReportTask   string
	flagReportFormat string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a stored ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			task := ledger.Task(flagReportTask)
			if task != ledger.TaskFewShot && task != ledger.TaskBase2New {
				return fmt.Errorf("task must be %q or %q, got %q",
					ledger.TaskFewShot, ledger.TaskBase2New, flagReportTask)
			}
			path := ledger.PathFor(cfg.Paths.LedgerDir, task, flagReportModel)
			l, err := ledger.Open(path, task)
			if err != nil {
				return err
			}
			if len(l.Records()) == 0 {
				return fmt.Errorf("no records in %s", path)
			}
			return report.Generate(l, task, flagReportFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagReportModel, "model", "", "model whose ledger to summarize")
	cmd.Flags().StringVar(&flagReportTask, "task", string(ledger.TaskFewShot), "ledger task (few_shot or base2new)")
	cmd.Flags().StringVar(&flagReportFormat, "format", "table", "output format (table, markdown, json)")
	cmd.MarkFlagRequired("model")
	return cmd
}
