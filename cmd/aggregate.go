package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/report"
	"github.com/signalnine/scorecard/internal/scan"
)

var (
	flagAggDataset string
	flagAggShots   int
	flagParallel   int
)

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Scan the eval output tree and write the report tables",
		RunE:  runAggregate,
	}
	cmd.Flags().StringVar(&flagAggDataset, "dataset", "", "filter to a single dataset")
	cmd.Flags().IntVar(&flagAggShots, "shots", 0, "filter to a single shot count")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "max concurrent directory scans")
	return cmd
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg.Datasets = filterDatasets(cfg.Datasets, flagAggDataset)
	cfg.Shots = filterShots(cfg.Shots, flagAggShots)
	if len(cfg.Datasets) == 0 {
		return fmt.Errorf("dataset %q is not in the configured matrix", flagAggDataset)
	}
	if len(cfg.Shots) == 0 {
		return fmt.Errorf("shot count %d is not in the configured matrix", flagAggShots)
	}

	results := scan.Matrix(cfg, flagParallel)
	if len(results) == 0 {
		return fmt.Errorf("no results found under %s", cfg.Paths.OutputDir)
	}

	summaries := report.BuildSummary(results, cfg.Shots)
	pivotTable := report.BuildPivot(results, cfg.Datasets, cfg.Shots)

	detailedCSV := filepath.Join(cfg.Paths.ResultsDir, "detailed_results.csv")
	summaryCSV := filepath.Join(cfg.Paths.ResultsDir, "summary_by_shots.csv")
	pivotCSV := filepath.Join(cfg.Paths.ResultsDir, "pivot_table.csv")

	if err := report.WriteDetailed(results, detailedCSV); err != nil {
		return err
	}
	if err := report.WriteSummary(summaries, summaryCSV); err != nil {
		return err
	}
	if err := report.WritePivot(pivotTable, pivotCSV); err != nil {
		return err
	}

	fmt.Println("Summary by shots:")
	report.RenderSummary(summaries, os.Stdout)
	fmt.Println("\nPivot table (dataset vs shots):")
	report.RenderPivot(pivotTable, os.Stdout)

	fmt.Println("\nGenerated files:")
	fmt.Printf("  %s\n", detailedCSV)
	fmt.Printf("  %s\n", summaryCSV)
	fmt.Printf("  %s\n", pivotCSV)
	return nil
}

func filterDatasets(datasets []string, name string) []string {
	if name == "" {
		return datasets
	}
	var filtered []string
	for _, d := range datasets {
		if d == name {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func filterShots(shots []int, k int) []int {
	if k == 0 {
		return shots
	}
	var filtered []int
	for _, s := range shots {
		if s == k {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
