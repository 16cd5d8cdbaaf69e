package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/times"
)

var (
	flagTimesDataset  string
	flagTimesTrainer  string
	flagTimesShots    int
	flagTimesMaxEpoch int
	flagTimesSeed     int
	flagTimesDuration float64
	flagTimesOutDir   string
	flagTimesRecent   int
)

func newTimesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "times",
		Short: "Training-duration ledger",
	}
	cmd.AddCommand(newTimesRecordCmd())
	cmd.AddCommand(newTimesAnalyzeCmd())
	return cmd
}

func newTimesRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append one training run to the duration ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			run := times.Run{
				Dataset:         flagTimesDataset,
				Trainer:         flagTimesTrainer,
				Shots:           flagTimesShots,
				MaxEpoch:        flagTimesMaxEpoch,
				Seed:            flagTimesSeed,
				DurationSeconds: flagTimesDuration,
				OutputDir:       flagTimesOutDir,
			}
			if err := times.Append(cfg.Paths.TimesFile, run); err != nil {
				return err
			}
			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Printf("%s Recorded %s training run for %s in %s\n",
				check, flagTimesTrainer, flagTimesDataset, cfg.Paths.TimesFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagTimesDataset, "dataset", "", "dataset name")
	cmd.Flags().StringVar(&flagTimesTrainer, "trainer", "", "trainer name")
	cmd.Flags().IntVar(&flagTimesShots, "shots", 0, "number of shots")
	cmd.Flags().IntVar(&flagTimesMaxEpoch, "max-epoch", 0, "configured epoch count")
	cmd.Flags().IntVar(&flagTimesSeed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&flagTimesDuration, "duration", 0, "training duration in seconds")
	cmd.Flags().StringVar(&flagTimesOutDir, "output-dir", "", "training output directory")
	cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagRequired("trainer")
	cmd.MarkFlagRequired("duration")
	return cmd
}

func newTimesAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze recorded training durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			runs, err := times.Load(cfg.Paths.TimesFile)
			if err != nil {
				return err
			}
			times.Analyze(runs, flagTimesRecent, os.Stdout)
			return nil
		},
	}
	cmd.Flags().IntVar(&flagTimesRecent, "recent", 10, "number of recent runs to show")
	return cmd
}
