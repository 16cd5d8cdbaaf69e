package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured evaluation matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Trainer: %s\n", cfg.Trainer)
			if cfg.ConfigSuffix != "" {
				fmt.Printf("Config suffix: %s\n", cfg.ConfigSuffix)
			}
			fmt.Println("\nDatasets:")
			for _, d := range cfg.Datasets {
				fmt.Printf("  - %s\n", d)
			}
			fmt.Println("\nShots:")
			for _, k := range cfg.Shots {
				fmt.Printf("  - %d\n", k)
			}
			fmt.Printf("\nOutput dir: %s\nResults dir: %s\nLedger dir: %s\n",
				cfg.Paths.OutputDir, cfg.Paths.ResultsDir, cfg.Paths.LedgerDir)
			return nil
		},
	}
}
