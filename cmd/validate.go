package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/scan"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and report which eval directories exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			var missing int
			for _, dataset := range cfg.Datasets {
				for _, k := range cfg.Shots {
					dir := scan.EvalDir(cfg.Paths.OutputDir, dataset, k, cfg.Trainer, cfg.ConfigSuffix)
					if _, err := os.Stat(dir); err != nil {
						fmt.Printf("  missing: %s (%s, %d-shot)\n", dir, dataset, k)
						missing++
					}
				}
			}

			total := len(cfg.Datasets) * len(cfg.Shots)
			if missing == 0 {
				check := color.New(color.FgGreen).Sprint("✓")
				fmt.Printf("%s Config valid; all %d eval directories present\n", check, total)
			} else {
				fmt.Printf("Config valid; %d of %d eval directories missing\n", missing, total)
			}
			return nil
		},
	}
}
