package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scorecard",
		Short: "Ledger and aggregation for few-shot evaluation runs",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "scorecard.yaml", "config file path")
	root.AddCommand(newIngestCmd())
	root.AddCommand(newAggregateCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newTimesCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	return root
}
