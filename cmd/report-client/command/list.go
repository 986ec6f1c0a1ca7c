package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediahub/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the battery is static, no catalog is contacted
		for _, r := range report.NewReporter(nil, 1).Battery() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", r.Number, r.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
