package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func passesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "passes",
		Short: "Show recent check passes",
		Example: `  ntt passes
  ntt passes --limit 5 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			passes, err := c.ListPasses(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(passes)
			}
			if len(passes) == 0 {
				fmt.Println("No passes recorded yet.")
				return nil
			}
			return printPassesTable(passes)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of passes (server default 20)")

	return cmd
}
