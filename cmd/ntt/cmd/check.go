package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var site string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Trigger a check pass",
		Long: "Asks the server to run a check pass immediately and prints the\n" +
			"resulting pass summary. With --site only that site is checked.",
		Example: `  ntt check
  ntt check --site aiims
  ntt check --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			pass, err := c.RunCheck(context.Background(), site)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(pass)
			}
			return printPassDetail(pass)
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "check only this site key")

	return cmd
}
